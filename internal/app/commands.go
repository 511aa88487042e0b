package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"chabeau/internal/logging"
	"chabeau/internal/render"
	"chabeau/internal/theme"
	"chabeau/internal/transcript"
)

// Command is one slash command recognized in Compose mode.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
}

// AllCommands returns the command table, in the order /help lists them.
func AllCommands() []Command {
	return []Command{
		{Name: "help", Aliases: []string{"h", "?"}, Description: "show available commands", Usage: "/help"},
		{Name: "clear", Aliases: []string{"c"}, Description: "clear conversation history", Usage: "/clear"},
		{Name: "retry", Aliases: []string{"r"}, Description: "resend the last user message", Usage: "/retry"},
		{Name: "provider", Aliases: []string{"p"}, Description: "open the provider picker", Usage: "/provider"},
		{Name: "model", Aliases: []string{"m"}, Description: "open the model picker", Usage: "/model"},
		{Name: "theme", Description: "open the theme picker", Usage: "/theme"},
		{Name: "persona", Description: "switch persona by ID", Usage: "/persona <id>"},
		{Name: "preset", Description: "switch preset by ID", Usage: "/preset <id>"},
		{Name: "character", Aliases: []string{"char"}, Description: "switch character by ID", Usage: "/character <id>"},
		{Name: "log", Description: "pause or resume the transcript log", Usage: "/log [pause|resume]"},
		{Name: "dump", Description: "write the conversation to a text file", Usage: "/dump [path]"},
		{Name: "copy", Description: "copy the last assistant reply to the clipboard", Usage: "/copy"},
		{Name: "quit", Aliases: []string{"q"}, Description: "exit chabeau", Usage: "/quit"},
	}
}

// commandSource adapts []Command to fuzzy.Source for name-based ranking.
type commandSource []Command

func (c commandSource) String(i int) string { return c[i].Name }
func (c commandSource) Len() int            { return len(c) }

// FilterCommands ranks commands against query (without its leading slash)
// using fuzzy (subsequence) matching on command names, falling back to a
// case-insensitive name-prefix scan when fuzzy finds nothing.
func FilterCommands(query string) []Command {
	all := AllCommands()
	query = strings.TrimPrefix(query, "/")
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, commandSource(all))
	if len(matches) > 0 {
		out := make([]Command, len(matches))
		for i, m := range matches {
			out[i] = all[m.Index]
		}
		return out
	}
	lower := strings.ToLower(query)
	var out []Command
	for _, c := range all {
		if strings.HasPrefix(c.Name, lower) {
			out = append(out, c)
		}
	}
	return out
}

// findCommand resolves a typed name against AllCommands by exact name,
// exact alias, then unique prefix. ok is false on no match or an
// ambiguous prefix (msg then explains why).
func findCommand(name string) (cmd Command, ok bool, msg string) {
	name = strings.ToLower(name)
	for _, c := range AllCommands() {
		if c.Name == name {
			return c, true, ""
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, true, ""
			}
		}
	}
	var prefixMatches []Command
	for _, c := range AllCommands() {
		if strings.HasPrefix(c.Name, name) {
			prefixMatches = append(prefixMatches, c)
		}
	}
	switch len(prefixMatches) {
	case 0:
		return Command{}, false, fmt.Sprintf("unknown command: /%s", name)
	case 1:
		return prefixMatches[0], true, ""
	default:
		var names []string
		for _, c := range prefixMatches {
			names = append(names, "/"+c.Name)
		}
		return Command{}, false, fmt.Sprintf("ambiguous command /%s: %s", name, strings.Join(names, ", "))
	}
}

// ExecuteSlashCommand parses and runs a "/name args..." line typed in
// Compose mode. It always clears the input buffer, even on failure: a
// bad command shouldn't linger for the user to re-send as a chat message.
func (m *Model) ExecuteSlashCommand(line string) (tea.Model, tea.Cmd) {
	m.input.Clear()
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return m, nil
	}
	cmd, ok, failMsg := findCommand(strings.TrimPrefix(fields[0], "/"))
	if !ok {
		m.setStatus(failMsg, render.StatusWarning)
		return m, nil
	}
	args := fields[1:]

	switch cmd.Name {
	case "help":
		m.setStatus(helpSummary(), render.StatusInfo)
		return m, nil
	case "clear":
		m.conv.Cancel()
		m.conv.TruncateAt(0)
		m.rebuildCache()
		m.vp.End()
		m.setStatus("conversation cleared", render.StatusInfo)
		return m, nil
	case "retry":
		return m.retry()
	case "provider":
		m.OpenProviderPicker()
		return m, nil
	case "model":
		m.OpenModelPicker()
		return m, nil
	case "theme":
		custom, _ := theme.LoadCustomThemes(m.cfg.CustomThemesDir)
		m.OpenThemePicker(custom)
		return m, nil
	case "persona":
		return m.switchPersona(args)
	case "preset":
		return m.switchPreset(args)
	case "character":
		return m.switchCharacter(args)
	case "log":
		return m.toggleLog(args)
	case "dump":
		return m.dumpConversation(args)
	case "copy":
		return m.copyLastReply()
	case "quit":
		m.conv.Cancel()
		m.quitting = true
		return m, tea.Quit
	}
	m.setStatus(fmt.Sprintf("/%s is not yet implemented", cmd.Name), render.StatusWarning)
	return m, nil
}

func helpSummary() string {
	var b strings.Builder
	for i, c := range AllCommands() {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c.Usage)
	}
	return b.String()
}

func (m *Model) switchPersona(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setStatus("usage: /persona <id>", render.StatusWarning)
		return m, nil
	}
	if m.resolver == nil {
		m.setStatus("no persona/character/preset resolver configured", render.StatusWarning)
		return m, nil
	}
	id := args[0]
	if _, ok := m.resolver.ResolvePersona(id); !ok {
		m.setStatus(fmt.Sprintf("unknown persona: %s", id), render.StatusError)
		return m, nil
	}
	m.personaID = id
	m.applySession()
	m.setStatus("persona set to "+id, render.StatusInfo)
	return m, nil
}

func (m *Model) switchPreset(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setStatus("usage: /preset <id>", render.StatusWarning)
		return m, nil
	}
	if m.resolver == nil {
		m.setStatus("no persona/character/preset resolver configured", render.StatusWarning)
		return m, nil
	}
	id := args[0]
	if _, ok := m.resolver.ResolvePreset(id); !ok {
		m.setStatus(fmt.Sprintf("unknown preset: %s", id), render.StatusError)
		return m, nil
	}
	m.presetID = id
	m.applySession()
	m.setStatus("preset set to "+id, render.StatusInfo)
	return m, nil
}

func (m *Model) switchCharacter(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setStatus("usage: /character <id>", render.StatusWarning)
		return m, nil
	}
	if m.resolver == nil {
		m.setStatus("no persona/character/preset resolver configured", render.StatusWarning)
		return m, nil
	}
	id := args[0]
	if _, ok := m.resolver.ResolveCharacter(id); !ok {
		m.setStatus(fmt.Sprintf("unknown character: %s", id), render.StatusError)
		return m, nil
	}
	m.characterID = id
	m.applySession()
	m.setStatus("character set to "+id, render.StatusInfo)
	return m, nil
}

func (m *Model) toggleLog(args []string) (tea.Model, tea.Cmd) {
	if m.log == nil {
		m.setStatus("no log file open (start with --log)", render.StatusWarning)
		return m, nil
	}
	verb := "pause"
	if len(args) > 0 {
		verb = strings.ToLower(args[0])
	}
	var err error
	switch verb {
	case "pause":
		err = m.log.Pause()
	case "resume":
		err = m.log.Resume()
	default:
		m.setStatus("usage: /log [pause|resume]", render.StatusWarning)
		return m, nil
	}
	if err != nil {
		m.setStatus("log: "+err.Error(), render.StatusError)
		return m, nil
	}
	m.setStatus("log "+verb+"d", render.StatusInfo)
	return m, nil
}

func (m *Model) dumpConversation(args []string) (tea.Model, tea.Cmd) {
	path := logging.DefaultDumpName(m.now())
	if len(args) > 0 {
		path = strings.Join(args, " ")
	}
	if err := logging.Dump(path, m.conv.Transcript().Messages(), true); err != nil {
		m.setStatus("dump: "+err.Error(), render.StatusError)
		return m, nil
	}
	m.setStatus("dumped conversation to "+path, render.StatusInfo)
	return m, nil
}

func (m *Model) copyLastReply() (tea.Model, tea.Cmd) {
	idx := m.conv.LastIndexOfRole(transcript.RoleAssistant)
	if idx < 0 {
		m.setStatus("no assistant reply to copy", render.StatusWarning)
		return m, nil
	}
	text := m.conv.Transcript().Messages()[idx].Content
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus("clipboard: "+err.Error(), render.StatusError)
		return m, nil
	}
	m.setStatus("copied last reply", render.StatusInfo)
	return m, nil
}
