// Package app wires every other package into one bubbletea program: the
// event loop, mode-aware key routing, and the streaming dispatcher loop.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"chabeau/internal/auth"
	"chabeau/internal/character"
	"chabeau/internal/config"
	"chabeau/internal/conversation"
	"chabeau/internal/input"
	"chabeau/internal/layout"
	"chabeau/internal/logging"
	"chabeau/internal/modes"
	"chabeau/internal/picker"
	"chabeau/internal/provider"
	"chabeau/internal/render"
	"chabeau/internal/streamclient"
	"chabeau/internal/theme"
	"chabeau/internal/viewport"
)

// Poll intervals for the spinner/auto-follow tick: shorter while a stream
// is actively animating, longer at idle.
const (
	streamPollInterval = 30 * time.Millisecond
	idlePollInterval   = 250 * time.Millisecond
)

// Deps bundles the external collaborators the model is constructed with.
type Deps struct {
	// Ctx governs the lifetime of dispatched streams; cancelled on
	// SIGINT/SIGTERM by the caller (cmd/chabeau wires this to
	// internal/signal.NotifyContext). Defaults to context.Background().
	Ctx         context.Context
	Client      *streamclient.Client
	Registry    *provider.Registry
	Resolver    character.Resolver // may be nil: persona/character features degrade to no-ops
	Config      *config.Config
	Log         *logging.Log // may be nil when --log was not passed
	ProviderID  string
	ModelID     string
	CharacterID string
	PersonaID   string
	PresetID    string
	EnvOnly     bool // --env: resolve credentials from environment variables only
}

// Model is the program's single bubbletea model.
type Model struct {
	ctx context.Context

	width, height int

	keys KeyMap

	input    *input.Buffer
	cache    *layout.PrewrapCache
	vp       *viewport.Viewport
	mode     *modes.State
	layoutOp layout.Options

	conv   *conversation.Controller
	stream *streamclient.Stream

	registry *provider.Registry
	resolver character.Resolver
	cfg      *config.Config
	th       *theme.Theme
	stats    *render.SessionStats

	log *logging.Log

	providerID  string
	modelID     string
	characterID string
	personaID   string
	presetID    string
	envOnly     bool

	status     string
	statusKind render.StatusKind

	streaming bool
	spinFrame int

	quitting bool

	// pendingEditIndex is the transcript index of an Assistant message
	// being edited in place via EditSelect's "e": the next send in
	// Compose mode rewrites that message instead of dispatching a new
	// turn. -1 when no in-place edit is pending.
	pendingEditIndex int
}

// streamEventMsg carries one drained StreamMessage back into Update.
type streamEventMsg struct {
	msg streamclient.StreamMessage
	ok  bool
}

// pollTickMsg drives the spinner animation and auto-follow scroll.
type pollTickMsg struct{}

// New constructs a Model from its dependencies and resolves the initial
// session (provider/model/character/persona/preset, credentials, theme).
func New(deps Deps) *Model {
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:         ctx,
		input:       input.New(),
		cache:       layout.NewPrewrapCache(),
		vp:          viewport.New(20),
		mode:        modes.New(),
		keys:        DefaultKeyMap(),
		conv:        conversation.New(deps.Client, conversation.Session{}),
		registry:    deps.Registry,
		resolver:    deps.Resolver,
		cfg:         deps.Config,
		log:         deps.Log,
		providerID:  deps.ProviderID,
		modelID:     deps.ModelID,
		characterID: deps.CharacterID,
		personaID:   deps.PersonaID,
		presetID:    deps.PresetID,
		envOnly:     deps.EnvOnly,
		pendingEditIndex: -1,
		stats:       render.NewSessionStats(),
	}
	if m.log != nil {
		m.conv.SetLogRewriter(m.log)
	}
	m.th = theme.FromPreset(deps.Config.Theme)
	m.layoutOp = layout.Options{Highlight: true, CodeTheme: m.th.Name}
	m.applySession()
	return m
}

// applySession resolves credentials and the composed system prompt for the
// current providerID/modelID/characterID/personaID/presetID and pushes the
// result into the conversation controller. Called on startup and whenever
// a Picker selection or slash command changes provider, model, character,
// persona, or preset: switching provider/model cancels any in-flight stream without
// auto-resending.
func (m *Model) applySession() {
	desc, ok := m.registry.Get(m.providerID)
	if !ok {
		m.setStatus(fmt.Sprintf("unknown provider %q", m.providerID), render.StatusError)
		return
	}
	override := auth.Override{EnvOnly: m.envOnly}
	if pc, ok := m.cfg.Providers[m.providerID]; ok {
		override.APIKey = pc.APIKey
		override.BaseURL = pc.BaseURL
		if m.modelID == "" {
			m.modelID = pc.Model
		}
	}
	if m.modelID == "" && len(desc.Models) > 0 {
		m.modelID = desc.Models[0]
	}
	resolved, err := auth.Resolve(desc.ID, desc.DisplayName, desc.BaseURL, override)
	if err != nil {
		m.setStatus(err.Error(), render.StatusError)
		return
	}

	systemPrompt := m.composeSystemPrompt()
	m.conv.SetSession(conversation.Session{
		Provider:     desc.ID,
		Model:        m.modelID,
		BaseURL:      strings.TrimRight(resolved.BaseURL, "/") + "/chat/completions",
		APIKey:       resolved.APIKey,
		Headers:      desc.Headers,
		SystemPrompt: systemPrompt,
	})
	m.streaming = false
	m.stream = nil
}

func (m *Model) composeSystemPrompt() string {
	if m.resolver == nil {
		return ""
	}
	var card *character.Card
	if m.characterID != "" {
		if c, ok := m.resolver.ResolveCharacter(m.characterID); ok {
			card = &c
		}
	}
	var persona *character.Persona
	if m.personaID != "" {
		if p, ok := m.resolver.ResolvePersona(m.personaID); ok {
			persona = &p
		}
	}
	var preset *character.Preset
	if m.presetID != "" {
		if p, ok := m.resolver.ResolvePreset(m.presetID); ok {
			preset = &p
		}
	}
	return character.ComposeSystemPrompt("", card, persona, preset)
}

func (m *Model) setStatus(text string, kind render.StatusKind) {
	m.status = text
	m.statusKind = kind
}

// Init starts the poll-tick loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	interval := idlePollInterval
	if m.streaming {
		interval = streamPollInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

// listenForStreamEvents drains one event off the active stream and wraps
// it as a tea.Msg, re-armed after each Update dispatch.
func listenForStreamEvents(stream *streamclient.Stream) tea.Cmd {
	return func() tea.Msg {
		msg, ok := stream.Recv()
		return streamEventMsg{msg: msg, ok: ok}
	}
}

// Update dispatches incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.SetHeight(max(msg.Height-4, 1))
		m.rebuildCache()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		if m.streaming {
			m.spinFrame = (m.spinFrame + 1) % 8
		}
		return m, m.tick()

	case streamEventMsg:
		return m.handleStreamEvent(msg)
	}
	return m, nil
}

func (m *Model) rebuildCache() {
	m.cache.GetOrBuild(max(m.width-2, 1), m.conv.Transcript().Messages(), m.layoutOp)
}

func (m *Model) spliceCache() {
	m.cache.SpliceLast(max(m.width-2, 1), m.conv.Transcript().Messages(), m.layoutOp)
}

// handleStreamEvent reconciles one StreamMessage with the transcript and
// either re-arms the listener or ends streaming state.
func (m *Model) handleStreamEvent(ev streamEventMsg) (tea.Model, tea.Cmd) {
	if !ev.ok {
		m.streaming = false
		return m, nil
	}
	linesBefore := len(m.cache.Lines())

	m.conv.HandleStreamMessage(ev.msg)
	m.spliceCache()

	m.vp.OnContentGrew(len(m.cache.Lines()) - linesBefore)

	switch ev.msg.Kind {
	case streamclient.KindEnd:
		m.streaming = false
		if err := m.conv.LastLogError(); err != nil {
			m.setStatus("log write failed: "+err.Error(), render.StatusWarning)
		}
		return m, nil
	}
	return m, listenForStreamEvents(m.stream)
}

// handleKey routes a key event to the active mode's handler.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.conv.Cancel()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode.Kind {
	case modes.EditSelect:
		return m.handleEditSelectKey(msg)
	case modes.BlockSelect:
		return m.handleBlockSelectKey(msg)
	case modes.Picker:
		return m.handlePickerKey(msg)
	case modes.FilePrompt:
		return m.handleFilePromptKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

// handleComposeKey handles Normal and Compose mode, which share the same
// editor but swap what Enter and Alt+Enter/Ctrl+J do: in Normal mode Enter
// sends and Alt+Enter/Ctrl+J insert a newline; in Compose mode Enter inserts
// a newline and Alt+Enter/Ctrl+J send.
func (m *Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.streaming {
			m.conv.Cancel()
			return m, nil
		}
		m.mode.ToNormal()
		return m, nil

	case key.Matches(msg, m.keys.ComposeToggle):
		m.mode.EnterCompose()
		return m, nil

	case key.Matches(msg, m.keys.EditSelectUser):
		if m.mode.EnterEditSelect(modes.TargetUser, m.conv.Transcript().Messages()) {
			m.syncEditHighlight()
		} else {
			m.setStatus("no user messages to edit", render.StatusWarning)
		}
		return m, nil

	case key.Matches(msg, m.keys.EditSelectAssistant):
		if m.mode.EnterEditSelect(modes.TargetAssistant, m.conv.Transcript().Messages()) {
			m.syncEditHighlight()
		} else {
			m.setStatus("no assistant messages to edit", render.StatusWarning)
		}
		return m, nil

	case key.Matches(msg, m.keys.ProviderPicker):
		m.OpenProviderPicker()
		return m, nil

	case key.Matches(msg, m.keys.ModelPicker):
		m.OpenModelPicker()
		return m, nil

	case key.Matches(msg, m.keys.ThemePicker):
		custom, _ := theme.LoadCustomThemes(m.cfg.CustomThemesDir)
		m.OpenThemePicker(custom)
		return m, nil

	case key.Matches(msg, m.keys.BlockSelectEnter):
		if m.mode.EnterBlockSelect(m.cache.TotalCodeBlocks()) {
			m.syncBlockScroll()
		} else {
			m.setStatus("no code blocks", render.StatusWarning)
		}
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.ClearStatus):
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.vp.Page(1, len(m.cache.Lines()))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.vp.Page(-1, len(m.cache.Lines()))
		return m, nil

	case msg.Paste:
		m.input.InsertText(sanitizePaste(string(msg.Runes)))
		return m, nil

	case msg.Type == tea.KeyEnter && !msg.Alt && m.mode.Kind == modes.Compose:
		m.input.InsertNewline()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		if strings.HasPrefix(strings.TrimSpace(m.input.Text()), "/") {
			return m.ExecuteSlashCommand(m.input.Text())
		}
		return m.send()

	case key.Matches(msg, m.keys.Tab):
		if text := m.input.Text(); strings.HasPrefix(text, "/") {
			if matches := FilterCommands(text[1:]); len(matches) > 0 {
				m.input.SetText("/" + matches[0].Name + " ")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewlineAlt):
		if m.mode.Kind == modes.Compose {
			if strings.HasPrefix(strings.TrimSpace(m.input.Text()), "/") {
				return m.ExecuteSlashCommand(m.input.Text())
			}
			return m.send()
		}
		m.input.InsertNewline()
		return m, nil

	case msg.Type == tea.KeyBackspace:
		m.input.Backspace()
		return m, nil
	case key.Matches(msg, m.keys.ClearLine):
		m.input.ClearLine()
		return m, nil
	case key.Matches(msg, m.keys.DeleteWord):
		m.input.DeleteWordBefore()
		return m, nil
	case msg.Type == tea.KeyLeft:
		m.input.MoveLeft()
		return m, nil
	case msg.Type == tea.KeyRight:
		m.input.MoveRight()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.input.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.input.MoveDown()
		return m, nil
	case msg.Type == tea.KeyHome:
		m.input.MoveHome()
		return m, nil
	case msg.Type == tea.KeyEnd:
		m.input.MoveEnd()
		return m, nil
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.input.InsertRune(r)
		}
		return m, nil
	}
	return m, nil
}

// sanitizePaste cleans bracketed-paste input before it reaches the input
// buffer: tabs become spaces, control characters other than newline are
// stripped, and the caller (InsertText) leaves the cursor at the end of
// the inserted text.
func sanitizePaste(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString("  ")
		case r == '\n':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			// drop other control characters
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Text())
	if text == "" || m.streaming {
		return m, nil
	}
	if m.pendingEditIndex >= 0 {
		idx := m.pendingEditIndex
		m.pendingEditIndex = -1
		m.input.Clear()
		m.mode.ToNormal()
		if !m.conv.EditAssistantInPlace(idx, text) {
			m.setStatus("could not apply edit", render.StatusError)
		}
		m.spliceCache()
		m.rebuildCache()
		return m, nil
	}
	m.input.Clear()
	stream, err := m.conv.SendUser(m.ctx, text)
	m.spliceCache()
	m.vp.End()
	if err != nil {
		m.setStatus(err.Error(), render.StatusError)
		return m, nil
	}
	m.stream = stream
	m.streaming = true
	return m, listenForStreamEvents(stream)
}

func (m *Model) retry() (tea.Model, tea.Cmd) {
	if m.streaming {
		return m, nil
	}
	stream, err := m.conv.RetryLast()
	m.spliceCache()
	m.vp.End()
	if err != nil {
		m.setStatus(err.Error(), render.StatusError)
		return m, nil
	}
	m.stream = stream
	m.streaming = true
	return m, listenForStreamEvents(stream)
}

func (m *Model) handleEditSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode.ToNormal()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.mode.CycleEditSelect(m.conv.Transcript().Messages(), -1)
		m.syncEditHighlight()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.mode.CycleEditSelect(m.conv.Transcript().Messages(), 1)
		m.syncEditHighlight()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		idx := m.mode.EditSelect.Index
		if m.mode.EditSelect.Target == modes.TargetUser {
			if content, ok := m.conv.TruncateAndExtractUser(idx); ok {
				m.input.SetText(content)
				m.spliceCache()
				m.mode.ToNormal()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.InPlaceEdit):
		if m.mode.EditSelect.Target == modes.TargetAssistant {
			idx := m.mode.EditSelect.Index
			if msgv, ok := m.conv.Transcript().At(idx); ok {
				m.input.SetText(msgv.Content)
				m.pendingEditIndex = idx
				m.mode.EnterCompose()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.conv.TruncateAt(m.mode.EditSelect.Index)
		m.spliceCache()
		m.rebuildCache()
		m.mode.ToNormal()
		return m, nil
	}
	return m, nil
}

func (m *Model) syncEditHighlight() {
	offsets := m.cache.PerMessageOffsets()
	idx := m.mode.EditSelect.Index
	if idx < 0 || idx >= len(offsets) {
		return
	}
	m.vp.ScrollMessageIntoView(len(m.cache.Lines()), offsets, idx)
}

func (m *Model) handleBlockSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := m.cache.TotalCodeBlocks()
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode.ToNormal()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.mode.CycleBlockSelect(total, -1)
		m.syncBlockScroll()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.mode.CycleBlockSelect(total, 1)
		m.syncBlockScroll()
		return m, nil
	case key.Matches(msg, m.keys.CopyBlock):
		text, _, ok := m.cache.CodeBlockText(m.mode.BlockSelect.BlockIndex)
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			m.setStatus("clipboard: "+err.Error(), render.StatusError)
		} else {
			m.setStatus("copied code block", render.StatusInfo)
		}
		return m, nil
	case key.Matches(msg, m.keys.SaveBlock):
		text, lang, ok := m.cache.CodeBlockText(m.mode.BlockSelect.BlockIndex)
		if !ok {
			return m, nil
		}
		name := logging.DefaultBlockName(m.now(), extForLang(lang))
		_, statErr := os.Stat(name)
		m.mode.EnterFilePrompt("block", name, []byte(text), statErr == nil)
		return m, nil
	}
	return m, nil
}

func (m *Model) syncBlockScroll() {
	if line, ok := m.cache.LineOfCodeBlock(m.mode.BlockSelect.BlockIndex); ok {
		m.vp.ScrollLineIntoView(len(m.cache.Lines()), line)
	}
}

// now is a seam for the current time, kept to a single call site so the
// rest of the package stays deterministic for testing.
func (m *Model) now() time.Time { return time.Now() }

func extForLang(lang string) string {
	if lang == "" {
		return "txt"
	}
	return lang
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.mode.Picker
	if p == nil {
		m.mode.ToNormal()
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode.ToNormal()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		p.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		p.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.SortToggle):
		p.ToggleSort()
		return m, nil
	case key.Matches(msg, m.keys.Inspect):
		p.Inspect()
		return m, nil
	case key.Matches(msg, m.keys.ApplyPersist):
		if err := p.ApplyPersist(); err != nil {
			m.setStatus(err.Error(), render.StatusError)
		}
		m.mode.ToNormal()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		if err := p.ApplySession(); err != nil {
			m.setStatus(err.Error(), render.StatusError)
		}
		m.mode.ToNormal()
		return m, nil
	case msg.Type == tea.KeyBackspace:
		q := p.Query()
		if len(q) > 0 {
			p.SetQuery(q[:len(q)-1])
		}
		return m, nil
	case msg.Type == tea.KeyRunes:
		p.SetQuery(p.Query() + string(msg.Runes))
		return m, nil
	}
	return m, nil
}

// OpenProviderPicker enters Picker mode listing every known provider,
// applying a selection by switching the session.
func (m *Model) OpenProviderPicker() {
	items := make([]picker.Item, 0)
	for _, d := range m.registry.All() {
		items = append(items, picker.Item{ID: d.ID, Display: d.DisplayName, Metadata: d})
	}
	p := picker.New(items, m.providerID)
	p.ApplySessionFunc = func(it picker.Item) error {
		m.providerID = it.ID
		m.modelID = ""
		m.conv.Cancel()
		m.applySession()
		return nil
	}
	p.ApplyPersistFunc = func(it picker.Item) error {
		m.providerID = it.ID
		m.modelID = ""
		m.conv.Cancel()
		m.applySession()
		return config.SetProvider(it.ID, m.cfg.Providers[it.ID])
	}
	p.InspectFunc = func(it picker.Item) {
		d := it.Metadata.(provider.Descriptor)
		m.setStatus(fmt.Sprintf("%s: %s (%d models)", d.DisplayName, d.BaseURL, len(d.Models)), render.StatusInfo)
	}
	m.mode.EnterPicker(p)
}

// OpenModelPicker enters Picker mode listing the active provider's known
// models.
func (m *Model) OpenModelPicker() {
	desc, ok := m.registry.Get(m.providerID)
	if !ok {
		return
	}
	items := make([]picker.Item, 0, len(desc.Models))
	for _, name := range desc.Models {
		items = append(items, picker.Item{ID: name, Display: name})
	}
	p := picker.New(items, m.modelID)
	p.ApplySessionFunc = func(it picker.Item) error {
		m.modelID = it.ID
		m.conv.Cancel()
		m.applySession()
		return nil
	}
	p.ApplyPersistFunc = func(it picker.Item) error {
		m.modelID = it.ID
		m.conv.Cancel()
		m.applySession()
		pc := m.cfg.Providers[m.providerID]
		pc.Model = it.ID
		m.cfg.Providers[m.providerID] = pc
		return config.SetProvider(m.providerID, pc)
	}
	m.mode.EnterPicker(p)
}

// OpenThemePicker enters Picker mode listing built-in and custom themes.
func (m *Model) OpenThemePicker(custom map[string]theme.Config) {
	items := make([]picker.Item, 0)
	for _, name := range theme.Names(custom) {
		items = append(items, picker.Item{ID: name, Display: name})
	}
	p := picker.New(items, m.th.Name)
	p.ApplySessionFunc = func(it picker.Item) error {
		t, err := theme.Resolve(it.ID, custom)
		if err != nil {
			return err
		}
		m.th = t
		m.layoutOp.CodeTheme = t.Name
		m.rebuildCache()
		return nil
	}
	p.ApplyPersistFunc = func(it picker.Item) error {
		if err := p.ApplySessionFunc(it); err != nil {
			return err
		}
		return config.SetTheme(it.ID)
	}
	m.mode.EnterPicker(p)
}

func (m *Model) handleFilePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fp := m.mode.FilePrompt
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode.ToNormal()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		if fp.Exists {
			name, ok := m.promptRename(fp.Name)
			if !ok {
				m.mode.ToNormal()
				return m, nil
			}
			m.mode.RenameFilePrompt(name, fileExists)
			return m, nil
		}
		if err := os.WriteFile(fp.Name, fp.Payload, 0o644); err != nil {
			m.setStatus(err.Error(), render.StatusError)
		} else {
			m.setStatus("saved "+fp.Name, render.StatusInfo)
		}
		m.mode.ToNormal()
		return m, nil
	}
	return m, nil
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// promptRename opens a huh text input for a new filename, used when
// FilePrompt discovers the default name already exists: prompt
// overwrite/rename rather than silently clobbering the file.
func (m *Model) promptRename(defaultName string) (string, bool) {
	name := defaultName
	field := huh.NewInput().
		Title("File exists. Enter a new name (blank to overwrite):").
		Value(&name)
	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", false
	}
	if strings.TrimSpace(name) == "" {
		return defaultName, true
	}
	return name, true
}

// View renders the current frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	start, end := m.vp.VisibleRange(len(m.cache.Lines()))
	f := render.Frame{
		Width:  m.width,
		Height: m.height,
		Lines:  m.cache.Lines()[start:end],

		Provider:  m.providerID,
		Model:     m.modelID,
		Character: m.characterID,
		Preset:    m.presetID,
		Streaming: m.streaming,
		SpinFrame: m.spinFrame,
		Stats:     m.stats,

		InputLines:      m.input.Lines(),
		InputCursorLine: m.input.Cursor().Line,
		InputCursorCol:  m.input.Cursor().Col,
		ComposeMode:     m.mode.Kind == modes.Compose,

		Status:     m.status,
		StatusKind: m.statusKind,

		PickerOpen: m.mode.Kind == modes.Picker,
		Picker:     m.mode.Picker,

		Theme: m.th,
	}
	if start < len(m.cache.SpanMeta()) {
		f.SpanMeta = m.cache.SpanMeta()[start:end]
	}
	if m.mode.Kind == modes.BlockSelect {
		idx := m.mode.BlockSelect.BlockIndex
		f.HighlightBlock = &idx
	}
	if m.mode.Kind == modes.EditSelect {
		offsets := m.cache.PerMessageOffsets()
		idx := m.mode.EditSelect.Index
		if idx >= 0 && idx < len(offsets) {
			lineStart := offsets[idx]
			lineEnd := len(m.cache.Lines()) - 1
			if idx+1 < len(offsets) {
				lineEnd = offsets[idx+1] - 1
			}
			f.HighlightLines = &[2]int{lineStart - start, lineEnd - start}
		}
	}
	return render.Compose(f)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
