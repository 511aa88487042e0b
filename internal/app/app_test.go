package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chabeau/internal/config"
	"chabeau/internal/modes"
	"chabeau/internal/provider"
	"chabeau/internal/render"
	"chabeau/internal/streamclient"
	"chabeau/internal/transcript"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return New(Deps{
		Client:     streamclient.New(time.Second, time.Second),
		Registry:   provider.NewRegistry(),
		Config:     &config.Config{Providers: map[string]config.ProviderConfig{}, Theme: "mocha"},
		ProviderID: "openai",
		ModelID:    "gpt-5.2",
	})
}

func TestSanitizePasteConvertsTabsAndStripsControlChars(t *testing.T) {
	got := sanitizePaste("a\tb\x01c\nd")
	want := "a  bc\nd"
	if got != want {
		t.Fatalf("sanitizePaste() = %q, want %q", got, want)
	}
}

func TestApplySessionSetsErrorStatusForUnknownProvider(t *testing.T) {
	m := newTestModel(t)
	m.providerID = "does-not-exist"
	m.applySession()
	if m.status == "" {
		t.Fatalf("want a status message for an unknown provider")
	}
}

func TestHandleKeyQuitCancelsAndQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting {
		t.Fatalf("want quitting=true after Ctrl+C")
	}
	if cmd == nil {
		t.Fatalf("want a tea.Quit command")
	}
}

func TestPasteInsertsSanitizedTextIntoBuffer(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Paste: true, Runes: []rune("a\tb")})
	if got := m.input.Text(); got != "a  b" {
		t.Fatalf("want sanitized paste in buffer, got %q", got)
	}
}

func TestComposeToggleEntersAndExitsComposeMode(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyF4})
	if m.mode.Kind != modes.Compose {
		t.Fatalf("want Compose mode after F4, got %v", m.mode.Kind)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF4})
	if m.mode.Kind != modes.Normal {
		t.Fatalf("want Normal mode after second F4, got %v", m.mode.Kind)
	}
}

func TestInPlaceEditOnAssistantMessageRewritesWithoutNewTurn(t *testing.T) {
	m := newTestModel(t)
	m.conv.Transcript().AppendUser("hi")
	m.conv.Transcript().Append(transcript.Message{Role: transcript.RoleAssistant, Content: "original"})
	m.width = 80

	if !m.mode.EnterEditSelect(modes.TargetAssistant, m.conv.Transcript().Messages()) {
		t.Fatalf("want EnterEditSelect to find the assistant message")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.mode.Kind != modes.Compose {
		t.Fatalf("want Compose mode after in-place edit, got %v", m.mode.Kind)
	}
	if m.pendingEditIndex != 1 {
		t.Fatalf("want pendingEditIndex 1, got %d", m.pendingEditIndex)
	}
	if got := m.input.Text(); got != "original" {
		t.Fatalf("want buffer preloaded with original content, got %q", got)
	}

	m.input.Clear()
	m.input.InsertText("rewritten")
	m.Update(tea.KeyMsg{Type: tea.KeyF4}) // back to Normal mode, where Enter sends
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.pendingEditIndex != -1 {
		t.Fatalf("want pendingEditIndex reset after send")
	}
	if m.mode.Kind != modes.Normal {
		t.Fatalf("want Normal mode after in-place edit send, got %v", m.mode.Kind)
	}
	msgs := m.conv.Transcript().Messages()
	if msgs[1].Content != "rewritten" {
		t.Fatalf("want assistant message rewritten, got %q", msgs[1].Content)
	}
	if m.streaming {
		t.Fatalf("in-place edit must not start a new stream")
	}
}

func TestSlashClearEmptiesTranscriptWithoutStartingAStream(t *testing.T) {
	m := newTestModel(t)
	m.conv.Transcript().AppendUser("hi")
	m.conv.Transcript().Append(transcript.Message{Role: transcript.RoleAssistant, Content: "hello"})
	m.width = 80

	m.input.InsertText("/clear")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := len(m.conv.Transcript().Messages()); got != 0 {
		t.Fatalf("want empty transcript after /clear, got %d messages", got)
	}
	if m.input.Text() != "" {
		t.Fatalf("want input cleared after /clear")
	}
	if m.streaming {
		t.Fatalf("/clear must not start a stream")
	}
}

func TestSlashCommandUnknownNameSetsWarningStatus(t *testing.T) {
	m := newTestModel(t)
	m.input.InsertText("/bogus")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.status == "" {
		t.Fatalf("want a status message for an unknown command")
	}
	if m.statusKind != render.StatusWarning {
		t.Fatalf("want StatusWarning for an unknown command, got %v", m.statusKind)
	}
}

func TestSlashCopyWithNoAssistantReplySetsWarning(t *testing.T) {
	m := newTestModel(t)
	m.input.InsertText("/copy")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.status == "" {
		t.Fatalf("want a status message when there's no reply to copy")
	}
}

func TestFilterCommandsFindsHelpForPrefix(t *testing.T) {
	matches := FilterCommands("he")
	if len(matches) == 0 {
		t.Fatalf("want at least one match for \"he\"")
	}
	found := false
	for _, c := range matches {
		if c.Name == "help" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want \"help\" among matches for \"he\", got %+v", matches)
	}
}
