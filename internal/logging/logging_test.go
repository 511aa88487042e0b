package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chabeau/internal/transcript"
)

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("time.Parse: %v", err)
	}
	return tm
}

func TestFormatTranscriptPrefixesAndBlankLines(t *testing.T) {
	messages := []transcript.Message{
		{Role: transcript.RoleUser, Content: "hello"},
		{Role: transcript.RoleAssistant, Content: "hi there"},
	}
	got := FormatTranscript(messages)
	want := "User: hello\n\nAssistant: hi there\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestNewLogWritesStartedMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.txt")

	if _, err := NewLog(path); err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "## Logging started at ") {
		t.Fatalf("want started marker prefix, got %q", string(data))
	}
}

func TestRewriteLogPreservesMarkersAndReplacesBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.txt")

	l, err := NewLog(path)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}

	if err := l.RewriteLog([]transcript.Message{
		{Role: transcript.RoleUser, Content: "U1"},
		{Role: transcript.RoleAssistant, Content: "A1"},
	}); err != nil {
		t.Fatalf("RewriteLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "## Logging started at ") {
		t.Fatalf("want marker preserved, got %q", got)
	}
	if !strings.HasSuffix(got, "User: U1\n\nAssistant: A1\n") {
		t.Fatalf("want rewritten body, got %q", got)
	}

	// Scenario D: a second rewrite with a truncated transcript must fully
	// replace the body, not append to it.
	if err := l.RewriteLog([]transcript.Message{
		{Role: transcript.RoleUser, Content: "U1"},
	}); err != nil {
		t.Fatalf("second RewriteLog: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got = string(data)
	if strings.Contains(got, "A1") {
		t.Fatalf("want truncated message dropped, got %q", got)
	}
	if !strings.HasSuffix(got, "User: U1\n") {
		t.Fatalf("want single-message body, got %q", got)
	}
}

func TestPauseResumeAppendMarkersWithoutTouchingBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.txt")

	l, err := NewLog(path)
	if err != nil {
		t.Fatalf("NewLog: %v", err)
	}
	if err := l.RewriteLog([]transcript.Message{{Role: transcript.RoleUser, Content: "U1"}}); err != nil {
		t.Fatalf("RewriteLog: %v", err)
	}
	if err := l.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := l.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "## Logging paused at ") {
		t.Fatalf("want paused marker, got %q", got)
	}
	if !strings.Contains(got, "## Logging resumed at ") {
		t.Fatalf("want resumed marker, got %q", got)
	}
	if !strings.Contains(got, "User: U1") {
		t.Fatalf("want body preserved across pause/resume, got %q", got)
	}
}

func TestDumpExcludesAppMessagesWhenRequested(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.txt")
	messages := []transcript.Message{
		{Role: transcript.RoleAppInfo, Content: "connected"},
		{Role: transcript.RoleUser, Content: "hello"},
	}

	if err := Dump(path, messages, false); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "connected") {
		t.Fatalf("want app message excluded, got %q", string(data))
	}
	if !strings.Contains(string(data), "User: hello") {
		t.Fatalf("want user message present, got %q", string(data))
	}
}

func TestDumpIncludesAppMessagesByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.txt")
	messages := []transcript.Message{
		{Role: transcript.RoleAppInfo, Content: "connected"},
	}

	if err := Dump(path, messages, true); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[info] connected") {
		t.Fatalf("want app message included, got %q", string(data))
	}
}

func TestDefaultNamesFormatted(t *testing.T) {
	tm := mustParseTime(t, "2026-07-30T12:00:00Z")
	if got, want := DefaultDumpName(tm), "chabeau-log-2026-07-30.txt"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got, want := DefaultBlockName(tm, "go"), "chabeau-block-2026-07-30.go"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got, want := DefaultBlockName(tm, ""), "chabeau-block-2026-07-30.txt"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
