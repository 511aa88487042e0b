// Package logging implements the log & dump file writers: plain-UTF-8
// transcript serialization, atomic rewrite on edit/truncation, and
// one-shot dump snapshots. Satisfies the conversation.LogRewriter
// contract with a buffered-writer, atomic-rewrite-on-mutation discipline.
package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"chabeau/internal/transcript"
)

// FormatTranscript renders messages in the log/dump plain-text format:
// one paragraph per message, `Name:` or role-marker prefix, blank line
// between messages.
func FormatTranscript(messages []transcript.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(prefixFor(m.Role))
		b.WriteString(m.Content)
	}
	if len(messages) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func prefixFor(role transcript.Role) string {
	switch role {
	case transcript.RoleUser:
		return "User: "
	case transcript.RoleAssistant:
		return "Assistant: "
	case transcript.RoleSystem:
		return "System: "
	case transcript.RoleAppInfo:
		return "[info] "
	case transcript.RoleAppWarning:
		return "[warning] "
	case transcript.RoleAppError:
		return "[error] "
	default:
		return ""
	}
}

// Log is an active log file: one per session, rewritten atomically in
// full on every mutating transcript operation. Write failures are
// surfaced to the caller as a status message; the caller decides whether
// to mark logging inactive.
type Log struct {
	path string
	mu   sync.Mutex
}

// NewLog opens (creating if necessary) a log file at path and writes a
// "Logging started" marker.
func NewLog(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	l := &Log{path: path}
	if err := l.appendMarker("started"); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Log) appendMarker(verb string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "## Logging %s at %s\n\n", verb, timestamp())
	return w.Flush()
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Pause/Resume append a timestamped marker without touching the
// transcript body.
func (l *Log) Pause() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendMarker("paused")
}

func (l *Log) Resume() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendMarker("resumed")
}

// RewriteLog implements conversation.LogRewriter: it rewrites the entire
// log file body to match messages, atomically (temp file + fsync +
// rename in the same directory), preserving every start/pause/resume marker
// already on disk by writing them, in order, ahead of the fresh body.
//
// Chabeau rewrites the *body* rather than re-appending incrementally
// because edits and truncation can retroactively change or remove earlier
// messages — an append-only log could never reflect that without this
// full-rewrite step.
func (l *Log) RewriteLog(messages []transcript.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	markers, err := l.readMarkers()
	if err != nil {
		return err
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, "chabeau-log-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(markers); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log file: %w", err)
	}
	if _, err := tmp.WriteString(FormatTranscript(messages)); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsync temp log file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp log file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("rename temp log file into place: %w", err)
	}
	return nil
}

// readMarkers returns every "## Logging ..." marker line already on disk,
// in order and each followed by a blank line, so a rewrite preserves
// session-start/pause/resume history instead of discarding it. Markers
// appended after the body (pause/resume) are collected too.
func (l *Log) readMarkers() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read existing log file: %w", err)
	}
	var markers strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "## Logging ") {
			markers.WriteString(line)
			markers.WriteString("\n\n")
		}
	}
	return markers.String(), nil
}

// Dump writes a one-shot snapshot to path (default name
// chabeau-log-YYYY-MM-DD.txt). includeApp controls whether AppInfo/
// AppWarning/AppError messages are included; callers default to true.
func Dump(path string, messages []transcript.Message, includeApp bool) error {
	if !includeApp {
		filtered := make([]transcript.Message, 0, len(messages))
		for _, m := range messages {
			switch m.Role {
			case transcript.RoleAppInfo, transcript.RoleAppWarning, transcript.RoleAppError:
				continue
			}
			filtered = append(filtered, m)
		}
		messages = filtered
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}
	return os.WriteFile(path, []byte(FormatTranscript(messages)), 0o600)
}

// DefaultDumpName returns the default dump filename for the given time,
// e.g. "chabeau-log-2026-07-30.txt".
func DefaultDumpName(t time.Time) string {
	return fmt.Sprintf("chabeau-log-%s.txt", t.Format("2006-01-02"))
}

// DefaultBlockName returns the default filename for a saved code block,
// e.g. "chabeau-block-2026-07-30.go".
func DefaultBlockName(t time.Time, ext string) string {
	if ext == "" {
		ext = "txt"
	}
	return fmt.Sprintf("chabeau-block-%s.%s", t.Format("2006-01-02"), ext)
}
