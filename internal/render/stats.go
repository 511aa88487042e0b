package render

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// SessionStats tracks the wall-clock span of one chat session for title-bar
// display. Token/tool/LLM-call accounting doesn't apply here: this client
// has no tool-calling, and providers aren't required to report usage on
// every chunk.
type SessionStats struct {
	StartTime time.Time
}

// NewSessionStats returns stats with StartTime set to now.
func NewSessionStats() *SessionStats {
	return &SessionStats{StartTime: time.Now()}
}

// Elapsed renders how long the session has been running as a relative,
// human-readable string (e.g. "3 minutes").
func (s *SessionStats) Elapsed() string {
	if s == nil || s.StartTime.IsZero() {
		return ""
	}
	return strings.TrimSpace(humanize.RelTime(s.StartTime, time.Now(), "", ""))
}
