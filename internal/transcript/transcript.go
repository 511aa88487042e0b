// Package transcript holds the ordered message history of a chat session
// and the invariants that must hold across streaming and edits.
package transcript

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the sender of a Message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleSystem
	RoleAppInfo
	RoleAppWarning
	RoleAppError
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleSystem:
		return "system"
	case RoleAppInfo:
		return "info"
	case RoleAppWarning:
		return "warning"
	case RoleAppError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single entry in the Transcript.
type Message struct {
	ID         string
	Role       Role
	Content    string
	InProgress bool
}

// Transcript is the ordered sequence of Messages for one session.
//
// Invariants:
//   - at most one InProgress message, and if present it is the last message
//     and is Assistant
//   - edit/truncate operations preserve ordering; truncation drops a
//     contiguous suffix
type Transcript struct {
	messages []Message
	revision uint64

	// streamNewlineRun tracks the current run of consecutive newlines
	// across PushStreamChunk calls for the in-progress tail message, so a
	// model that emits a blank line split across two chunks still gets
	// capped.
	streamNewlineRun int
}

// maxStreamingConsecutiveNewlines caps runaway vertical whitespace in a
// streamed response; models occasionally emit long blank-line runs that
// would otherwise blow up the rendered height of a single message.
const maxStreamingConsecutiveNewlines = 2

// New returns an empty Transcript.
func New() *Transcript {
	return &Transcript{}
}

// Revision returns the current TranscriptRevision. Every mutation bumps it
// by exactly one; caches key off this value to detect staleness.
func (t *Transcript) Revision() uint64 {
	return t.revision
}

func (t *Transcript) bump() {
	t.revision++
}

// Messages returns the live message slice. Callers must not mutate it.
func (t *Transcript) Messages() []Message {
	return t.messages
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// At returns the message at index, or false if out of range.
func (t *Transcript) At(index int) (Message, bool) {
	if index < 0 || index >= len(t.messages) {
		return Message{}, false
	}
	return t.messages[index], true
}

func newID() string {
	return uuid.NewString()
}

// Append adds msg to the tail.
func (t *Transcript) Append(msg Message) {
	if msg.ID == "" {
		msg.ID = newID()
	}
	t.messages = append(t.messages, msg)
	t.bump()
}

// AppendUser appends a finalized User message with the given content.
func (t *Transcript) AppendUser(content string) {
	t.Append(Message{Role: RoleUser, Content: content})
}

// StartAssistantPlaceholder appends an empty, InProgress Assistant message
// that subsequent PushStreamChunk calls will grow.
func (t *Transcript) StartAssistantPlaceholder() {
	t.Append(Message{Role: RoleAssistant, InProgress: true})
	t.streamNewlineRun = 0
}

// PushStreamChunk appends text to the tail Assistant message, capping any
// run of consecutive newlines (including one split across chunks) at
// maxStreamingConsecutiveNewlines. It is always additive and never
// replaces existing content, so retries never flicker. No-op if the tail
// is not an in-progress Assistant message.
func (t *Transcript) PushStreamChunk(text string) {
	if len(t.messages) == 0 {
		return
	}
	tail := &t.messages[len(t.messages)-1]
	if tail.Role != RoleAssistant || !tail.InProgress {
		return
	}
	tail.Content += t.compactNewlines(text)
	t.bump()
}

func (t *Transcript) compactNewlines(chunk string) string {
	if chunk == "" {
		return chunk
	}
	var b strings.Builder
	b.Grow(len(chunk))
	for i := 0; i < len(chunk); i++ {
		ch := chunk[i]
		if ch == '\n' {
			t.streamNewlineRun++
			if t.streamNewlineRun <= maxStreamingConsecutiveNewlines {
				b.WriteByte(ch)
			}
			continue
		}
		t.streamNewlineRun = 0
		b.WriteByte(ch)
	}
	return b.String()
}

// FinalizeTail trims trailing whitespace from the tail Assistant message and
// clears its InProgress flag. If the trimmed content is empty (the stream
// was interrupted before any text arrived), the message is removed entirely.
func (t *Transcript) FinalizeTail() {
	if len(t.messages) == 0 {
		return
	}
	tail := &t.messages[len(t.messages)-1]
	if tail.Role != RoleAssistant || !tail.InProgress {
		return
	}
	tail.Content = strings.TrimRight(tail.Content, " \t\r\n")
	tail.InProgress = false
	if tail.Content == "" {
		t.messages = t.messages[:len(t.messages)-1]
	}
	t.bump()
}

// TruncateAfter drops the contiguous suffix starting at index, keeping
// messages [0, index). Out-of-range indexes are clamped.
func (t *Transcript) TruncateAfter(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(t.messages) {
		return
	}
	t.messages = t.messages[:index]
	t.bump()
}

// ReplaceUserAt replaces the content of the User message at index.
// No-op if index is out of range or the message is not a User message.
func (t *Transcript) ReplaceUserAt(index int, content string) bool {
	if index < 0 || index >= len(t.messages) {
		return false
	}
	if t.messages[index].Role != RoleUser {
		return false
	}
	t.messages[index].Content = content
	t.bump()
	return true
}

// EditAssistantAt replaces the content of the Assistant message at index
// in place, without touching InProgress state.
func (t *Transcript) EditAssistantAt(index int, content string) bool {
	if index < 0 || index >= len(t.messages) {
		return false
	}
	if t.messages[index].Role != RoleAssistant {
		return false
	}
	t.messages[index].Content = content
	t.bump()
	return true
}

// HasInProgress reports whether the tail message is an in-progress Assistant
// message, and its index if so.
func (t *Transcript) HasInProgress() (int, bool) {
	if len(t.messages) == 0 {
		return -1, false
	}
	last := len(t.messages) - 1
	if t.messages[last].Role == RoleAssistant && t.messages[last].InProgress {
		return last, true
	}
	return -1, false
}

// LastIndexOfRole returns the index of the most recent message with the
// given role, or -1 if none exists.
func (t *Transcript) LastIndexOfRole(role Role) int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == role {
			return i
		}
	}
	return -1
}

// Reset clears the transcript entirely, bumping the revision.
func (t *Transcript) Reset() {
	t.messages = nil
	t.bump()
}
