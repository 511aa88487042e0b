// Package streamclient dispatches OpenAI-compatible chat completion
// requests and frames their streamed SSE response into StreamMessages,
// with cooperative cancellation.
package streamclient

// Kind discriminates a StreamMessage.
type Kind int

const (
	KindStarted Kind = iota
	KindChunk
	KindAppMessage
	KindEnd
)

// AppKind discriminates the severity of a KindAppMessage.
type AppKind int

const (
	AppWarning AppKind = iota
	AppError
)

// EndReason discriminates why a stream ended.
type EndReason int

const (
	EndComplete EndReason = iota
	EndCancelled
	EndError
)

// StreamMessage is the channel message flowing from the background stream
// task to the UI: Started{id} | Chunk{text} | AppMessage{kind, content} |
// End{reason}.
type StreamMessage struct {
	Kind Kind
	ID   string

	// Text is set for KindChunk.
	Text string

	// AppKind and Content are set for KindAppMessage.
	AppKind AppKind
	Content string

	// EndReason and Err are set for KindEnd.
	EndReason EndReason
	Err       error
}
