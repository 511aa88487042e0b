package streamclient

import (
	"context"

	"github.com/google/uuid"
)

// Stream is the consumer-facing handle for one in-flight request. Chunks
// arrive in order; after cancellation no further chunk is observable.
type Stream struct {
	id     string
	events chan StreamMessage
	cancel context.CancelFunc
}

// ID returns the stream's unique identifier, used by the conversation
// controller to drop output from superseded streams.
func (s *Stream) ID() string { return s.id }

// Recv returns the next StreamMessage, or ok=false once the stream is
// fully drained (after a KindEnd message has been delivered).
func (s *Stream) Recv() (StreamMessage, bool) {
	msg, ok := <-s.events
	return msg, ok
}

// Close cancels the stream. Safe to call multiple times and after the
// stream has already ended.
func (s *Stream) Close() {
	s.cancel()
}

// fn is the body of a background stream task: it reads the HTTP response
// and sends zero or more StreamMessages, returning an error to be reported
// as End{Error} (or nil for End{Complete}). newEventStream runs fn in a
// goroutine, forwarding its StreamMessages onto a buffered channel and
// appending a terminal KindEnd once fn returns or runCtx is cancelled.
//
// runCtx and cancel must be the same cancelable context (and its
// CancelFunc) that the caller built the in-flight HTTP request with, so
// that Stream.Close reaches all the way down to the response body read
// instead of only stopping fn on its next loop iteration.
func newEventStream(runCtx context.Context, cancel context.CancelFunc, fn func(context.Context, chan<- StreamMessage) error) *Stream {
	s := &Stream{
		id:     uuid.NewString(),
		events: make(chan StreamMessage, 16),
		cancel: cancel,
	}

	s.events <- StreamMessage{Kind: KindStarted, ID: s.id}

	go func() {
		defer close(s.events)

		// fn's output passes through raw so every message is stamped with
		// the stream id before the consumer sees it.
		raw := make(chan StreamMessage)
		var err error
		go func() {
			defer close(raw)
			err = fn(runCtx, raw)
		}()
		for msg := range raw {
			msg.ID = s.id
			s.events <- msg
		}

		switch {
		case runCtx.Err() != nil:
			s.events <- StreamMessage{Kind: KindEnd, ID: s.id, EndReason: EndCancelled}
		case err != nil:
			s.events <- StreamMessage{Kind: KindEnd, ID: s.id, EndReason: EndError, Err: err}
		default:
			s.events <- StreamMessage{Kind: KindEnd, ID: s.id, EndReason: EndComplete}
		}
	}()

	return s
}
