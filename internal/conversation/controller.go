// Package conversation drives the transcript through a turn: sending a
// user message, dispatching a stream, reconciling incoming chunks with the
// tail message, retry, and edit/truncate.
package conversation

import (
	"context"

	"chabeau/internal/streamclient"
	"chabeau/internal/transcript"
)

// LogRewriter is the logging external collaborator's contract: rewrite the
// log file to match the current transcript, atomically.
type LogRewriter interface {
	RewriteLog(messages []transcript.Message) error
}

// Controller owns a Transcript and drives it through streaming turns.
type Controller struct {
	transcript *transcript.Transcript
	client     *streamclient.Client
	session    Session

	activeStream   *streamclient.Stream
	activeStreamID string

	logRewriter LogRewriter
	lastLogErr  error
}

// New returns a Controller over a fresh Transcript.
func New(client *streamclient.Client, session Session) *Controller {
	return &Controller{
		transcript: transcript.New(),
		client:     client,
		session:    session,
	}
}

// Transcript returns the underlying transcript.
func (c *Controller) Transcript() *transcript.Transcript { return c.transcript }

// SetSession replaces the active provider/model/prompt configuration.
// Switching provider/model cancels any in-flight stream without
// auto-resending.
func (c *Controller) SetSession(session Session) {
	c.Cancel()
	c.session = session
}

// Session returns the current provider/model configuration.
func (c *Controller) Session() Session { return c.session }

// SetLogRewriter installs the logging collaborator used to keep the log
// file consistent with edits/truncation.
func (c *Controller) SetLogRewriter(r LogRewriter) { c.logRewriter = r }

// LastLogError returns the error from the most recent log rewrite attempt,
// if any.
func (c *Controller) LastLogError() error { return c.lastLogErr }

// SendUser appends the user's message, starts an Assistant placeholder, and
// dispatches a stream for the new turn.
func (c *Controller) SendUser(ctx context.Context, text string) (*streamclient.Stream, error) {
	c.transcript.AppendUser(text)
	c.transcript.StartAssistantPlaceholder()
	return c.dispatchStream(ctx)
}

// RetryLast cancels any in-flight stream, drops the tail Assistant message
// (whether it finished or was cut short) and re-dispatches from the prior
// state.
func (c *Controller) RetryLast() (*streamclient.Stream, error) {
	c.Cancel()
	if idx, ok := c.tailAssistantIndex(); ok {
		c.transcript.TruncateAfter(idx)
	}
	c.transcript.StartAssistantPlaceholder()
	return c.dispatchStream(context.Background())
}

func (c *Controller) tailAssistantIndex() (int, bool) {
	n := c.transcript.Len()
	if n == 0 {
		return -1, false
	}
	if msg, ok := c.transcript.At(n - 1); ok && msg.Role == transcript.RoleAssistant {
		return n - 1, true
	}
	return -1, false
}

func (c *Controller) dispatchStream(ctx context.Context) (*streamclient.Stream, error) {
	req := streamclient.Request{
		BaseURL:  c.session.BaseURL,
		APIKey:   c.session.APIKey,
		Model:    c.session.Model,
		Headers:  c.session.Headers,
		Messages: c.buildRequestMessages(),
	}
	stream, err := c.client.Stream(ctx, req)
	if err != nil {
		// Dispatch failed synchronously: remove the empty placeholder and
		// surface a provider error message immediately, matching what an
		// End{Error} would have produced.
		c.transcript.FinalizeTail()
		c.appendProviderError(err)
		return nil, err
	}
	c.activeStream = stream
	c.activeStreamID = stream.ID()
	return stream, nil
}

// buildRequestMessages assembles the outgoing message list: the resolved
// system prompt (persona/character/preset composition happens upstream,
// in internal/app via character.ComposeSystemPrompt) followed by completed User/Assistant
// turns. The in-progress placeholder and AppInfo/AppWarning/AppError
// messages never leave the client.
func (c *Controller) buildRequestMessages() []streamclient.Message {
	var out []streamclient.Message
	if c.session.SystemPrompt != "" {
		out = append(out, streamclient.Message{Role: "system", Content: c.session.SystemPrompt})
	}
	for _, m := range c.transcript.Messages() {
		if m.InProgress {
			continue
		}
		switch m.Role {
		case transcript.RoleUser:
			out = append(out, streamclient.Message{Role: "user", Content: m.Content})
		case transcript.RoleAssistant:
			if m.Content == "" {
				continue
			}
			out = append(out, streamclient.Message{Role: "assistant", Content: m.Content})
		}
	}
	return out
}

// HandleStreamMessage reconciles one StreamMessage with the transcript.
// Output from a superseded stream (one that isn't the currently active
// stream) is dropped by matching the stream id.
func (c *Controller) HandleStreamMessage(msg streamclient.StreamMessage) {
	if msg.ID != "" && msg.ID != c.activeStreamID {
		return
	}
	switch msg.Kind {
	case streamclient.KindChunk:
		c.transcript.PushStreamChunk(msg.Text)
	case streamclient.KindAppMessage:
		role := transcript.RoleAppWarning
		if msg.AppKind == streamclient.AppError {
			role = transcript.RoleAppError
		}
		c.transcript.Append(transcript.Message{Role: role, Content: msg.Content})
	case streamclient.KindEnd:
		c.finalizeAfterEnd(msg)
	}
}

func (c *Controller) finalizeAfterEnd(msg streamclient.StreamMessage) {
	c.transcript.FinalizeTail()
	if msg.EndReason == streamclient.EndError {
		c.appendProviderError(msg.Err)
	}
	c.activeStream = nil
	c.activeStreamID = ""
	c.rewriteLog()
}

func (c *Controller) appendProviderError(err error) {
	if err == nil {
		return
	}
	if perr, ok := err.(*streamclient.ProviderError); ok {
		c.transcript.Append(transcript.Message{Role: transcript.RoleAppError, Content: perr.Markdown()})
		return
	}
	c.transcript.Append(transcript.Message{Role: transcript.RoleAppWarning, Content: err.Error()})
}

// Cancel cancels the in-flight stream, if any. Esc in streaming state,
// switching provider/model, and retry all route through this.
func (c *Controller) Cancel() {
	if c.activeStream != nil {
		c.activeStream.Close()
	}
}

// LastIndexOfRole returns the index of the most recent message with the
// given role, seeding EditSelect mode's initial cursor.
func (c *Controller) LastIndexOfRole(role transcript.Role) int {
	return c.transcript.LastIndexOfRole(role)
}

// IndicesOfRole returns every index with the given role, in order, for
// EditSelect navigation.
func (c *Controller) IndicesOfRole(role transcript.Role) []int {
	var out []int
	for i, m := range c.transcript.Messages() {
		if m.Role == role {
			out = append(out, i)
		}
	}
	return out
}

// TruncateAndExtractUser truncates the transcript to before index and
// returns the removed User message's content, to be loaded into the input
// buffer for resend (EditSelect Enter on a User message).
func (c *Controller) TruncateAndExtractUser(index int) (string, bool) {
	msg, ok := c.transcript.At(index)
	if !ok || msg.Role != transcript.RoleUser {
		return "", false
	}
	content := msg.Content
	c.transcript.TruncateAfter(index)
	c.rewriteLog()
	return content, true
}

// EditAssistantInPlace replaces an Assistant message's content without
// truncating (EditSelect "e").
func (c *Controller) EditAssistantInPlace(index int, content string) bool {
	ok := c.transcript.EditAssistantAt(index, content)
	if ok {
		c.rewriteLog()
	}
	return ok
}

// TruncateAt truncates the transcript at index without extracting any
// content (EditSelect "Del").
func (c *Controller) TruncateAt(index int) {
	c.transcript.TruncateAfter(index)
	c.rewriteLog()
}

func (c *Controller) rewriteLog() {
	if c.logRewriter == nil {
		return
	}
	c.lastLogErr = c.logRewriter.RewriteLog(c.transcript.Messages())
}
