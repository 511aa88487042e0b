package conversation

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chabeau/internal/streamclient"
	"chabeau/internal/transcript"
)

// Scenario A — basic send/stream/finalize.
func TestScenarioA_SendStreamFinalize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n")
		flusher.Flush()
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n\n")
		flusher.Flush()
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	client := streamclient.New(2*time.Second, 2*time.Second)
	c := New(client, Session{BaseURL: srv.URL, Model: "m"})

	stream, err := c.SendUser(context.Background(), "hello")
	if err != nil {
		t.Fatalf("SendUser error: %v", err)
	}
	for {
		msg, ok := stream.Recv()
		if !ok {
			break
		}
		c.HandleStreamMessage(msg)
	}

	msgs := c.Transcript().Messages()
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d: %+v", len(msgs), msgs)
	}
	if msgs[0].Role != transcript.RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Role != transcript.RoleAssistant || msgs[1].Content != "Hi there" {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
	if msgs[1].InProgress {
		t.Fatalf("tail should not be in progress after Complete")
	}
}

// Scenario B — interrupt mid-stream.
func TestScenarioB_InterruptMidStream(t *testing.T) {
	client := streamclient.New(time.Second, time.Second)
	c := New(client, Session{BaseURL: "http://unused", Model: "m"})

	c.transcript.AppendUser("hello")
	c.transcript.StartAssistantPlaceholder()
	c.activeStreamID = "s1"

	c.HandleStreamMessage(streamclient.StreamMessage{Kind: streamclient.KindChunk, ID: "s1", Text: "Hi"})
	// user presses Esc here; the controller would call Cancel() which closes
	// the stream, which eventually yields an End{Cancelled}.
	c.HandleStreamMessage(streamclient.StreamMessage{Kind: streamclient.KindEnd, ID: "s1", EndReason: streamclient.EndCancelled})

	msgs := c.Transcript().Messages()
	if len(msgs) != 2 || msgs[1].Content != "Hi" {
		t.Fatalf("want tail finalized to %q, got %+v", "Hi", msgs)
	}
	if msgs[1].InProgress {
		t.Fatalf("tail should be finalized after cancellation")
	}

	// No further chunk for the cancelled stream should be observable.
	c.HandleStreamMessage(streamclient.StreamMessage{Kind: streamclient.KindChunk, ID: "s1", Text: " more"})
	msgs = c.Transcript().Messages()
	if msgs[1].Content != "Hi" {
		t.Fatalf("chunk after cancellation must not be applied, got %q", msgs[1].Content)
	}
}

// Scenario C — retry after error.
func TestScenarioC_RetryAfterError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"rate limit","code":"rate_limited"}}`)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok now\"}}]}\n\n")
		flusher.Flush()
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	client := streamclient.New(2*time.Second, 2*time.Second)
	c := New(client, Session{BaseURL: srv.URL, Model: "m"})

	_, err := c.SendUser(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected first SendUser to fail with a provider error")
	}

	msgs := c.Transcript().Messages()
	if len(msgs) != 2 {
		t.Fatalf("want [User, AppError], got %+v", msgs)
	}
	if msgs[1].Role != transcript.RoleAppError {
		t.Fatalf("want AppError after 429, got role %v", msgs[1].Role)
	}

	// Ctrl+R re-sends the same User message.
	stream, err := c.RetryLast()
	if err != nil {
		t.Fatalf("RetryLast error: %v", err)
	}
	for {
		msg, ok := stream.Recv()
		if !ok {
			break
		}
		c.HandleStreamMessage(msg)
	}

	msgs = c.Transcript().Messages()
	last := msgs[len(msgs)-1]
	if last.Role != transcript.RoleAssistant || last.Content != "ok now" {
		t.Fatalf("want successful retry content, got %+v", last)
	}
}

// Scenario D — edit-select user (Ctrl+P, Enter).
func TestScenarioD_EditSelectUser(t *testing.T) {
	client := streamclient.New(time.Second, time.Second)
	c := New(client, Session{})

	c.transcript.AppendUser("U1")
	c.transcript.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "A1"})
	c.transcript.AppendUser("U2")
	c.transcript.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "A2"})

	idx := c.LastIndexOfRole(transcript.RoleUser)
	if idx != 2 {
		t.Fatalf("want last user index 2, got %d", idx)
	}

	content, ok := c.TruncateAndExtractUser(idx)
	if !ok || content != "U2" {
		t.Fatalf("want extracted %q, got %q ok=%v", "U2", content, ok)
	}

	msgs := c.Transcript().Messages()
	if len(msgs) != 2 || msgs[0].Content != "U1" || msgs[1].Content != "A1" {
		t.Fatalf("want [U1, A1] remaining, got %+v", msgs)
	}
}

type recordingLogRewriter struct {
	calls int
	last  []transcript.Message
}

func (r *recordingLogRewriter) RewriteLog(messages []transcript.Message) error {
	r.calls++
	r.last = append([]transcript.Message(nil), messages...)
	return nil
}

func TestEditAssistantInPlaceRewritesLogAtomically(t *testing.T) {
	client := streamclient.New(time.Second, time.Second)
	c := New(client, Session{})
	rewriter := &recordingLogRewriter{}
	c.SetLogRewriter(rewriter)

	c.transcript.AppendUser("U1")
	c.transcript.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "A1"})

	if !c.EditAssistantInPlace(1, "A1-edited") {
		t.Fatalf("expected edit to succeed")
	}
	if rewriter.calls != 1 {
		t.Fatalf("want 1 log rewrite, got %d", rewriter.calls)
	}
	if rewriter.last[1].Content != "A1-edited" {
		t.Fatalf("log rewrite should see the edited content, got %+v", rewriter.last)
	}
}
