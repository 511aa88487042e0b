package streamclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// Message is a minimal chat message for request construction. Role is one
// of "system", "user", "assistant".
type Message struct {
	Role    string
	Content string
}

// Request carries everything needed to dispatch one chat completion call.
type Request struct {
	BaseURL string // chat completions endpoint, e.g. https://api.openai.com/v1/chat/completions
	APIKey  string
	Model   string
	Messages []Message
	Headers  map[string]string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client dispatches OpenAI-compatible chat completion requests and frames
// their streamed response. Deliberately single-transport: no
// multi-provider abstraction or tool-calling orchestration.
type Client struct {
	httpClient     *http.Client
	connectTimeout time.Duration
	idleTimeout    time.Duration
}

// New returns a Client with the given connect and idle timeouts. A zero
// duration disables that timeout.
func New(connectTimeout, idleTimeout time.Duration) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: connectTimeout,
	}
	return &Client{
		httpClient:     &http.Client{Transport: transport},
		connectTimeout: connectTimeout,
		idleTimeout:    idleTimeout,
	}
}

// Stream dispatches req and returns a Stream of StreamMessages framed from
// the SSE response body. The HTTP round trip up through reading a non-2xx
// body happens synchronously so callers (e.g. a retry wrapper) can react to
// provider errors before any background task starts; only the successful
// streaming body is read in the background.
func (c *Client) Stream(ctx context.Context, req Request) (*Stream, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	body := chatRequest{Model: req.Model, Stream: true}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	// streamCtx, not the caller's ctx, is what the request and the
	// background reader both watch: Stream.Close cancels streamCtx, which
	// net/http ties to the in-flight response body read, so a cancel
	// unblocks a read that's stalled waiting on the provider rather than
	// only taking effect on the next chunk.
	streamCtx, cancel := context.WithCancel(ctx)

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodPost, req.BaseURL, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if req.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, parseProviderError(resp.StatusCode, respBody)
	}

	idleTimeout := c.idleTimeout
	return newEventStream(streamCtx, cancel, func(ctx context.Context, out chan<- StreamMessage) error {
		defer resp.Body.Close()

		var timedOut int32
		var watchdog *time.Timer
		if idleTimeout > 0 {
			watchdog = time.AfterFunc(idleTimeout, func() {
				atomic.StoreInt32(&timedOut, 1)
				resp.Body.Close()
			})
			defer watchdog.Stop()
		}

		reader := &kickingReader{r: resp.Body, watchdog: watchdog, idleTimeout: idleTimeout}

		err := frameSSE(ctx, reader, out)
		if err != nil && atomic.LoadInt32(&timedOut) == 1 {
			return fmt.Errorf("stream idle timeout after %s", idleTimeout)
		}
		return err
	}), nil
}

// kickingReader resets the idle watchdog every time a read succeeds, so the
// timeout measures gaps between chunks rather than total stream duration.
type kickingReader struct {
	r           io.Reader
	watchdog    *time.Timer
	idleTimeout time.Duration
}

func (k *kickingReader) Read(p []byte) (int, error) {
	n, err := k.r.Read(p)
	if n > 0 && k.watchdog != nil {
		k.watchdog.Reset(k.idleTimeout)
	}
	return n, err
}
