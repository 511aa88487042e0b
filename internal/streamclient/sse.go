package streamclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// oaiChatResponse is the minimal shape of an OpenAI-compatible streaming
// chat completion chunk: content deltas live under
// choices[0].delta.content; unknown additional fields are ignored.
type oaiChatResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// frameSSE implements SSE framing: split on \n (tolerating \r\n), "data:"
// lines are payload (at most one leading space after the colon is
// trimmed), a blank line terminates an event, "[DONE]" ends the stream.
// Malformed JSON in a data line is reported as a warning and skipped; the
// stream continues. bufio.Reader's internal buffering means a multi-byte
// UTF-8 sequence split across network reads is never handed to
// json.Unmarshal until a full line (newline-terminated) has been
// assembled.
func frameSSE(ctx context.Context, body io.Reader, out chan<- StreamMessage) error {
	reader := bufio.NewReaderSize(body, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			// blank line: terminates the current event; nothing to flush
			// here since each OpenAI-compatible "data:" line is already a
			// complete JSON payload.
		case strings.HasPrefix(line, ":"):
			// comment line, ignored
		case strings.HasPrefix(line, "event:"):
			// event-type field; OpenAI-compatible servers don't define
			// semantics for it beyond "error", which also appears in the
			// JSON body's "error" field and is handled there.
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimPrefix(line, "data:")
			data = strings.TrimPrefix(data, " ")
			if data == "[DONE]" {
				return nil
			}
			if done, err := handleDataLine(data, out); err != nil {
				return err
			} else if done {
				return nil
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return nil
			}
			return readErr
		}
	}
}

func handleDataLine(data string, out chan<- StreamMessage) (done bool, err error) {
	var chunk oaiChatResponse
	if unmarshalErr := json.Unmarshal([]byte(data), &chunk); unmarshalErr != nil {
		out <- StreamMessage{
			Kind:    KindAppMessage,
			AppKind: AppWarning,
			Content: fmt.Sprintf("skipped malformed stream data: %v", unmarshalErr),
		}
		return false, nil
	}

	if chunk.Error != nil {
		return true, fmt.Errorf("provider stream error: %s", chunk.Error.Message)
	}

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			out <- StreamMessage{Kind: KindChunk, Text: choice.Delta.Content}
		}
	}
	return false, nil
}
