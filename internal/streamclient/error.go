package streamclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderError represents a non-2xx provider response, summarized into a
// Markdown-formatted AppError message.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Message)
}

// Markdown renders the error as the AppError message content appended to
// the transcript.
func (e *ProviderError) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Provider error** — status `%d`", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, ", code `%s`", e.Code)
	}
	b.WriteString("\n\n")
	b.WriteString(e.Message)
	return b.String()
}

type providerErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// parseProviderError reads a non-2xx response body as best-effort JSON; if
// it doesn't parse, the raw (truncated) body becomes the message.
func parseProviderError(status int, body []byte) *ProviderError {
	var parsed providerErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &ProviderError{Status: status, Code: parsed.Error.Code, Message: parsed.Error.Message}
	}
	msg := strings.TrimSpace(string(body))
	const maxLen = 2000
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "…"
	}
	if msg == "" {
		msg = "(empty response body)"
	}
	return &ProviderError{Status: status, Message: msg}
}
