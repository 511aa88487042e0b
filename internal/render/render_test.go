package render

import (
	"strings"
	"testing"

	"chabeau/internal/layout"
	"chabeau/internal/markdown"
	"chabeau/internal/theme"
)

func TestRenderTitleBarIncludesProviderAndModel(t *testing.T) {
	f := Frame{Provider: "openai", Model: "gpt-5.2", Theme: theme.FromPreset("mocha")}
	got := renderTitleBar(f)
	if !strings.Contains(got, "openai:gpt-5.2") {
		t.Fatalf("want provider:model in title bar, got %q", got)
	}
}

func TestRenderTitleBarShowsSpinnerWhileStreaming(t *testing.T) {
	f := Frame{Provider: "openai", Model: "gpt-5.2", Streaming: true, SpinFrame: 2, Theme: theme.FromPreset("mocha")}
	got := renderTitleBar(f)
	if !strings.Contains(got, spinnerFrames[2]) {
		t.Fatalf("want spinner frame 2 in title bar, got %q", got)
	}
}

func TestRenderChatAreaEmitsHyperlinkForLinkSpans(t *testing.T) {
	f := Frame{
		Theme: theme.FromPreset("mocha"),
		Lines: []layout.DisplayLine{
			{Spans: []markdown.Span{{Text: "example", Kind: markdown.KindLink, URL: "https://example.com"}}},
		},
		SpanMeta: [][]markdown.SpanKind{{markdown.KindLink}},
	}
	got := renderChatArea(f)
	if !strings.Contains(got, "https://example.com") {
		t.Fatalf("want hyperlink OSC 8 sequence to carry the URL, got %q", got)
	}
}

func TestRenderStatusBarReflectsKind(t *testing.T) {
	f := Frame{Status: "disconnected", StatusKind: StatusError, Theme: theme.FromPreset("mocha")}
	got := renderStatusBar(f)
	if !strings.Contains(got, "disconnected") {
		t.Fatalf("want status text present, got %q", got)
	}
}

func TestSetCursorColorEmptyWhenNoHex(t *testing.T) {
	if got := SetCursorColor(""); got != "" {
		t.Fatalf("want empty sequence for empty hex, got %q", got)
	}
}

func TestSetCursorColorEmitsSequenceForHex(t *testing.T) {
	got := SetCursorColor("#89b4fa")
	if got == "" {
		t.Fatalf("want non-empty OSC 12 sequence")
	}
}
