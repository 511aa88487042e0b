// Package layout produces width-aware display lines from a transcript,
// with an incrementally-updatable prewrap cache keyed by width and
// content hash.
package layout

import (
	"chabeau/internal/markdown"
	"chabeau/internal/transcript"
)

// Options controls Markdown rendering and wrapping behavior for a layout
// pass. Highlight/CodeTheme are forwarded to internal/markdown.
type Options struct {
	Highlight bool
	CodeTheme string
	TabWidth  int
}

func (o Options) normalized() Options {
	if o.TabWidth <= 0 {
		o.TabWidth = defaultTabWidth
	}
	return o
}

// DisplayLine is one wrapped, on-screen line.
type DisplayLine struct {
	Spans []markdown.Span
}

// Text concatenates a DisplayLine's span texts.
func (l DisplayLine) Text() string {
	if len(l.Spans) == 0 {
		return ""
	}
	out := make([]byte, 0, 64)
	for _, s := range l.Spans {
		out = append(out, s.Text...)
	}
	return string(out)
}

// RenderedMessage is the wrapped output for one message at one width:
// lines plus a span-kind array index-parallel to lines[i].Spans.
type RenderedMessage struct {
	Lines    []DisplayLine
	SpanMeta [][]markdown.SpanKind
}

func rolePrefix(role transcript.Role) markdown.Span {
	switch role {
	case transcript.RoleUser:
		return markdown.Span{Text: "❯ ", Kind: markdown.KindUserPrefix, Style: markdown.Style{Bold: true}}
	case transcript.RoleAppInfo, transcript.RoleAppWarning, transcript.RoleAppError, transcript.RoleSystem:
		return markdown.Span{Text: "» ", Kind: markdown.KindAppPrefix}
	default:
		return markdown.Span{}
	}
}

// LayoutMessage wraps a single message's Markdown content to width W.
// Code-block spans carry a per-message zero-based BlockIndex; callers that
// need transcript-wide uniqueness (PrewrapCache) renumber it afterward.
//
// Guarantees at least one (possibly empty) DisplayLine even for an empty
// message or a zero/negative width.
func LayoutMessage(msg transcript.Message, width int, opts Options) RenderedMessage {
	opts = opts.normalized()

	mdLines := markdown.Render(msg.Content, markdown.RenderOptions{
		Highlight: opts.Highlight,
		CodeTheme: opts.CodeTheme,
	})
	if len(mdLines) == 0 {
		mdLines = []markdown.Line{{}}
	}

	var out []DisplayLine
	for i, l := range mdLines {
		spans := l.Spans
		if i == 0 {
			if prefix := rolePrefix(msg.Role); prefix.Text != "" {
				spans = append([]markdown.Span{prefix}, spans...)
			}
		}
		wrapped := wrapSpans(spans, width, opts.TabWidth)
		if len(wrapped) == 0 {
			out = append(out, DisplayLine{})
			continue
		}
		for _, w := range wrapped {
			out = append(out, DisplayLine{Spans: w})
		}
	}
	if len(out) == 0 {
		out = append(out, DisplayLine{})
	}

	spanMeta := make([][]markdown.SpanKind, len(out))
	for i, dl := range out {
		km := make([]markdown.SpanKind, len(dl.Spans))
		for j, s := range dl.Spans {
			km[j] = s.Kind
		}
		spanMeta[i] = km
	}
	return RenderedMessage{Lines: out, SpanMeta: spanMeta}
}
