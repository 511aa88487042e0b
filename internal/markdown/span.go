// Package markdown walks a CommonMark+GFM document and emits a sequence of
// logical (unwrapped) lines built from styled spans tagged with a semantic
// SpanKind. Width-aware wrapping of these lines is the job of
// internal/layout; this package only resolves Markdown structure into
// span metadata.
package markdown

// SpanKind classifies a Span for semantic routing by scroll/selection/inspect
// code without needing to re-parse Markdown.
type SpanKind int

const (
	KindText SpanKind = iota
	KindUserPrefix
	KindAppPrefix
	KindLink
	KindCodeBlock
	KindCallout
)

func (k SpanKind) String() string {
	switch k {
	case KindUserPrefix:
		return "user-prefix"
	case KindAppPrefix:
		return "app-prefix"
	case KindLink:
		return "link"
	case KindCodeBlock:
		return "code-block"
	case KindCallout:
		return "callout"
	default:
		return "text"
	}
}

// Style carries the presentational attributes of a Span. Color fields hold
// either empty (inherit from theme), an ANSI index ("9"), or a hex triplet
// ("#ff0000") as produced by internal/theme.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	FG            string
	BG            string
}

// Span is a styled run of text tagged with a SpanKind.
type Span struct {
	Text  string
	Kind  SpanKind
	Style Style

	// URL is set for KindLink spans (including image-ALT spans, per spec).
	URL string

	// Lang and BlockIndex are set for KindCodeBlock spans. BlockIndex is
	// zero-based per message at render time; internal/layout renumbers it to
	// a transcript-wide global index on layout_messages.
	Lang       string
	BlockIndex int
}

// Line is one logical (pre-wrap) line: hard newlines and block boundaries
// in the source produce separate Lines. internal/layout wraps each Line's
// spans to a target width.
type Line struct {
	Spans []Span
}

// RenderOptions controls optional Markdown rendering behavior.
type RenderOptions struct {
	// Highlight enables chroma syntax highlighting inside fenced code
	// blocks. Togglable at runtime.
	Highlight bool

	// CodeTheme names the chroma style to resolve token colors from, e.g.
	// "monokai". Ignored when Highlight is false.
	CodeTheme string
}

// Text returns the concatenation of a Line's span texts, useful for
// round-trip and saved-block comparisons.
func (l Line) Text() string {
	if len(l.Spans) == 0 {
		return ""
	}
	if len(l.Spans) == 1 {
		return l.Spans[0].Text
	}
	out := make([]byte, 0, 64)
	for _, s := range l.Spans {
		out = append(out, s.Text...)
	}
	return string(out)
}
