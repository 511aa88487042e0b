// Package render composes one frame of the full-screen UI: chat area,
// input area, title bar, and status bar, plus the picker/inspect
// overlays.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"chabeau/internal/layout"
	"chabeau/internal/markdown"
	"chabeau/internal/picker"
	"chabeau/internal/theme"
)

// spinnerFrames is the 8-frame streaming indicator animation shown in the
// title bar while a response is in flight.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}

// StatusKind classifies a status-bar message for coloring.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarning
	StatusError
)

// Frame holds everything one render pass needs. The caller (internal/app)
// assembles it each tick from the PrewrapCache, Viewport, InputBuffer, and
// mode state; this package contains no mutable state of its own.
type Frame struct {
	Width, Height int

	// Chat area: the already-windowed slice of display lines (Viewport's
	// VisibleRange applied by the caller) and their parallel span kinds.
	Lines    []layout.DisplayLine
	SpanMeta [][]markdown.SpanKind

	// HighlightBlock, if non-nil, is the globally-unique code block index
	// BlockSelect has selected; spans with a matching BlockIndex are drawn
	// with the selection style instead of recomputing layout.
	HighlightBlock *int

	// HighlightLines, if non-nil, is an inclusive [start, end] display-line
	// range (resolved by the caller via PerMessageOffsets) that EditSelect
	// has selected.
	HighlightLines *[2]int

	// Input area.
	InputLines      []string
	InputCursorLine int
	InputCursorCol  int
	ComposeMode     bool

	// Title bar.
	Provider  string
	Model     string
	Preset    string
	Character string
	Streaming bool
	SpinFrame int
	Stats     *SessionStats

	// Status bar.
	Status     string
	StatusKind StatusKind

	// Overlays.
	Picker     *picker.Picker
	PickerOpen bool
	Inspect    string // non-empty shows the Inspect overlay with this text

	Theme *theme.Theme
}

// Compose renders the full frame: title bar, chat area, input area, status
// bar, with a picker or inspect overlay drawn on top when active.
func Compose(f Frame) string {
	var b strings.Builder
	b.WriteString(renderTitleBar(f))
	b.WriteString("\n")

	body := renderChatArea(f)
	if f.PickerOpen && f.Picker != nil {
		body = overlay(body, renderPicker(f), f.Width)
	} else if f.Inspect != "" {
		body = overlay(body, renderInspect(f), f.Width)
	}
	b.WriteString(body)
	b.WriteString("\n")

	b.WriteString(renderInputArea(f))
	b.WriteString("\n")
	b.WriteString(renderStatusBar(f))
	return b.String()
}

func renderTitleBar(f Frame) string {
	th := f.Theme
	style := lipgloss.NewStyle().Bold(true).Foreground(th.Text)
	var parts []string
	parts = append(parts, f.Provider+":"+f.Model)
	if f.Character != "" {
		parts = append(parts, "character:"+f.Character)
	}
	if f.Preset != "" {
		parts = append(parts, "preset:"+f.Preset)
	}
	title := style.Render(strings.Join(parts, " · "))
	if f.Streaming {
		frame := spinnerFrames[f.SpinFrame%len(spinnerFrames)]
		title += "  " + lipgloss.NewStyle().Foreground(th.Spinner).Render(frame)
	}
	if elapsed := f.Stats.Elapsed(); elapsed != "" {
		title += "  " + lipgloss.NewStyle().Foreground(th.Muted).Render(elapsed)
	}
	return title
}

func renderChatArea(f Frame) string {
	var b strings.Builder
	for i, line := range f.Lines {
		var kinds []markdown.SpanKind
		if i < len(f.SpanMeta) {
			kinds = f.SpanMeta[i]
		}
		highlighted := f.HighlightLines != nil && i >= f.HighlightLines[0] && i <= f.HighlightLines[1]
		b.WriteString(renderLine(line, kinds, f.HighlightBlock, highlighted, f.Theme))
		if i < len(f.Lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderLine(line layout.DisplayLine, kinds []markdown.SpanKind, highlightBlock *int, highlightRange bool, th *theme.Theme) string {
	var b strings.Builder
	for i, span := range line.Spans {
		text := span.Text
		if span.Kind == markdown.KindLink && span.URL != "" {
			text = ansi.Hyperlink(span.URL, text)
		}

		style := spanStyle(span, th)
		if highlightRange {
			style = style.Reverse(true)
		}
		if highlightBlock != nil && span.Kind == markdown.KindCodeBlock && span.BlockIndex == *highlightBlock {
			style = style.Background(th.CodeBlockBg).Bold(true)
		}
		_ = i
		_ = kinds
		b.WriteString(style.Render(text))
	}
	return b.String()
}

func spanStyle(span markdown.Span, th *theme.Theme) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch span.Kind {
	case markdown.KindUserPrefix:
		s = s.Foreground(th.UserPrefix).Bold(true)
	case markdown.KindAppPrefix:
		s = s.Foreground(th.AppInfo)
	case markdown.KindLink:
		s = s.Foreground(th.Link).Underline(true)
	case markdown.KindCallout:
		s = s.Bold(true)
		switch span.Text {
		case "WARNING", "IMPORTANT":
			s = s.Foreground(th.AppWarning)
		case "CAUTION":
			s = s.Foreground(th.AppError)
		default: // NOTE, TIP
			s = s.Foreground(th.AppInfo)
		}
	}
	if span.Style.FG != "" {
		s = s.Foreground(lipgloss.Color(span.Style.FG))
	}
	if span.Style.BG != "" {
		s = s.Background(lipgloss.Color(span.Style.BG))
	}
	if span.Style.Bold {
		s = s.Bold(true)
	}
	if span.Style.Italic {
		s = s.Italic(true)
	}
	if span.Style.Underline {
		s = s.Underline(true)
	}
	if span.Style.Strikethrough {
		s = s.Strikethrough(true)
	}
	return s
}

func renderInputArea(f Frame) string {
	th := f.Theme
	borderColor := th.Border
	if f.ComposeMode {
		borderColor = th.AppWarning
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(f.Width-2, 1))

	lines := make([]string, len(f.InputLines))
	copy(lines, f.InputLines)
	if len(lines) == 0 {
		lines = []string{""}
	}
	if f.InputCursorLine >= 0 && f.InputCursorLine < len(lines) {
		lines[f.InputCursorLine] = withCursor(lines[f.InputCursorLine], f.InputCursorCol)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func withCursor(line string, col int) string {
	runes := []rune(line)
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	before := string(runes[:col])
	bar := lipgloss.NewStyle().Reverse(true).Render(" ")
	if col < len(runes) {
		bar = lipgloss.NewStyle().Reverse(true).Render(string(runes[col]))
		return before + bar + string(runes[col+1:])
	}
	return before + bar
}

func renderStatusBar(f Frame) string {
	th := f.Theme
	color := th.AppInfo
	switch f.StatusKind {
	case StatusWarning:
		color = th.AppWarning
	case StatusError:
		color = th.AppError
	}
	return lipgloss.NewStyle().Foreground(color).Render(f.Status)
}

func renderPicker(f Frame) string {
	th := f.Theme
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1)

	var b strings.Builder
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	selected := lipgloss.NewStyle().Foreground(th.UserPrefix).Bold(true)

	b.WriteString(muted.Render("filter: " + f.Picker.Query()))
	b.WriteString("\n")
	if f.Picker.Loading() {
		b.WriteString(muted.Render("loading…"))
		return border.Render(b.String())
	}
	items := f.Picker.Items()
	if len(items) == 0 {
		b.WriteString(muted.Render("no matches"))
		return border.Render(b.String())
	}
	for i, it := range items {
		if i == f.Picker.Cursor() {
			b.WriteString(selected.Render("❯ " + it.Display))
		} else {
			b.WriteString("  " + it.Display)
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return border.Render(b.String())
}

func renderInspect(f Frame) string {
	th := f.Theme
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(1, 2)
	return border.Render(f.Inspect)
}

// overlay replaces base with top, centered horizontally and vertically in
// a box of the given width and base's height; base's own content is not
// drawn. Used for the Picker and Inspect overlays.
func overlay(base, top string, width int) string {
	return lipgloss.Place(width, lipgloss.Height(base), lipgloss.Center, lipgloss.Center, top, lipgloss.WithWhitespaceChars(" "))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SetCursorColor returns the OSC 12 escape sequence to set the terminal's
// text-cursor color to match the active theme's Spinner color, when the
// theme specifies one.
func SetCursorColor(hex string) string {
	if hex == "" {
		return ""
	}
	return ansi.SetCursorColor(hex)
}
