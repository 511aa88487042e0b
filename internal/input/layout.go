package input

import "github.com/muesli/reflow/wordwrap"

// WrappedLayout is a width-wrapped view of a Buffer's content, cached by
// (width, revision) so repeated renders at a stable width and content are
// free.
type WrappedLayout struct {
	width    int
	revision uint64
	lines    []string
}

// Layout returns the buffer's content wrapped to width, rebuilding only if
// the width or the buffer's revision has changed since the cache was built.
func (b *Buffer) Layout(cache *WrappedLayout, width int) *WrappedLayout {
	if cache != nil && cache.width == width && cache.revision == b.revision {
		return cache
	}
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, line := range b.lines {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		wrapped := wordwrap.String(line, width)
		for _, wl := range splitLines(wrapped) {
			lines = append(lines, wl)
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &WrappedLayout{width: width, revision: b.revision, lines: lines}
}

// Lines returns the wrapped display lines.
func (w *WrappedLayout) Lines() []string { return w.lines }

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
