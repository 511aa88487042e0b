package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"chabeau/internal/markdown"
)

const defaultTabWidth = 8

type atom struct {
	r       rune
	spanIdx int
}

// wrapSpans wraps a logical line's spans to the given display width,
// preserving span boundaries (style, kind, URL, lang, block index) so the
// viewport and selection logic never needs to re-parse Markdown. Soft-wraps
// at word boundaries; long tokens that exceed the width are hard-broken.
// Tabs expand to the next stop of tabWidth; invisible control characters
// are dropped.
func wrapSpans(spans []markdown.Span, width, tabWidth int) [][]markdown.Span {
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}
	if width < 1 {
		width = 1
	}

	atoms := make([]atom, 0, 64)
	col := 0
	for si, sp := range spans {
		for _, r := range sp.Text {
			switch {
			case r == '\t':
				next := ((col / tabWidth) + 1) * tabWidth
				for col < next {
					atoms = append(atoms, atom{r: ' ', spanIdx: si})
					col++
				}
			case r < 0x20 || r == 0x7f:
				// drop invisible control characters
			default:
				atoms = append(atoms, atom{r: r, spanIdx: si})
				col += runewidth.RuneWidth(r)
			}
		}
	}

	if len(atoms) == 0 {
		return nil
	}

	cum := make([]int, len(atoms)+1)
	for i, a := range atoms {
		cum[i+1] = cum[i] + runewidth.RuneWidth(a.r)
	}

	var lines [][]atom
	lineStart := 0
	lastBreak := -1 // index of the space atom usable as a break point

	flush := func(end int) {
		lines = append(lines, atoms[lineStart:end])
	}

	for i := 0; i < len(atoms); i++ {
		if atoms[i].r == ' ' {
			lastBreak = i
		}
		lineWidthThrough := cum[i+1] - cum[lineStart]
		if lineWidthThrough > width && i > lineStart {
			if lastBreak >= lineStart {
				flush(lastBreak)
				lineStart = lastBreak + 1
			} else {
				// long token exceeding width: hard break right before this atom
				flush(i)
				lineStart = i
			}
			lastBreak = -1
			i-- // re-evaluate this atom against the new lineStart
			continue
		}
	}
	flush(len(atoms))

	out := make([][]markdown.Span, 0, len(lines))
	for _, seg := range lines {
		out = append(out, atomsToSpans(seg, spans))
	}
	return out
}

// atomsToSpans regroups a contiguous run of atoms back into spans,
// splitting at span-index boundaries and inheriting each atom's
// originating span's metadata.
func atomsToSpans(seg []atom, spans []markdown.Span) []markdown.Span {
	if len(seg) == 0 {
		return nil
	}
	var out []markdown.Span
	start := 0
	for i := 1; i <= len(seg); i++ {
		if i == len(seg) || seg[i].spanIdx != seg[start].spanIdx {
			src := spans[seg[start].spanIdx]
			runes := make([]rune, 0, i-start)
			for _, a := range seg[start:i] {
				runes = append(runes, a.r)
			}
			cp := src
			cp.Text = string(runes)
			out = append(out, cp)
			start = i
		}
	}
	return out
}

// WrapPlain word-wraps unattributed text (title bar / status line content
// with no span metadata to preserve) at the given width.
func WrapPlain(text string, width int) string {
	if width < 1 {
		width = 1
	}
	return wordwrap.String(text, width)
}
