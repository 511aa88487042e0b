package markdown

import (
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// scanBlankBeforeListItems performs a single pre-pass over the raw source:
// a list item preceded by a blank line in source gets a blank display line
// emitted before it at render time (entry, not after the previous item's
// paragraph).
func scanBlankBeforeListItems(source []byte, doc ast.Node) map[ast.Node]bool {
	result := map[ast.Node]bool{}
	lineStarts := computeLineStarts(source)

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if list, ok := n.(*ast.List); ok {
			var prevEnd int
			havePrev := false
			for c := list.FirstChild(); c != nil; c = c.NextSibling() {
				item, ok := c.(*ast.ListItem)
				if !ok {
					continue
				}
				if start, ok := firstTextOffset(item); ok && havePrev {
					if lineForOffset(lineStarts, start)-lineForOffset(lineStarts, prevEnd) >= 2 {
						result[item] = true
					}
				}
				if end, ok := lastTextOffset(item); ok {
					prevEnd = end
					havePrev = true
				}
			}
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(doc)
	return result
}

type linesHolder interface {
	Lines() *text.Segments
}

func firstTextOffset(n ast.Node) (int, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start, true
	}
	if lh, ok := n.(linesHolder); ok {
		if lines := lh.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := firstTextOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}

func lastTextOffset(n ast.Node) (int, bool) {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Stop, true
	}
	if lh, ok := n.(linesHolder); ok {
		if lines := lh.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop, true
		}
	}
	var last int
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := lastTextOffset(c); ok {
			last = off
			found = true
		}
	}
	return last, found
}

// computeLineStarts returns the byte offset of the start of each line.
func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineForOffset(lineStarts []int, offset int) int {
	return sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > offset
	}) - 1
}
