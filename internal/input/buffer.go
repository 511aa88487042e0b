// Package input implements the multi-line editor buffer behind the compose
// box: text storage, a cursor that tracks a preferred visual column across
// wrapped lines, and a wrapped layout cached by (width, revision).
package input

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cursor is a (line, col) position in rune offsets into Buffer.lines.
type Cursor struct {
	Line int
	Col  int
}

// Buffer is a multi-line text editor with an undo-free, revision-counted
// mutation model: every textual change bumps Revision so callers can cheaply
// detect whether their cached wrapped layout is stale.
type Buffer struct {
	lines    []string // logical lines, split on hard newlines
	cursor   Cursor
	prefCol  int // preferred visual column, stabilizes vertical motion
	revision uint64
}

// New returns an empty, single-line Buffer.
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// Revision returns the current edit revision.
func (b *Buffer) Revision() uint64 { return b.revision }

func (b *Buffer) bump() { b.revision++ }

// Text returns the full buffer content with logical lines joined by \n.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// SetText replaces the buffer content and moves the cursor to the end.
func (b *Buffer) SetText(s string) {
	b.lines = strings.Split(s, "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.cursor = Cursor{Line: len(b.lines) - 1, Col: len([]rune(b.lines[len(b.lines)-1]))}
	b.prefCol = b.visualColumn(b.cursor)
	b.bump()
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.lines = []string{""}
	b.cursor = Cursor{}
	b.prefCol = 0
	b.bump()
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Cursor { return b.cursor }

// Lines returns the logical (unwrapped) lines.
func (b *Buffer) Lines() []string { return b.lines }

func (b *Buffer) lineRunes(i int) []rune { return []rune(b.lines[i]) }

// visualColumn computes the display-width column of a cursor position
// within its logical line (tabs expand to the next multiple of 8).
func (b *Buffer) visualColumn(c Cursor) int {
	runes := b.lineRunes(c.Line)
	col := 0
	for i := 0; i < c.Col && i < len(runes); i++ {
		if runes[i] == '\t' {
			col = ((col / 8) + 1) * 8
			continue
		}
		col += runewidth.RuneWidth(runes[i])
	}
	return col
}

// colForVisual finds the rune column in a line closest to a target visual
// column, used to restore the preferred column after vertical motion.
func (b *Buffer) colForVisual(line, targetVisual int) int {
	runes := b.lineRunes(line)
	col := 0
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		if r == '\t' {
			w = ((col / 8) + 1) * 8 - col
		}
		if col+w > targetVisual {
			return i
		}
		col += w
	}
	return len(runes)
}

// InsertRune inserts r at the cursor and advances it.
func (b *Buffer) InsertRune(r rune) {
	if r == '\n' {
		b.InsertNewline()
		return
	}
	runes := b.lineRunes(b.cursor.Line)
	runes = append(runes[:b.cursor.Col], append([]rune{r}, runes[b.cursor.Col:]...)...)
	b.lines[b.cursor.Line] = string(runes)
	b.cursor.Col++
	b.prefCol = b.visualColumn(b.cursor)
	b.bump()
}

// InsertText inserts a (possibly multi-line) string at the cursor. Used for
// paste: tabs are preserved as tabs (expanded at render/measure time), hard
// newlines split into new logical lines, and the cursor ends at the end of
// the inserted text. Stripping other control characters happens one layer
// up, before calling this.
func (b *Buffer) InsertText(s string) {
	if s == "" {
		return
	}
	parts := strings.Split(s, "\n")
	if len(parts) == 1 {
		runes := b.lineRunes(b.cursor.Line)
		ins := []rune(parts[0])
		runes = append(runes[:b.cursor.Col], append(ins, runes[b.cursor.Col:]...)...)
		b.lines[b.cursor.Line] = string(runes)
		b.cursor.Col += len(ins)
	} else {
		runes := b.lineRunes(b.cursor.Line)
		tail := string(runes[b.cursor.Col:])
		head := string(runes[:b.cursor.Col])

		newLines := make([]string, 0, len(parts))
		newLines = append(newLines, head+parts[0])
		newLines = append(newLines, parts[1:len(parts)-1]...)
		newLines = append(newLines, parts[len(parts)-1]+tail)

		b.lines = append(b.lines[:b.cursor.Line], append(newLines, b.lines[b.cursor.Line+1:]...)...)
		b.cursor.Line += len(parts) - 1
		b.cursor.Col = len([]rune(parts[len(parts)-1]))
	}
	b.prefCol = b.visualColumn(b.cursor)
	b.bump()
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline() {
	runes := b.lineRunes(b.cursor.Line)
	head := string(runes[:b.cursor.Col])
	tail := string(runes[b.cursor.Col:])

	b.lines[b.cursor.Line] = head
	rest := append([]string{tail}, b.lines[b.cursor.Line+1:]...)
	b.lines = append(b.lines[:b.cursor.Line+1], rest...)

	b.cursor.Line++
	b.cursor.Col = 0
	b.prefCol = 0
	b.bump()
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (b *Buffer) Backspace() {
	if b.cursor.Col > 0 {
		runes := b.lineRunes(b.cursor.Line)
		runes = append(runes[:b.cursor.Col-1], runes[b.cursor.Col:]...)
		b.lines[b.cursor.Line] = string(runes)
		b.cursor.Col--
		b.prefCol = b.visualColumn(b.cursor)
		b.bump()
		return
	}
	if b.cursor.Line == 0 {
		return
	}
	prevLen := len([]rune(b.lines[b.cursor.Line-1]))
	b.lines[b.cursor.Line-1] += b.lines[b.cursor.Line]
	b.lines = append(b.lines[:b.cursor.Line], b.lines[b.cursor.Line+1:]...)
	b.cursor.Line--
	b.cursor.Col = prevLen
	b.prefCol = b.visualColumn(b.cursor)
	b.bump()
}

// DeleteWordBefore deletes the run of non-space runes (and any preceding
// spaces) immediately before the cursor (Ctrl+W).
func (b *Buffer) DeleteWordBefore() {
	runes := b.lineRunes(b.cursor.Line)
	i := b.cursor.Col
	for i > 0 && runes[i-1] == ' ' {
		i--
	}
	for i > 0 && runes[i-1] != ' ' {
		i--
	}
	if i == b.cursor.Col {
		return
	}
	runes = append(runes[:i], runes[b.cursor.Col:]...)
	b.lines[b.cursor.Line] = string(runes)
	b.cursor.Col = i
	b.prefCol = b.visualColumn(b.cursor)
	b.bump()
}

// ClearLine clears the current logical line (Ctrl+U).
func (b *Buffer) ClearLine() {
	b.lines[b.cursor.Line] = ""
	b.cursor.Col = 0
	b.prefCol = 0
	b.bump()
}

// MoveLeft/MoveRight move the cursor horizontally, crossing line
// boundaries at the edges.
func (b *Buffer) MoveLeft() {
	if b.cursor.Col > 0 {
		b.cursor.Col--
	} else if b.cursor.Line > 0 {
		b.cursor.Line--
		b.cursor.Col = len(b.lineRunes(b.cursor.Line))
	}
	b.prefCol = b.visualColumn(b.cursor)
}

func (b *Buffer) MoveRight() {
	if b.cursor.Col < len(b.lineRunes(b.cursor.Line)) {
		b.cursor.Col++
	} else if b.cursor.Line < len(b.lines)-1 {
		b.cursor.Line++
		b.cursor.Col = 0
	}
	b.prefCol = b.visualColumn(b.cursor)
}

// MoveUp/MoveDown move vertically, restoring the preferred visual column.
// This immediately crosses paragraph (blank-line) boundaries since blank
// logical lines are ordinary lines with zero runes.
func (b *Buffer) MoveUp() {
	if b.cursor.Line == 0 {
		return
	}
	b.cursor.Line--
	b.cursor.Col = b.colForVisual(b.cursor.Line, b.prefCol)
}

func (b *Buffer) MoveDown() {
	if b.cursor.Line >= len(b.lines)-1 {
		return
	}
	b.cursor.Line++
	b.cursor.Col = b.colForVisual(b.cursor.Line, b.prefCol)
}

// MoveHome/MoveEnd move to the start/end of the current logical line.
func (b *Buffer) MoveHome() {
	b.cursor.Col = 0
	b.prefCol = 0
}

func (b *Buffer) MoveEnd() {
	b.cursor.Col = len(b.lineRunes(b.cursor.Line))
	b.prefCol = b.visualColumn(b.cursor)
}
