// Package viewport maps cursor/selection positions to display lines and
// maintains the scroll offset used to render a window of a much larger
// transcript.
package viewport

// Viewport tracks the visible window over a sequence of display lines.
// ScrollOffset is measured in display-lines from the bottom; 0 means the
// viewport is pinned to the tail.
type Viewport struct {
	height       int
	scrollOffset int
	atBottom     bool
}

// New returns a Viewport pinned to the bottom with the given visible height.
func New(height int) *Viewport {
	return &Viewport{height: height, atBottom: true}
}

// SetHeight updates the visible height. The scroll offset is not
// re-clamped here; the next call that takes a total line count does that.
func (v *Viewport) SetHeight(height int) {
	v.height = height
}

// Height returns the visible height in lines.
func (v *Viewport) Height() int { return v.height }

// ScrollOffset returns the current offset from the bottom.
func (v *Viewport) ScrollOffset() int { return v.scrollOffset }

// AtBottom reports whether the viewport is currently pinned to the tail.
func (v *Viewport) AtBottom() bool { return v.atBottom }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (v *Viewport) maxOffset(totalLines int) int {
	m := totalLines - v.height
	if m < 0 {
		m = 0
	}
	return m
}

func (v *Viewport) setOffset(offset, totalLines int) {
	v.scrollOffset = clamp(offset, 0, v.maxOffset(totalLines))
	v.atBottom = v.scrollOffset == 0
}

// ScrollBy moves the offset by delta display-lines (positive scrolls up
// toward history, negative scrolls down toward the tail).
func (v *Viewport) ScrollBy(delta, totalLines int) {
	v.setOffset(v.scrollOffset+delta, totalLines)
}

// Page scrolls by one full viewport height in the given direction
// (dir > 0 up, dir < 0 down).
func (v *Viewport) Page(dir, totalLines int) {
	step := v.height
	if step <= 0 {
		step = 1
	}
	if dir < 0 {
		step = -step
	}
	v.ScrollBy(step, totalLines)
}

// Home scrolls to the very beginning of the transcript.
func (v *Viewport) Home(totalLines int) {
	v.setOffset(v.maxOffset(totalLines), totalLines)
}

// End scrolls to the tail and re-arms auto-follow.
func (v *Viewport) End() {
	v.scrollOffset = 0
	v.atBottom = true
}

// VisibleRange returns the [start, end) display-line range that should be
// rendered for the given total line count.
func (v *Viewport) VisibleRange(totalLines int) (start, end int) {
	end = totalLines - v.scrollOffset
	end = clamp(end, 0, totalLines)
	start = end - v.height
	if start < 0 {
		start = 0
	}
	return start, end
}

// OnContentGrew adjusts the offset after `added` new display-lines are
// appended to the tail (e.g. a streamed chunk). If the viewport was at the
// bottom it stays pinned there (auto-follow); otherwise the same lines
// remain visible by advancing the offset to compensate.
func (v *Viewport) OnContentGrew(added int) {
	if added <= 0 {
		return
	}
	if v.atBottom {
		v.scrollOffset = 0
		return
	}
	v.scrollOffset += added
}

// ScrollMessageIntoView adjusts the offset so the display line at
// perMessageOffsets[index] is visible.
func (v *Viewport) ScrollMessageIntoView(totalLines int, perMessageOffsets []int, index int) {
	if index < 0 || index >= len(perMessageOffsets) {
		return
	}
	v.ScrollLineIntoView(totalLines, perMessageOffsets[index])
}

// ScrollLineIntoView adjusts the offset so display line lineIndex is
// visible. Callers resolve higher-level targets (a code block's global
// index, a message index) to a line index via the PrewrapCache
// (LineOfCodeBlock scans the cached lines; per-message offsets are a
// direct lookup).
func (v *Viewport) ScrollLineIntoView(totalLines, lineIndex int) {
	start, end := v.VisibleRange(totalLines)
	if lineIndex >= start && lineIndex < end {
		return
	}
	var targetEnd int
	if lineIndex < start {
		targetEnd = lineIndex + v.height
	} else {
		targetEnd = lineIndex + 1
	}
	v.setOffset(totalLines-targetEnd, totalLines)
}
