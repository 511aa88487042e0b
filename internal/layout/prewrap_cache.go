package layout

import (
	"github.com/mitchellh/hashstructure/v2"

	"chabeau/internal/markdown"
	"chabeau/internal/transcript"
)

// PrewrapCache is the width-keyed cached layout of an entire transcript,
// with incremental tail updates. Owned exclusively by the app Model.
type PrewrapCache struct {
	width             int
	messagesHash      uint64
	lines             []DisplayLine
	spanMeta          [][]markdown.SpanKind
	perMessageOffsets []int
	nextGlobal        int
	built             bool
}

// NewPrewrapCache returns an empty cache; the first GetOrBuild/SpliceLast
// call performs the initial build.
func NewPrewrapCache() *PrewrapCache {
	return &PrewrapCache{}
}

func hashMessages(messages []transcript.Message) uint64 {
	h, err := hashstructure.Hash(messages, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// Width reports the width the cache was last built for.
func (c *PrewrapCache) Width() int { return c.width }

// Lines returns the cached display lines for the whole transcript.
func (c *PrewrapCache) Lines() []DisplayLine { return c.lines }

// SpanMeta returns the cached span-kind arrays, parallel to Lines().
func (c *PrewrapCache) SpanMeta() [][]markdown.SpanKind { return c.spanMeta }

// PerMessageOffsets returns, for each message index, the index of its
// first DisplayLine in Lines().
func (c *PrewrapCache) PerMessageOffsets() []int { return c.perMessageOffsets }

// TotalCodeBlocks returns the number of globally-unique code blocks
// renumbered into the cache so far; BlockSelect mode uses this to decide
// whether Ctrl+B has anything to enter.
func (c *PrewrapCache) TotalCodeBlocks() int { return c.nextGlobal }

// GetOrBuild rebuilds the cache if width or the transcript's content hash
// changed since the last build; otherwise it is a no-op.
func (c *PrewrapCache) GetOrBuild(width int, messages []transcript.Message, opts Options) {
	h := hashMessages(messages)
	if c.built && c.width == width && c.messagesHash == h {
		return
	}
	c.rebuild(width, messages, opts)
}

func (c *PrewrapCache) rebuild(width int, messages []transcript.Message, opts Options) {
	c.width = width
	c.lines = nil
	c.spanMeta = nil
	c.perMessageOffsets = make([]int, len(messages))
	c.nextGlobal = 0

	for i, msg := range messages {
		c.perMessageOffsets[i] = len(c.lines)
		rm := LayoutMessage(msg, width, opts)
		c.renumber(&rm)
		c.lines = append(c.lines, rm.Lines...)
		c.spanMeta = append(c.spanMeta, rm.SpanMeta...)
	}
	c.messagesHash = hashMessages(messages)
	c.built = true
}

// renumber walks a freshly-laid-out message and reassigns its code-block
// BlockIndex values to globally unique, sequential integers, continuing
// from c.nextGlobal.
func (c *PrewrapCache) renumber(rm *RenderedMessage) {
	localToGlobal := map[int]int{}
	for li := range rm.Lines {
		for si := range rm.Lines[li].Spans {
			sp := &rm.Lines[li].Spans[si]
			if sp.Kind != markdown.KindCodeBlock {
				continue
			}
			g, ok := localToGlobal[sp.BlockIndex]
			if !ok {
				g = c.nextGlobal
				c.nextGlobal++
				localToGlobal[sp.BlockIndex] = g
			}
			sp.BlockIndex = g
		}
	}
}

// SpliceLast re-lays-out only the tail message when the rest of the
// transcript is unchanged, replacing just its slice of cached lines and
// renumbering any new code blocks starting at max_existing_global_index+1.
// Falls back to a full rebuild if the cache is stale in a way that can't be
// reconciled incrementally (width change, empty cache, an empty message
// list, or any change in message count other than exactly one appended).
func (c *PrewrapCache) SpliceLast(width int, messages []transcript.Message, opts Options) {
	if !c.built || width != c.width || len(messages) == 0 {
		c.rebuild(width, messages, opts)
		return
	}

	switch {
	case len(messages) == len(c.perMessageOffsets):
		c.spliceReplaceTail(width, messages, opts)
	case len(messages) == len(c.perMessageOffsets)+1:
		c.spliceAppendTail(width, messages, opts)
	default:
		c.rebuild(width, messages, opts)
	}
}

func (c *PrewrapCache) spliceAppendTail(width int, messages []transcript.Message, opts Options) {
	tailIdx := len(messages) - 1
	c.perMessageOffsets = append(c.perMessageOffsets, len(c.lines))

	rm := LayoutMessage(messages[tailIdx], width, opts)
	c.renumber(&rm)
	c.lines = append(c.lines, rm.Lines...)
	c.spanMeta = append(c.spanMeta, rm.SpanMeta...)
	c.messagesHash = hashMessages(messages)
}

func (c *PrewrapCache) spliceReplaceTail(width int, messages []transcript.Message, opts Options) {
	tailIdx := len(messages) - 1
	tailStart := c.perMessageOffsets[tailIdx]

	c.nextGlobal = c.maxGlobalIndexBefore(tailStart) + 1

	rm := LayoutMessage(messages[tailIdx], width, opts)
	c.renumber(&rm)

	c.lines = append(c.lines[:tailStart:tailStart], rm.Lines...)
	c.spanMeta = append(c.spanMeta[:tailStart:tailStart], rm.SpanMeta...)
	c.messagesHash = hashMessages(messages)
}

// LineOfCodeBlock returns the first display-line index containing a span
// of the given global code block index, so the viewport can be scrolled
// to make BlockSelect's current selection visible.
func (c *PrewrapCache) LineOfCodeBlock(blockIndex int) (int, bool) {
	for li, kinds := range c.spanMeta {
		for si, k := range kinds {
			if k == markdown.KindCodeBlock && c.lines[li].Spans[si].BlockIndex == blockIndex {
				return li, true
			}
		}
	}
	return 0, false
}

// CodeBlockText concatenates every span belonging to the given global
// code block index, in display order, and returns its fence language.
// Used by BlockSelect's copy ('c') and save ('s') actions: no fence, no
// trailing newline unless present in the source. Spans on the same display
// line are joined directly (a highlighted line carries several) and
// display lines are joined with '\n'; a code line wide enough to wrap
// across multiple display lines reconstructs with an extra break at the
// wrap point.
func (c *PrewrapCache) CodeBlockText(blockIndex int) (text string, lang string, ok bool) {
	var b []byte
	lastLine := -1
	for li, kinds := range c.spanMeta {
		for si, k := range kinds {
			if k != markdown.KindCodeBlock || c.lines[li].Spans[si].BlockIndex != blockIndex {
				continue
			}
			sp := c.lines[li].Spans[si]
			if !ok {
				lang = sp.Lang
			}
			ok = true
			if lastLine >= 0 && li != lastLine {
				b = append(b, '\n')
			}
			lastLine = li
			b = append(b, sp.Text...)
		}
	}
	return string(b), lang, ok
}

func (c *PrewrapCache) maxGlobalIndexBefore(beforeLine int) int {
	max := -1
	for li := 0; li < beforeLine && li < len(c.spanMeta); li++ {
		for si, k := range c.spanMeta[li] {
			if k != markdown.KindCodeBlock {
				continue
			}
			if idx := c.lines[li].Spans[si].BlockIndex; idx > max {
				max = idx
			}
		}
	}
	return max
}
