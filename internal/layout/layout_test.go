package layout

import (
	"testing"

	"chabeau/internal/markdown"
	"chabeau/internal/transcript"
)

func TestLayoutMessageZeroWidthDoesNotPanic(t *testing.T) {
	msg := transcript.Message{Role: transcript.RoleUser, Content: "hello world"}
	rm := LayoutMessage(msg, 0, Options{})
	if len(rm.Lines) == 0 {
		t.Fatalf("want at least one line even at zero width")
	}
}

func TestLayoutMessageEmptyContentProducesOneLine(t *testing.T) {
	msg := transcript.Message{Role: transcript.RoleAssistant, Content: ""}
	rm := LayoutMessage(msg, 80, Options{})
	if len(rm.Lines) != 1 {
		t.Fatalf("want exactly 1 line for empty message, got %d", len(rm.Lines))
	}
}

func TestLayoutMessageIsWidthIdempotent(t *testing.T) {
	msg := transcript.Message{Role: transcript.RoleAssistant, Content: "the quick brown fox jumps over the lazy dog and keeps running"}
	a := LayoutMessage(msg, 20, Options{})
	b := LayoutMessage(msg, 20, Options{})
	if len(a.Lines) != len(b.Lines) {
		t.Fatalf("wrapping not idempotent: %d vs %d lines", len(a.Lines), len(b.Lines))
	}
	for i := range a.Lines {
		if a.Lines[i].Text() != b.Lines[i].Text() {
			t.Fatalf("line %d differs: %q vs %q", i, a.Lines[i].Text(), b.Lines[i].Text())
		}
	}
}

func TestLayoutMessageSpanMetaIsParallel(t *testing.T) {
	msg := transcript.Message{Role: transcript.RoleUser, Content: "hi [link](http://x) more text here to wrap"}
	rm := LayoutMessage(msg, 15, Options{})
	if len(rm.SpanMeta) != len(rm.Lines) {
		t.Fatalf("span meta length %d != lines length %d", len(rm.SpanMeta), len(rm.Lines))
	}
	for i, line := range rm.Lines {
		if len(rm.SpanMeta[i]) != len(line.Spans) {
			t.Fatalf("line %d: span meta len %d != spans len %d", i, len(rm.SpanMeta[i]), len(line.Spans))
		}
	}
}

func TestPrewrapCacheGetOrBuildRebuildsOnWidthChange(t *testing.T) {
	tr := transcript.New()
	tr.AppendUser("hello there friend")

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})
	linesAt80 := len(c.Lines())

	c.GetOrBuild(10, tr.Messages(), Options{})
	linesAt10 := len(c.Lines())

	if linesAt80 == linesAt10 {
		t.Fatalf("expected different line counts at different widths")
	}
	if c.Width() != 10 {
		t.Fatalf("want width 10, got %d", c.Width())
	}
}

func TestPrewrapCacheRenumbersGloballyUnique(t *testing.T) {
	tr := transcript.New()
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(1)\n```\n"})
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(2)\n```\n"})

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})

	seen := map[int]bool{}
	for li, meta := range c.SpanMeta() {
		for si, k := range meta {
			if k != markdown.KindCodeBlock {
				continue
			}
			idx := c.Lines()[li].Spans[si].BlockIndex
			if seen[idx] {
				t.Fatalf("global block index %d repeated", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != 2 {
		t.Fatalf("want 2 unique global code block indices, got %d", len(seen))
	}
}

func TestPrewrapCacheSpliceLastKeepsUniquenessAfterAppend(t *testing.T) {
	tr := transcript.New()
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(1)\n```\n"})

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})

	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(2)\n```\n"})
	c.SpliceLast(80, tr.Messages(), Options{})

	seen := map[int]bool{}
	for li, meta := range c.SpanMeta() {
		for si, k := range meta {
			if k != markdown.KindCodeBlock {
				continue
			}
			idx := c.Lines()[li].Spans[si].BlockIndex
			if seen[idx] {
				t.Fatalf("global block index %d repeated after splice", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != 2 {
		t.Fatalf("want 2 unique global indices after splice, got %d", len(seen))
	}
}

func TestPrewrapCacheTotalCodeBlocksCountsRenumbered(t *testing.T) {
	tr := transcript.New()
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(1)\n```\n```py\nprint(2)\n```\n"})

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})

	if got := c.TotalCodeBlocks(); got != 2 {
		t.Fatalf("want 2 total code blocks, got %d", got)
	}
}

func TestPrewrapCacheCodeBlockTextReturnsRawContentAndLang(t *testing.T) {
	tr := transcript.New()
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "```go\nfmt.Println(1)\n```\n"})

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})

	text, lang, ok := c.CodeBlockText(0)
	if !ok {
		t.Fatalf("want block 0 found")
	}
	if lang != "go" {
		t.Fatalf("want lang go, got %q", lang)
	}
	if text != "fmt.Println(1)" {
		t.Fatalf("want raw code text, got %q", text)
	}
}

func TestPrewrapCacheLineOfCodeBlockFindsLine(t *testing.T) {
	tr := transcript.New()
	tr.Append(transcript.Message{Role: transcript.RoleAssistant, Content: "intro text\n\n```go\nfmt.Println(1)\n```\n"})

	c := NewPrewrapCache()
	c.GetOrBuild(80, tr.Messages(), Options{})

	line, ok := c.LineOfCodeBlock(0)
	if !ok {
		t.Fatalf("want block 0 found")
	}
	if line == 0 {
		t.Fatalf("want code block line after the intro text line, got %d", line)
	}
}
