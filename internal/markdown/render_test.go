package markdown

import (
	"strings"
	"testing"
)

func TestRenderPlainParagraph(t *testing.T) {
	lines := Render("hello world", RenderOptions{})
	if len(lines) != 1 {
		t.Fatalf("want 1 line, got %d", len(lines))
	}
	if lines[0].Text() != "hello world" {
		t.Fatalf("want %q, got %q", "hello world", lines[0].Text())
	}
}

func TestRenderCodeBlockTaggedAndIndexed(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n\ntext\n\n```\nfmt.Println(2)\n```\n"
	lines := Render(src, RenderOptions{})

	var codeLines []Line
	for _, l := range lines {
		if len(l.Spans) > 0 && l.Spans[0].Kind == KindCodeBlock {
			codeLines = append(codeLines, l)
		}
	}
	if len(codeLines) != 2 {
		t.Fatalf("want 2 code lines, got %d", len(codeLines))
	}
	if codeLines[0].Spans[0].BlockIndex != 0 {
		t.Fatalf("want block index 0, got %d", codeLines[0].Spans[0].BlockIndex)
	}
	if codeLines[1].Spans[0].BlockIndex != 1 {
		t.Fatalf("want block index 1, got %d", codeLines[1].Spans[0].BlockIndex)
	}
	if codeLines[0].Spans[0].Lang != "go" {
		t.Fatalf("want lang go, got %q", codeLines[0].Spans[0].Lang)
	}
}

func TestRenderEmptyCodeBlockGetsNavigableEntry(t *testing.T) {
	src := "```\n```\n"
	lines := Render(src, RenderOptions{})
	found := false
	for _, l := range lines {
		for _, s := range l.Spans {
			if s.Kind == KindCodeBlock {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("empty fenced code block should still produce a KindCodeBlock entry")
	}
}

func TestRenderImageAltBecomesLinkSpan(t *testing.T) {
	lines := Render("![alt text](http://example.com/x.png)", RenderOptions{})
	found := false
	for _, l := range lines {
		for _, s := range l.Spans {
			if s.Kind == KindLink && s.URL == "http://example.com/x.png" && s.Text == "alt text" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("image alt text should become a KindLink span carrying the image URL")
	}
}

func TestRenderBlankLineBeforeListItemPreserved(t *testing.T) {
	src := "- one\n\n- two\n- three\n"
	lines := Render(src, RenderOptions{})

	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text())
	}

	blankCount := 0
	for _, txt := range texts {
		if txt == "" {
			blankCount++
		}
	}
	if blankCount != 1 {
		t.Fatalf("want exactly 1 blank line (before 'two'), got %d in %#v", blankCount, texts)
	}
}

func TestRenderGitHubCalloutTaggedAndMarkerOmitted(t *testing.T) {
	src := "> [!WARNING]\n> be careful\n"
	lines := Render(src, RenderOptions{})

	var calloutLine *Line
	for i, l := range lines {
		for _, s := range l.Spans {
			if s.Kind == KindCallout {
				calloutLine = &lines[i]
			}
		}
	}
	if calloutLine == nil {
		t.Fatalf("want a KindCallout span, got none in %#v", lines)
	}
	if calloutLine.Spans[len(calloutLine.Spans)-1].Text != "WARNING" {
		t.Fatalf("want callout label WARNING, got %q", calloutLine.Text())
	}

	for _, l := range lines {
		if strings.Contains(l.Text(), "[!WARNING]") {
			t.Fatalf("raw alert marker should not appear in rendered text, got %q", l.Text())
		}
	}
}

func TestRenderPlainBlockquoteNotTaggedAsCallout(t *testing.T) {
	src := "> just a quote\n"
	lines := Render(src, RenderOptions{})
	for _, l := range lines {
		for _, s := range l.Spans {
			if s.Kind == KindCallout {
				t.Fatalf("plain blockquote should not be tagged KindCallout")
			}
		}
	}
}

func TestRenderLinkSpan(t *testing.T) {
	lines := Render("see [docs](http://example.com)", RenderOptions{})
	found := false
	for _, l := range lines {
		for _, s := range l.Spans {
			if s.Kind == KindLink && s.URL == "http://example.com" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a KindLink span for the markdown link")
	}
}
