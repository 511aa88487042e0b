package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// calloutLabels maps a GitHub-style alert marker to its canonical display
// label, matched case-insensitively. See
// https://github.com/orgs/community/discussions/16925.
var calloutLabels = map[string]string{
	"note":      "NOTE",
	"tip":       "TIP",
	"important": "IMPORTANT",
	"warning":   "WARNING",
	"caution":   "CAUTION",
}

// scanCallouts performs a single pre-pass over the document, identifying
// blockquotes whose content opens with a bare alert marker (`[!NOTE]`,
// `[!WARNING]`, ...). goldmark's GFM extension bundle has no knowledge of
// this GitHub-specific syntax: without a blank line separating the marker
// from the text that follows it, both collapse into the first paragraph's
// inline children as consecutive Text nodes, one per source line. This
// pass recognizes a leading Text node shaped like a marker and records the
// label keyed by that node, so walkBlock can style the blockquote header
// and omit the raw marker from the rendered output.
func scanCallouts(source []byte, doc ast.Node) map[ast.Node]string {
	result := map[ast.Node]string{}
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if bq, ok := n.(*ast.Blockquote); ok {
			if para, ok := bq.FirstChild().(*ast.Paragraph); ok {
				if marker, ok := para.FirstChild().(*ast.Text); ok {
					text := strings.TrimSpace(string(marker.Segment.Value(source)))
					if label, ok := calloutLabel(text); ok {
						result[marker] = label
					}
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

// calloutLabel reports the canonical label for a bare "[!LABEL]" alert
// marker, or false if text isn't one.
func calloutLabel(text string) (string, bool) {
	if !strings.HasPrefix(text, "[!") || !strings.HasSuffix(text, "]") {
		return "", false
	}
	label, ok := calloutLabels[strings.ToLower(text[2:len(text)-1])]
	return label, ok
}
