package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// parser is shared across calls; goldmark parsers are safe for concurrent
// use once constructed.
var parser = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
).Parser()

// Render parses src as CommonMark+GFM and returns its logical lines, each
// tagged with span-kind metadata. Blank-line-before-list-item spacing (see
// blankBeforeListItem) and image-ALT-as-link (see the *ast.Image case in
// walker.walkInline) are handled there.
func Render(src string, opts RenderOptions) []Line {
	source := []byte(src)
	doc := parser.Parse(text.NewReader(source))

	w := &walker{
		source:              source,
		opts:                opts,
		blankBeforeListItem: scanBlankBeforeListItems(source, doc),
		calloutLabel:        scanCallouts(source, doc),
	}
	w.walkBlock(doc)
	if len(w.cur) > 0 {
		w.flushCurrent()
	}
	return w.lines
}

type walker struct {
	source              []byte
	opts                RenderOptions
	lines               []Line
	cur                 []Span
	blankBeforeListItem map[ast.Node]bool
	calloutLabel        map[ast.Node]string
	codeBlockIndex      int
	blockquoteDepth     int
}

func (w *walker) flushCurrent() {
	if w.blockquoteDepth > 0 && len(w.cur) > 0 {
		prefix := strings.Repeat("> ", w.blockquoteDepth)
		w.cur = append([]Span{{Text: prefix, Kind: KindText, Style: Style{FG: "muted"}}}, w.cur...)
	}
	w.lines = append(w.lines, Line{Spans: w.cur})
	w.cur = nil
}

func (w *walker) emitBlank() {
	w.flushCurrent()
}

// renderCallout renders node as a GitHub-style alert callout (`> [!NOTE]`,
// ...) when scanCallouts tagged its opening Text node, emitting the label as
// its own display line and continuing with whatever body text and blocks
// follow the marker. Reports false, rendering nothing, if node isn't one.
func (w *walker) renderCallout(node *ast.Blockquote) bool {
	first, ok := node.FirstChild().(*ast.Paragraph)
	if !ok {
		return false
	}
	marker, ok := first.FirstChild().(*ast.Text)
	if !ok {
		return false
	}
	label, ok := w.calloutLabel[marker]
	if !ok {
		return false
	}

	w.cur = append(w.cur, Span{Text: label, Kind: KindCallout, Style: Style{Bold: true}})
	w.flushCurrent()

	for c := marker.NextSibling(); c != nil; c = c.NextSibling() {
		w.walkInline(c, Style{})
	}
	if len(w.cur) > 0 {
		w.flushCurrent()
	}

	for c := node.FirstChild().NextSibling(); c != nil; c = c.NextSibling() {
		w.walkBlock(c)
	}
	return true
}

func (w *walker) segment(seg text.Segment) string {
	return string(seg.Value(w.source))
}

// walkBlock descends into block-level nodes.
func (w *walker) walkBlock(n ast.Node) {
	switch node := n.(type) {
	case *ast.Document:
		w.walkChildren(node)

	case *ast.Paragraph:
		w.walkInlineChildren(node)
		w.flushCurrent()

	case *ast.Heading:
		w.cur = append(w.cur, Span{Text: strings.Repeat("#", node.Level) + " ", Kind: KindText, Style: Style{Bold: true}})
		w.walkInlineChildrenStyled(node, Style{Bold: true})
		w.flushCurrent()

	case *ast.CodeBlock:
		w.walkCodeBlock(node, "")

	case *ast.FencedCodeBlock:
		lang := string(node.Language(w.source))
		w.walkCodeBlock(node, lang)

	case *ast.Blockquote:
		w.blockquoteDepth++
		if !w.renderCallout(node) {
			w.walkChildren(node)
		}
		w.blockquoteDepth--

	case *ast.List:
		w.walkList(node)

	case *ast.ThematicBreak:
		w.cur = append(w.cur, Span{Text: strings.Repeat("─", 40), Kind: KindText, Style: Style{FG: "muted"}})
		w.flushCurrent()

	case *east.Table:
		w.walkTable(node)

	case *east.TaskCheckBox:
		// handled inline within list items; no standalone block form

	default:
		w.walkChildren(node)
	}
}

func (w *walker) walkChildren(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.walkBlock(c)
	}
}

// walkCodeBlock emits one Line per source line of a code block, each tagged
// KindCodeBlock with a per-message BlockIndex (renumbered globally by
// internal/layout). Highlighting is applied per-line when enabled.
func (w *walker) walkCodeBlock(n ast.Node, lang string) {
	w.flushCurrent() // code blocks start on their own line

	idx := w.codeBlockIndex
	w.codeBlockIndex++

	var raw strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		raw.WriteString(w.segment(lines.At(i)))
	}
	content := raw.String()
	content = strings.TrimSuffix(content, "\n")

	codeLines := strings.Split(content, "\n")
	if content == "" {
		codeLines = nil
	}

	highlighted := [][]Span{}
	if w.opts.Highlight && lang != "" {
		highlighted = highlightCode(content, lang, w.opts.CodeTheme)
	}

	if len(codeLines) == 0 {
		// Empty fenced code blocks still get a navigable entry so
		// BlockSelect can reach them.
		w.lines = append(w.lines, Line{Spans: []Span{{
			Text: "", Kind: KindCodeBlock, Lang: lang, BlockIndex: idx,
		}}})
		return
	}

	for i, cl := range codeLines {
		var spans []Span
		if i < len(highlighted) {
			spans = highlighted[i]
		} else {
			spans = []Span{{Text: cl}}
		}
		for j := range spans {
			spans[j].Kind = KindCodeBlock
			spans[j].Lang = lang
			spans[j].BlockIndex = idx
		}
		w.lines = append(w.lines, Line{Spans: spans})
	}
}

// walkList iterates list items, inserting a blank display line before any
// item whose source was preceded by a blank line (source-preserving
// spacing). This is a single pass driven by blankBeforeListItem,
// precomputed once over the raw source.
func (w *walker) walkList(n *ast.List) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		if w.blankBeforeListItem[item] {
			w.emitBlank()
		}
		marker := "- "
		if n.IsOrdered() {
			marker = itoa(num) + ". "
			num++
		}
		w.cur = append(w.cur, Span{Text: marker})
		w.walkListItemBody(item)
	}
}

func (w *walker) walkListItemBody(item *ast.ListItem) {
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch body := c.(type) {
		case *ast.TextBlock:
			w.walkInlineChildren(body)
			w.flushCurrentContinuation(first)
		case *ast.Paragraph:
			w.walkInlineChildren(body)
			w.flushCurrentContinuation(first)
		case *ast.List:
			w.walkList(body)
		default:
			w.walkBlock(body)
		}
		first = false
	}
	if len(w.cur) > 0 {
		w.flushCurrent()
	}
}

// flushCurrentContinuation flushes the accumulated line; nested paragraphs
// after the first within a list item do not re-emit the marker.
func (w *walker) flushCurrentContinuation(_ bool) {
	w.flushCurrent()
}

func (w *walker) walkTable(n *east.Table) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			w.walkTableRow(row)
			w.cur = append(w.cur, Span{Text: strings.Repeat("-", 20), Style: Style{FG: "muted"}})
			w.flushCurrent()
		case *east.TableRow:
			w.walkTableRow(row)
		}
	}
}

func (w *walker) walkTableRow(n ast.Node) {
	first := true
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if cell, ok := c.(*east.TableCell); ok {
			if !first {
				w.cur = append(w.cur, Span{Text: " | "})
			}
			w.walkInlineChildren(cell)
			first = false
		}
	}
	w.flushCurrent()
}

func (w *walker) walkInlineChildren(n ast.Node) {
	w.walkInlineChildrenStyled(n, Style{})
}

func (w *walker) walkInlineChildrenStyled(n ast.Node, base Style) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.walkInline(c, base)
	}
}

func (w *walker) walkInline(n ast.Node, base Style) {
	switch node := n.(type) {
	case *ast.Text:
		txt := w.segment(node.Segment)
		w.cur = append(w.cur, Span{Text: applySubSup(txt), Style: base})
		if node.HardLineBreak() {
			w.flushCurrent()
		}

	case *ast.String:
		w.cur = append(w.cur, Span{Text: string(node.Value), Style: base})

	case *ast.CodeSpan:
		var sb strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(w.source))
			}
		}
		s := base
		s.FG = "code-span"
		w.cur = append(w.cur, Span{Text: sb.String(), Style: s})

	case *ast.Emphasis:
		s := base
		if node.Level >= 2 {
			s.Bold = true
		} else {
			s.Italic = true
		}
		w.walkInlineChildrenStyled(node, s)

	case *east.Strikethrough:
		s := base
		s.Strikethrough = true
		w.walkInlineChildrenStyled(node, s)

	case *ast.Link:
		w.walkInlineChildrenStyled(node, base)
		if len(w.cur) > 0 {
			w.cur[len(w.cur)-1].Kind = KindLink
			w.cur[len(w.cur)-1].URL = string(node.Destination)
		}

	case *ast.AutoLink:
		url := string(node.URL(w.source))
		w.cur = append(w.cur, Span{Text: url, Kind: KindLink, URL: url, Style: base})

	case *ast.Image:
		// Image ALT becomes a Link(image-url) span so the URL is reachable
		// via OSC 8.
		alt := extractText(node, w.source)
		w.cur = append(w.cur, Span{Text: alt, Kind: KindLink, URL: string(node.Destination), Style: base})

	case *ast.RawHTML:
		// Terminal output has no HTML sink; drop the markup, keep nothing.

	case *east.TaskCheckBox:
		box := "[ ] "
		if node.IsChecked {
			box = "[x] "
		}
		w.cur = append(w.cur, Span{Text: box, Style: base})

	default:
		w.walkInlineChildrenStyled(n, base)
	}
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// highlightCode tokenizes code via chroma and returns one []Span per
// source line, with colors resolved from the named chroma style.
func highlightCode(code, lang, themeName string) [][]Span {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(themeName)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil
	}

	var lines [][]Span
	var cur []Span
	for _, tok := range iterator.Tokens() {
		entry := style.Get(tok.Type)
		st := Style{
			Bold:      entry.Bold == chroma.Yes,
			Italic:    entry.Italic == chroma.Yes,
			Underline: entry.Underline == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			st.FG = "#" + entry.Colour.String()[1:]
		}
		parts := strings.Split(tok.Value, "\n")
		for i, p := range parts {
			if p != "" {
				cur = append(cur, Span{Text: p, Style: st})
			}
			if i < len(parts)-1 {
				lines = append(lines, cur)
				cur = nil
			}
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// applySubSup maps a small set of single-character superscript/subscript
// runs (`^2^`, `~2~`) to their Unicode equivalents where one exists;
// unmappable runs are left as literal text including the delimiters so
// ordinary uses of `~`/`^` (shell prompts, XOR) are not corrupted.
func applySubSup(s string) string {
	if !strings.ContainsAny(s, "^~") {
		return s
	}
	return replaceDelim(replaceDelim(s, '^', superscriptMap), '~', subscriptMap)
}

func replaceDelim(s string, delim byte, table map[rune]rune) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == delim {
			if j := strings.IndexByte(s[i+1:], delim); j >= 0 {
				inner := s[i+1 : i+1+j]
				if mapped, ok := mapAll(inner, table); ok {
					out.WriteString(mapped)
					i = i + 1 + j + 1
					continue
				}
			}
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

func mapAll(s string, table map[rune]rune) (string, bool) {
	var out strings.Builder
	for _, r := range s {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		out.WriteRune(m)
	}
	return out.String(), true
}

var superscriptMap = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾', 'n': 'ⁿ',
}

var subscriptMap = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
}
