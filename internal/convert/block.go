package convert

import (
	"strconv"
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
)

// keys consumed by the converter itself; everything else in a block's
// attribute bag passes through verbatim to the output element.
var internalAttrKeys = map[string]bool{
	"style":      true,
	"heading":    true,
	"level":      true,
	"source":     true,
	"type":       true,
	"lang":       true,
	"headerrows": true,
}

// Block converts one block AST node into a block subtree, delegating inline
// content to the inline converter.
func (c *Context) Block(b *ast.Block) *doctree.Node {
	switch b.Kind {
	case ast.BlockParagraph:
		return c.paragraph(b)
	case ast.BlockAdmonition:
		return c.admonition(b)
	case ast.BlockExample:
		return c.example(b)
	case ast.BlockQuote:
		return c.quote(b)
	case ast.BlockSource:
		return c.sourcecode(b)
	case ast.BlockPseudocode:
		return c.pseudocode(b)
	case ast.BlockLiteral:
		return c.literal(b)
	case ast.BlockTable:
		return c.table(b)
	case ast.BlockFigure, ast.BlockImage:
		return c.figure(b)
	case ast.BlockFormula:
		return c.formula(b)
	case ast.BlockUList, ast.BlockOList:
		return c.list(b)
	case ast.BlockDList:
		return c.dlist(b)
	case ast.BlockOpen:
		return c.open(b)
	default:
		c.Diag.WarnAt("block", b.Line, "unsupported block kind %q dropped", b.Kind)
		return nil
	}
}

// Blocks converts a run of blocks and appends the results to parent.
func (c *Context) Blocks(parent *doctree.Node, blocks []*ast.Block) {
	for _, b := range blocks {
		if n := c.Block(b); n != nil {
			parent.AppendChild(n)
		}
	}
}

// SourceLineAttr carries the source line of an author-supplied anchor
// through to cleanup, which reports duplicates against it and strips it.
const SourceLineAttr = "source-line"

// applyBlockAttrs copies the anchor and the declared option bag onto the
// output element. Numbering intent (unnumbered, subsequence, number) passes
// through for the downstream renderer; unrecognized keys pass verbatim.
func (c *Context) applyBlockAttrs(n *doctree.Node, b *ast.Block) {
	if b.Anchor != "" {
		n.SetID(b.Anchor)
		if b.Line > 0 {
			n.SetAttr(SourceLineAttr, strconv.Itoa(b.Line))
		}
	}
	for _, kv := range b.Attrs {
		if internalAttrKeys[kv.Key] {
			continue
		}
		v := kv.Value
		if v == "" {
			v = "true"
		}
		n.SetAttr(kv.Key, v)
	}
}

// name converts a block title into a name child, converting any trailing
// footnote macro rather than dropping it.
func (c *Context) name(n *doctree.Node, b *ast.Block) {
	if len(b.Title) == 0 {
		return
	}
	name := doctree.NewElement("name")
	c.Inlines(name, b.Title)
	n.AppendChild(name)
}

func (c *Context) paragraph(b *ast.Block) *doctree.Node {
	if b.Style == "source" {
		return c.termsource(b)
	}
	if strings.EqualFold(b.Style, "NOTE") {
		return c.note(b)
	}
	p := doctree.NewElement("p")
	c.applyBlockAttrs(p, b)
	c.Inlines(p, b.Inlines)
	return p
}

// note emits note or termnote depending on the enclosing clause.
func (c *Context) note(b *ast.Block) *doctree.Node {
	name := "note"
	if c.InTermsClause() {
		name = "termnote"
	}
	n := doctree.NewElement(name)
	c.applyBlockAttrs(n, b)
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}

// builtinAdmonitions are the admonition names the markup declares directly.
var builtinAdmonitions = map[string]bool{
	"note": true, "tip": true, "warning": true, "caution": true, "important": true,
}

// admonition emits the admonition container. NOTE is structurally identical
// but becomes its own element; arbitrary custom types arrive via type=.
func (c *Context) admonition(b *ast.Block) *doctree.Node {
	style := strings.ToLower(b.Style)
	if style == "note" {
		return c.note(b)
	}

	typ := style
	if v, ok := b.Attrs.Get("type"); ok && v != "" {
		typ = strings.ToLower(v)
	}
	if typ != "" && !builtinAdmonitions[typ] {
		// Custom types are legal; normalized to lower-case like the rest.
		typ = strings.ToLower(typ)
	}

	n := doctree.Element("admonition", "type", typ)
	c.applyBlockAttrs(n, b)
	c.name(n, b)
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}

// example emits example or termexample depending on the enclosing clause;
// requirement-class examples become requirement containers instead.
func (c *Context) example(b *ast.Block) *doctree.Node {
	switch strings.ToLower(b.Style) {
	case "requirement", "recommendation", "permission":
		return c.requirement(b)
	}

	name := "example"
	if c.InTermsClause() {
		name = "termexample"
	}
	n := doctree.NewElement(name)
	c.applyBlockAttrs(n, b)
	c.name(n, b)
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}

func (c *Context) quote(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("quote")
	c.applyBlockAttrs(n, b)
	if attribution := b.Attrs.Value("attribution"); attribution != "" {
		n.RemoveAttr("attribution")
		src := doctree.NewElement("source")
		src.AppendText(attribution)
		n.AppendChild(src)
	}
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}

func (c *Context) literal(b *ast.Block) *doctree.Node {
	c.EnterLiteral()
	defer c.LeaveLiteral()
	n := doctree.NewElement("pre")
	c.applyBlockAttrs(n, b)
	n.AppendText(strings.Join(b.Lines, "\n"))
	return n
}

func (c *Context) formula(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("formula")
	c.applyBlockAttrs(n, b)
	stem := c.stem(&ast.Inline{
		Kind:     ast.InlineStem,
		Text:     strings.Join(b.Lines, "\n"),
		Notation: b.Attrs.Value("notation"),
	})
	n.AppendChild(stem)
	return n
}

func (c *Context) list(b *ast.Block) *doctree.Node {
	name := "ul"
	if b.Kind == ast.BlockOList {
		name = "ol"
	}
	n := doctree.NewElement(name)
	c.applyBlockAttrs(n, b)
	if name == "ol" {
		if typ := b.Attrs.Value("numeration"); typ != "" {
			n.SetAttr("type", typ)
		} else {
			n.SetAttr("type", "arabic")
		}
	}
	for _, item := range b.Children {
		li := doctree.NewElement("li")
		if len(item.Inlines) > 0 {
			p := doctree.NewElement("p")
			c.Inlines(p, item.Inlines)
			li.AppendChild(p)
		}
		c.Blocks(li, item.Children)
		n.AppendChild(li)
	}
	return n
}

func (c *Context) dlist(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("dl")
	c.applyBlockAttrs(n, b)
	for _, e := range b.Entries {
		for _, term := range e.Terms {
			dt := doctree.NewElement("dt")
			c.Inlines(dt, term)
			n.AppendChild(dt)
		}
		dd := doctree.NewElement("dd")
		for _, db := range e.Definition {
			if child := c.Block(db); child != nil {
				dd.AppendChild(child)
			}
		}
		n.AppendChild(dd)
	}
	return n
}

func (c *Context) open(b *ast.Block) *doctree.Node {
	// Transparent container: children flow into an anonymous div.
	n := doctree.NewElement("div")
	c.applyBlockAttrs(n, b)
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}

// termsource converts a [.source] paragraph within a term entry. Trailing
// free text after the citation classifies the source as modified, captured
// into a modification child.
func (c *Context) termsource(b *ast.Block) *doctree.Node {
	n := doctree.Element("termsource", "status", "identical")

	var trailing []*ast.Inline
	for _, in := range b.Inlines {
		if in.Kind == ast.InlineOrigin && n.FirstElement("origin") == nil {
			n.AppendChild(c.origin(in))
			continue
		}
		trailing = append(trailing, in)
	}

	if hasContent(trailing) {
		n.SetAttr("status", "modified")
		mod := doctree.NewElement("modification")
		p := doctree.NewElement("p")
		c.Inlines(p, trimLeadingSeparators(trailing))
		mod.AppendChild(p)
		n.AppendChild(mod)
	}
	if n.FirstElement("origin") == nil {
		c.Diag.WarnAt("block", b.Line, "term source without citation")
	}
	return n
}

func hasContent(ins []*ast.Inline) bool {
	for _, in := range ins {
		if in.Kind == ast.InlineText {
			if strings.TrimSpace(strings.TrimLeft(in.Text, ",– -—")) != "" {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// trimLeadingSeparators drops the comma/dash separator between the citation
// and its modification text.
func trimLeadingSeparators(ins []*ast.Inline) []*ast.Inline {
	if len(ins) == 0 {
		return ins
	}
	if ins[0].Kind == ast.InlineText {
		trimmed := strings.TrimLeft(ins[0].Text, ",– -—")
		if trimmed == "" {
			return trimLeadingSeparators(ins[1:])
		}
		cp := *ins[0]
		cp.Text = trimmed
		return append([]*ast.Inline{&cp}, ins[1:]...)
	}
	return ins
}

const defaultImageMIME = "image/*"

// figure handles figures, nested sub-figures, and footnote-bearing titles.
func (c *Context) figure(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("figure")
	c.applyBlockAttrs(n, b)
	c.name(n, b)

	if b.Kind == ast.BlockImage || b.Attrs.Has("src") {
		src := b.Attrs.Value("src")
		mime := b.Attrs.Value("mimetype")
		if mime == "" {
			mime = defaultImageMIME
		}
		img := doctree.Element("image", "src", src, "mimetype", mime)
		if alt := b.Attrs.Value("alt"); alt != "" {
			img.SetAttr("alt", alt)
		}
		// src arrived via the attribute bag; keep it off the figure element.
		n.RemoveAttr("src")
		n.RemoveAttr("mimetype")
		n.RemoveAttr("alt")
		n.AppendChild(img)
	}

	for _, child := range b.Children {
		if child.Kind == ast.BlockFigure || child.Kind == ast.BlockImage {
			// Nested sub-figure.
			n.AppendChild(c.figure(child))
			continue
		}
		if sub := c.Block(child); sub != nil {
			n.AppendChild(sub)
		}
	}
	return n
}

// table converts a table block. Header-row count comes from headerrows=N;
// absent, the parser marks the visually separated first row's cells as
// header cells and exactly that row goes to thead.
func (c *Context) table(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("table")
	c.applyBlockAttrs(n, b)
	c.name(n, b)

	headerRows := 0
	if v, ok := b.Attrs.Get("headerrows"); ok {
		hr, err := strconv.Atoi(v)
		if err != nil || hr < 0 {
			c.Diag.WarnAt("block", b.Line, "invalid headerrows value %q", v)
		} else {
			headerRows = hr
		}
	} else if len(b.Rows) > 0 && rowIsHeader(b.Rows[0]) {
		headerRows = 1
	}
	if headerRows > len(b.Rows) {
		headerRows = len(b.Rows)
	}

	if headerRows > 0 {
		thead := doctree.NewElement("thead")
		for _, row := range b.Rows[:headerRows] {
			thead.AppendChild(c.tableRow(row, true))
		}
		n.AppendChild(thead)
	}
	tbody := doctree.NewElement("tbody")
	for _, row := range b.Rows[headerRows:] {
		tbody.AppendChild(c.tableRow(row, false))
	}
	n.AppendChild(tbody)
	return n
}

func rowIsHeader(row *ast.TableRow) bool {
	if len(row.Cells) == 0 {
		return false
	}
	for _, cell := range row.Cells {
		if !cell.Header {
			return false
		}
	}
	return true
}

func (c *Context) tableRow(row *ast.TableRow, header bool) *doctree.Node {
	tr := doctree.NewElement("tr")
	for _, cell := range row.Cells {
		name := "td"
		if header || cell.Header {
			name = "th"
		}
		td := doctree.NewElement(name)
		if cell.Align != "" {
			td.SetAttr("align", cell.Align)
		}
		if cell.ColSpan > 1 {
			td.SetAttr("colspan", strconv.Itoa(cell.ColSpan))
		}
		if cell.RowSpan > 1 {
			td.SetAttr("rowspan", strconv.Itoa(cell.RowSpan))
		}
		c.Inlines(td, cell.Inlines)
		tr.AppendChild(td)
	}
	return tr
}
