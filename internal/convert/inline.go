package convert

import (
	"strconv"
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/core/ident"
)

// Inline converts one inline AST node into a run of document-tree nodes.
// Most kinds map 1:1; composite macros (concept, footnote) expand to small
// subtrees.
func (c *Context) Inline(in *ast.Inline) []*doctree.Node {
	switch in.Kind {
	case ast.InlineText:
		return []*doctree.Node{doctree.NewText(in.Text)}

	case ast.InlineEmphasis:
		return []*doctree.Node{c.wrapInlines("em", in.Children)}

	case ast.InlineStrong:
		return []*doctree.Node{c.wrapInlines("strong", in.Children)}

	case ast.InlineSub:
		return []*doctree.Node{c.wrapInlines("sub", in.Children)}

	case ast.InlineSup:
		return []*doctree.Node{c.wrapInlines("sup", in.Children)}

	case ast.InlineMonospace:
		c.EnterLiteral()
		n := c.wrapInlines("tt", in.Children)
		c.LeaveLiteral()
		return []*doctree.Node{n}

	case ast.InlineQuoted:
		return c.quoted(in)

	case ast.InlineStem:
		return []*doctree.Node{c.stem(in)}

	case ast.InlineLink:
		link := doctree.Element("link", "target", in.Target)
		for _, child := range in.Children {
			for _, n := range c.Inline(child) {
				link.AppendChild(n)
			}
		}
		return []*doctree.Node{link}

	case ast.InlineFootnote:
		return []*doctree.Node{c.footnote(in)}

	case ast.InlineXref:
		return []*doctree.Node{c.xref(in)}

	case ast.InlineConcept:
		return []*doctree.Node{c.concept(in)}

	case ast.InlineOrigin:
		return []*doctree.Node{c.origin(in)}

	case ast.InlineInherit:
		// Extracted out of prose flow by the cleanup pass when inside a
		// requirement description.
		n := doctree.NewElement("inherit")
		n.AppendText(in.Text)
		return []*doctree.Node{n}

	case ast.InlineClassif:
		return c.classifications(in.Text)

	case ast.InlineCallout:
		num, _ := strconv.Atoi(in.Text)
		return []*doctree.Node{doctree.Element("callout", "target", calloutAnchor(num))}

	case ast.InlineBreak:
		return []*doctree.Node{doctree.NewElement("br")}

	default:
		c.Diag.Warn("inline", "unsupported inline kind %q dropped", in.Kind)
		return nil
	}
}

// Inlines converts a run of inline nodes and appends them to parent.
func (c *Context) Inlines(parent *doctree.Node, ins []*ast.Inline) {
	for _, in := range ins {
		for _, n := range c.Inline(in) {
			parent.AppendChild(n)
		}
	}
}

func (c *Context) wrapInlines(name string, children []*ast.Inline) *doctree.Node {
	n := doctree.NewElement(name)
	c.Inlines(n, children)
	return n
}

// quoted renders explicit quote markup. In no-transform regions the straight
// glyphs stay; elsewhere the locale's curly pair wraps the content directly.
func (c *Context) quoted(in *ast.Inline) []*doctree.Node {
	open, close := `"`, `"`
	if !c.InLiteral() && c.Opts.SmartQuotes {
		if in.QuoteType == "single" {
			open, close = c.Locale.OpenSingle, c.Locale.CloseSingle
		} else {
			open, close = c.Locale.OpenDouble, c.Locale.CloseDouble
		}
	} else if in.QuoteType == "single" {
		open, close = "'", "'"
	}
	out := []*doctree.Node{doctree.NewText(open)}
	for _, child := range in.Children {
		out = append(out, c.Inline(child)...)
	}
	return append(out, doctree.NewText(close))
}

// stem types math content by notation. AsciiMath is converted to MathML by
// the math collaborator unless the document keeps original notation;
// conversion failure is reported and the source retained.
func (c *Context) stem(in *ast.Inline) *doctree.Node {
	notation := in.Notation
	if notation == "" {
		notation = ast.NotationAsciiMath
	}

	switch notation {
	case ast.NotationMathML:
		stem := doctree.Element("stem", "type", "MathML")
		stem.AppendChild(doctree.NewRaw(in.Text))
		return stem

	case ast.NotationLaTeX:
		out, err := c.Math.LaTeXToMathML(in.Text)
		if err != nil {
			c.Diag.Warn("inline", "latex conversion failed: %v", err)
			stem := doctree.Element("stem", "type", "LatexMath")
			stem.AppendText(in.Text)
			return stem
		}
		stem := doctree.Element("stem", "type", "MathML")
		stem.AppendChild(doctree.NewRaw(out))
		return stem

	default: // AsciiMath
		if c.Opts.KeepAsciiMath {
			stem := doctree.Element("stem", "type", "AsciiMath")
			stem.AppendText(in.Text)
			return stem
		}
		out, err := c.Math.AsciiMathToMathML(in.Text)
		if err != nil {
			c.Diag.Warn("inline", "asciimath conversion failed: %v", err)
			stem := doctree.Element("stem", "type", "AsciiMath")
			stem.AppendText(in.Text)
			return stem
		}
		stem := doctree.Element("stem", "type", "MathML")
		stem.AppendChild(doctree.NewRaw(out))
		return stem
	}
}

// footnote assigns the body its reference number (content-deduplicated,
// except link-only bodies which always count as distinct) and emits the fn
// element. Numbers assigned here are provisional; the cleanup pass renumbers
// all footnotes in document order.
func (c *Context) footnote(in *ast.Inline) *doctree.Node {
	body := doctree.NewElement("p")
	c.Inlines(body, in.Children)

	key := ident.ContentKey(body.String())
	num := c.FootnoteNumber(key, linkOnly(in.Children))

	fn := doctree.Element("fn", "reference", strconv.Itoa(num))
	fn.AppendChild(body)
	return fn
}

// linkOnly reports whether a footnote body consists solely of link markup
// (whitespace-only text aside).
func linkOnly(ins []*ast.Inline) bool {
	seen := false
	for _, in := range ins {
		switch in.Kind {
		case ast.InlineLink:
			seen = true
		case ast.InlineText:
			if strings.TrimSpace(in.Text) != "" {
				return false
			}
		default:
			return false
		}
	}
	return seen
}

// xref converts a cross-reference macro. A locality-bearing second argument
// becomes a localityStack subtree; plain text becomes display content.
// Targets pointing into another document fragment keep the combined
// doc#fragment form.
func (c *Context) xref(in *ast.Inline) *doctree.Node {
	n := doctree.Element("xref", "target", in.Target)

	arg := in.Text
	if arg != "" && looksLikeLocality(arg) {
		stacks, err := ParseLocalities(arg)
		if err != nil {
			c.Diag.Warn("inline", "bad locality in reference to %s: %v", in.Target, err)
			n.AppendText(arg)
			return n
		}
		appendLocalityStacks(n, stacks)
		return n
	}
	if arg != "" {
		n.AppendText(arg)
	}
	c.Inlines(n, in.Children)
	return n
}

// looksLikeLocality distinguishes a locality argument from plain display
// text: the opening segment must be key=value or a bare "whole".
func looksLikeLocality(s string) bool {
	first := s
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		first = s[:i]
	}
	if strings.Contains(first, "=") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(first), "whole")
}

// appendLocalityStacks emits localityStack/locality subtrees in macro order.
func appendLocalityStacks(parent *doctree.Node, stacks []LocalityStack) {
	for _, stack := range stacks {
		ls := doctree.NewElement("localityStack")
		for _, loc := range stack {
			l := doctree.Element("locality", "type", loc.Type)
			if loc.From != "" {
				from := doctree.NewElement("referenceFrom")
				from.AppendText(loc.From)
				l.AppendChild(from)
			}
			if loc.To != "" {
				to := doctree.NewElement("referenceTo")
				to.AppendText(loc.To)
				l.AppendChild(to)
			}
			if loc.Text != "" {
				l.SetAttr("text", loc.Text)
			}
			ls.AppendChild(l)
		}
		parent.AppendChild(ls)
	}
}

// concept converts term-reference sugar: a plain cross-reference, an
// external termbase reference (base:target), or a locality-bearing
// reference, optionally with a replacement term for rendering.
func (c *Context) concept(in *ast.Inline) *doctree.Node {
	n := doctree.NewElement("concept")

	if term := in.Attrs.Value("term"); term != "" {
		refterm := doctree.NewElement("refterm")
		refterm.AppendText(term)
		n.AppendChild(refterm)
	}
	if render := in.Attrs.Value("render"); render != "" {
		renderterm := doctree.NewElement("renderterm")
		renderterm.AppendText(render)
		n.AppendChild(renderterm)
	}

	if base, target, ok := strings.Cut(in.Target, ":"); ok && !strings.Contains(base, "#") {
		// External termbase reference.
		n.AppendChild(doctree.Element("termref", "base", base, "target", target))
		return n
	}

	ref := c.xref(&ast.Inline{Kind: ast.InlineXref, Target: in.Target, Text: in.Text})
	n.AppendChild(ref)
	return n
}

// origin converts a term-source citation pointer. The refs pass resolves the
// bibitemid and fills citeas.
func (c *Context) origin(in *ast.Inline) *doctree.Node {
	n := doctree.Element("origin", "bibitemid", in.Target, "citeas", "")
	if in.Text != "" {
		stacks, err := ParseLocalities(in.Text)
		if err != nil {
			c.Diag.Warn("inline", "bad locality in term source %s: %v", in.Target, err)
		} else {
			appendLocalityStacks(n, stacks)
		}
	}
	return n
}

// classifications splits a semicolon-delimited tag:value classification
// string into repeated classification elements.
func (c *Context) classifications(s string) []*doctree.Node {
	var out []*doctree.Node
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cl := doctree.NewElement("classification")
		tag, value, ok := strings.Cut(part, ":")
		if ok {
			t := doctree.NewElement("tag")
			t.AppendText(strings.TrimSpace(tag))
			v := doctree.NewElement("value")
			v.AppendText(strings.TrimSpace(value))
			cl.AppendChild(t)
			cl.AppendChild(v)
		} else {
			t := doctree.NewElement("tag")
			t.AppendText(part)
			cl.AppendChild(t)
		}
		out = append(out, cl)
	}
	return out
}

func calloutAnchor(num int) string {
	return "_callout_" + strconv.Itoa(num)
}
