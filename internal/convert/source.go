package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
)

// calloutMarker matches numbered callout markers inside code content.
var calloutMarker = regexp.MustCompile(`<(\d+)>`)

// sourcecode converts a source listing. Numbered callout markers in the code
// become callout elements referencing sequential annotation blocks; a count
// mismatch between markers and annotations is a reported warning, both sides
// rendered as-is.
func (c *Context) sourcecode(b *ast.Block) *doctree.Node {
	c.EnterLiteral()
	defer c.LeaveLiteral()
	c.ResetCallouts()

	n := doctree.NewElement("sourcecode")
	c.applyBlockAttrs(n, b)
	if lang := b.Attrs.Value("lang"); lang != "" {
		n.SetAttr("lang", lang)
	}
	c.name(n, b)

	text := strings.Join(b.Lines, "\n")
	callouts := c.appendCodeWithCallouts(n, text)

	annotations := 0
	for _, child := range b.Children {
		annotations++
		ann := doctree.Element("annotation", "id", calloutAnchor(annotations))
		p := doctree.NewElement("p")
		c.Inlines(p, child.Inlines)
		ann.AppendChild(p)
		n.AppendChild(ann)
	}

	if annotations != callouts && (annotations > 0 || callouts > 0) {
		c.Diag.WarnAt("block", b.Line,
			"callout mismatch: %d callouts, %d annotations", callouts, annotations)
	}
	return n
}

// appendCodeWithCallouts appends code text to n, splitting out callout
// markers as callout elements, and returns the marker count.
func (c *Context) appendCodeWithCallouts(n *doctree.Node, text string) int {
	count := 0
	for {
		loc := calloutMarker.FindStringSubmatchIndex(text)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			n.AppendText(text[:loc[0]])
		}
		num, _ := strconv.Atoi(text[loc[2]:loc[3]])
		count++
		callout := doctree.Element("callout", "target", calloutAnchor(num))
		callout.AppendText(strconv.Itoa(num))
		n.AppendChild(callout)
		text = text[loc[1]:]
	}
	if text != "" {
		n.AppendText(text)
	}
	return count
}

// pseudocode converts the constrained pseudocode sub-language: consecutive
// plain-text lines of one visual paragraph are joined with explicit
// line-break elements, while embedded block macros (a stem formula, say)
// pass through as structural children untransformed.
func (c *Context) pseudocode(b *ast.Block) *doctree.Node {
	c.EnterLiteral()
	defer c.LeaveLiteral()

	n := doctree.Element("figure", "class", "pseudocode")
	c.applyBlockAttrs(n, b)
	c.name(n, b)

	var para *doctree.Node
	flush := func() {
		if para != nil {
			n.AppendChild(para)
			para = nil
		}
	}

	for _, child := range b.Children {
		if child.Kind == ast.BlockParagraph && child.Style == "" {
			if para == nil {
				para = doctree.NewElement("p")
			} else {
				para.AppendChild(doctree.NewElement("br"))
			}
			c.Inlines(para, child.Inlines)
			continue
		}
		flush()
		if sub := c.Block(child); sub != nil {
			n.AppendChild(sub)
		}
	}
	flush()
	return n
}
