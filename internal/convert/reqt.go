package convert

import (
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
)

// reqtComponents maps sub-block marker classes to their typed child element.
var reqtComponents = map[string]string{
	"specification":      "specification",
	"measurement-target": "measurement-target",
	"verification":       "verification",
	"import":             "import",
}

// requirement converts the three-variant requirement/recommendation/
// permission container. classification and inherit pseudo-macros inside the
// body are extracted out of prose flow into dedicated siblings positioned
// before the description content, in source order; attribute-declared
// inherits precede body-declared ones.
func (c *Context) requirement(b *ast.Block) *doctree.Node {
	n := doctree.NewElement(strings.ToLower(b.Style))
	c.applyBlockAttrs(n, b)
	n.RemoveAttr("label")
	n.RemoveAttr("inherit")
	c.name(n, b)

	if label := b.Attrs.Value("label"); label != "" {
		l := doctree.NewElement("label")
		l.AppendText(label)
		n.AppendChild(l)
	}

	var inherits, classifications []*doctree.Node
	for _, v := range strings.Split(b.Attrs.Value("inherit"), ";") {
		if v = strings.TrimSpace(v); v != "" {
			inh := doctree.NewElement("inherit")
			inh.AppendText(v)
			inherits = append(inherits, inh)
		}
	}

	var body []*doctree.Node
	for _, child := range b.Children {
		if comp, ok := reqtComponents[strings.ToLower(child.Style)]; ok {
			body = append(body, c.reqtComponent(comp, child))
			continue
		}
		if child.Kind == ast.BlockParagraph {
			para, extractedInh, extractedCl := c.reqtParagraph(child)
			inherits = append(inherits, extractedInh...)
			classifications = append(classifications, extractedCl...)
			if para != nil {
				body = append(body, para)
			}
			continue
		}
		if sub := c.Block(child); sub != nil {
			body = append(body, sub)
		}
	}

	for _, inh := range inherits {
		n.AppendChild(inh)
	}
	for _, cl := range classifications {
		n.AppendChild(cl)
	}

	// Prose and payload blocks live inside description; typed components
	// stay siblings, in source order.
	var desc *doctree.Node
	flushDesc := func() { desc = nil }
	for _, node := range body {
		if _, typed := reqtComponents[node.Name]; typed {
			flushDesc()
			n.AppendChild(node)
			continue
		}
		if desc == nil {
			desc = doctree.NewElement("description")
			n.AppendChild(desc)
		}
		desc.AppendChild(node)
	}
	return n
}

// reqtParagraph converts a requirement body paragraph, pulling leading
// inherit/classification pseudo-macros out of the prose flow. Returns nil
// for a paragraph wholly consumed by extraction.
func (c *Context) reqtParagraph(b *ast.Block) (para *doctree.Node, inherits, classifications []*doctree.Node) {
	var rest []*ast.Inline
	for _, in := range b.Inlines {
		switch in.Kind {
		case ast.InlineInherit:
			inh := doctree.NewElement("inherit")
			inh.AppendText(in.Text)
			inherits = append(inherits, inh)
		case ast.InlineClassif:
			classifications = append(classifications, c.classifications(in.Text)...)
		default:
			rest = append(rest, in)
		}
	}
	if !hasContent(rest) {
		return nil, inherits, classifications
	}
	p := doctree.NewElement("p")
	c.applyBlockAttrs(p, b)
	c.Inlines(p, rest)
	return p, inherits, classifications
}

// reqtComponent converts a typed requirement sub-section. The exclude flag
// derives from the %exclude option; a lone table or sourcecode child is the
// component's payload, anything else renders as prose.
func (c *Context) reqtComponent(name string, b *ast.Block) *doctree.Node {
	n := doctree.NewElement(name)
	exclude := "false"
	if b.Attrs.Bool("exclude") {
		exclude = "true"
	}
	n.SetAttr("exclude", exclude)
	if typ := b.Attrs.Value("type"); typ != "" {
		n.SetAttr("type", typ)
	}

	if len(b.Children) == 1 && (b.Children[0].Kind == ast.BlockTable || b.Children[0].Kind == ast.BlockSource) {
		if payload := c.Block(b.Children[0]); payload != nil {
			n.AppendChild(payload)
		}
		return n
	}
	if len(b.Inlines) > 0 {
		p := doctree.NewElement("p")
		c.Inlines(p, b.Inlines)
		n.AppendChild(p)
	}
	c.Blocks(n, b.Children)
	return n
}
