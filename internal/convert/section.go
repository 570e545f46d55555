package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/i18n"
)

// Skeleton is the classified structural frame of a document: the preface
// parts, the body clauses, the annexes, and the references containers, each
// in source order.
type Skeleton struct {
	Preface      []*doctree.Node
	Sections     []*doctree.Node
	Annexes      []*doctree.Node
	Bibliography []*doctree.Node
}

// Obligation constants.
const (
	obligationNormative   = "normative"
	obligationInformative = "informative"
)

// Roots returns the skeleton's top-level nodes in assembled document order:
// preface, sections, annexes, then bibliography. Whole-tree passes walk
// these so cross-part numbering follows reading order.
func (sk *Skeleton) Roots() []*doctree.Node {
	var out []*doctree.Node
	out = append(out, sk.Preface...)
	out = append(out, sk.Sections...)
	out = append(out, sk.Annexes...)
	out = append(out, sk.Bibliography...)
	return out
}

// ClassifySections maps the document's heading-bearing blocks into the
// structural skeleton. Transitions are driven by depth-1 markers combined
// with declared role attributes; title text matching is locale-aware and
// always overridden by an explicit heading= attribute.
func (c *Context) ClassifySections(doc *ast.Document) *Skeleton {
	sk := &Skeleton{}
	seenScope := false
	var preamble []*ast.Block

	for _, b := range doc.Blocks {
		if b.Kind != ast.BlockHeading {
			// Loose blocks before the first heading form the foreword.
			preamble = append(preamble, b)
			continue
		}

		role := c.headingRole(b)
		switch {
		case b.Style == "appendix":
			sk.Annexes = append(sk.Annexes, c.annex(b))

		case b.Style == "bibliography" || role == i18n.RoleBibliography:
			sk.Bibliography = append(sk.Bibliography, c.references(b, false))

		case role == i18n.RoleNormativeRefs:
			sk.Bibliography = append(sk.Bibliography, c.references(b, true))

		case b.Style == "abstract" || role == i18n.RoleAbstract:
			sk.Preface = append(sk.Preface, c.prefaceSection(b, "abstract"))

		case !seenScope && role == i18n.RoleForeword:
			sk.Preface = append(sk.Preface, c.prefaceSection(b, "foreword"))

		case !seenScope && role == i18n.RoleIntroduction:
			sk.Preface = append(sk.Preface, c.prefaceSection(b, "introduction"))

		case role == i18n.RoleAcknowledgements:
			sk.Preface = append(sk.Preface, c.prefaceSection(b, "acknowledgements"))

		case role == i18n.RoleTerms:
			sk.Sections = append(sk.Sections, c.termsClause(b, 1))

		case role == i18n.RoleSymbols:
			sk.Sections = append(sk.Sections, c.definitions(b, "symbols"))

		case role == i18n.RoleAbbreviations:
			sk.Sections = append(sk.Sections, c.definitions(b, "abbreviated_terms"))

		case role == i18n.RoleSymbolsAbbrev:
			sk.Sections = append(sk.Sections, c.definitions(b, ""))

		default:
			if role == i18n.RoleScope {
				seenScope = true
			}
			n := c.clause(b, 1, obligationNormative)
			if role == i18n.RoleScope {
				n.SetAttr("type", "scope")
			}
			sk.Sections = append(sk.Sections, n)
		}
	}

	if len(preamble) > 0 {
		fw := c.findOrMakePreface(sk, "foreword")
		for _, b := range preamble {
			if n := c.Block(b); n != nil {
				fw.AppendChild(n)
			}
		}
	}
	return sk
}

// headingRole resolves the canonical role of a heading: the explicit
// heading= override wins over locale title matching.
func (c *Context) headingRole(b *ast.Block) i18n.SectionRole {
	if override, ok := b.Attrs.Get("heading"); ok {
		return i18n.For("en").TitleRole(override)
	}
	return c.Locale.TitleRole(b.TitleText())
}

func (c *Context) findOrMakePreface(sk *Skeleton, name string) *doctree.Node {
	for _, n := range sk.Preface {
		if n.Name == name {
			return n
		}
	}
	n := doctree.NewElement(name)
	title := doctree.NewElement("title")
	title.AppendText(strings.Title(name)) //nolint:staticcheck // single ASCII word
	n.AppendChild(title)
	// Foreword inserts at the front, the rest append.
	if name == "foreword" {
		sk.Preface = append([]*doctree.Node{n}, sk.Preface...)
	} else {
		sk.Preface = append(sk.Preface, n)
	}
	return n
}

// prefaceSection converts a preface clause. Preface obligation defaults to
// informative.
func (c *Context) prefaceSection(b *ast.Block, name string) *doctree.Node {
	frame := c.pushSection()
	defer c.popSection(frame)
	c.sections.obligation = obligationInformative

	n := doctree.NewElement(name)
	c.applyBlockAttrs(n, b)
	c.title(n, b)
	c.clauseChildren(n, b, 1, obligationInformative)
	return n
}

// title appends the clause title element.
func (c *Context) title(n *doctree.Node, b *ast.Block) {
	if len(b.Title) == 0 {
		return
	}
	t := doctree.NewElement("title")
	c.Inlines(t, b.Title)
	n.AppendChild(t)
}

// effectiveLevel is the heading's nesting depth: the native depth, extended
// by an explicit level=N attribute for nesting beyond the markup's five
// heading levels.
func effectiveLevel(b *ast.Block, depth int) int {
	if v, ok := b.Attrs.Get("level"); ok {
		if lvl, err := strconv.Atoi(v); err == nil && lvl > 0 {
			return lvl
		}
	}
	if b.Level > 0 {
		return b.Level
	}
	return depth
}

// clause converts a generic clause and its subtree.
func (c *Context) clause(b *ast.Block, depth int, defaultObligation string) *doctree.Node {
	n := doctree.NewElement("clause")
	c.applyBlockAttrs(n, b)
	c.setObligation(n, b, defaultObligation)
	c.title(n, b)
	c.clauseChildren(n, b, depth, n.AttrValue("obligation"))
	return n
}

// setObligation applies the clause obligation: explicit attribute, else the
// inherited default.
func (c *Context) setObligation(n *doctree.Node, b *ast.Block, def string) {
	obligation := def
	if v, ok := b.Attrs.Get("obligation"); ok && v != "" {
		obligation = v
	}
	n.SetAttr("obligation", obligation)
}

// clauseChildren converts a clause's children: content blocks through the
// block converter, subheadings into nested clauses. Siblings at the same
// explicit level nest under the nearest preceding lower-level heading.
func (c *Context) clauseChildren(n *doctree.Node, b *ast.Block, depth int, obligation string) {
	type openClause struct {
		level int
		node  *doctree.Node
	}
	// stack[0] is the clause under construction itself.
	stack := []openClause{{level: effectiveLevel(b, depth), node: n}}

	for _, child := range b.Children {
		if child.Kind != ast.BlockHeading {
			if converted := c.Block(child); converted != nil {
				stack[len(stack)-1].node.AppendChild(converted)
			}
			continue
		}

		level := effectiveLevel(child, depth+1)
		// Pop to the nearest open clause with a strictly lower level.
		for len(stack) > 1 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		sub := c.subClause(child, depth+1, obligation)
		parent.AppendChild(sub)
		stack = append(stack, openClause{level: level, node: sub})
	}
}

// subClause converts a nested heading inside a generic clause, recognizing
// terms/definitions/bibliography subclauses by role.
func (c *Context) subClause(b *ast.Block, depth int, obligation string) *doctree.Node {
	switch c.headingRole(b) {
	case i18n.RoleTerms:
		return c.termsClause(b, depth)
	case i18n.RoleSymbols:
		return c.definitions(b, "symbols")
	case i18n.RoleAbbreviations:
		return c.definitions(b, "abbreviated_terms")
	case i18n.RoleSymbolsAbbrev:
		return c.definitions(b, "")
	case i18n.RoleBibliography:
		return c.references(b, false)
	}
	return c.clause(b, depth, obligation)
}

// annex converts an [appendix]-role heading into a top-level annex.
func (c *Context) annex(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("annex")
	c.applyBlockAttrs(n, b)
	c.setObligation(n, b, obligationNormative)
	c.title(n, b)
	c.clauseChildren(n, b, 1, n.AttrValue("obligation"))
	return n
}

// references converts a bibliography-role heading into a references
// container. Nested [bibliography] subclauses become titled reference
// sub-lists under a wrapping clause.
func (c *Context) references(b *ast.Block, normative bool) *doctree.Node {
	var nested []*ast.Block
	for _, child := range b.Children {
		if child.Kind == ast.BlockHeading && child.Style == "bibliography" {
			nested = append(nested, child)
		}
	}

	if len(nested) > 0 && !normative {
		wrap := doctree.NewElement("clause")
		c.applyBlockAttrs(wrap, b)
		wrap.SetAttr("obligation", obligationInformative)
		c.title(wrap, b)
		for _, child := range b.Children {
			if child.Kind == ast.BlockHeading && child.Style == "bibliography" {
				wrap.AppendChild(c.referencesList(child, false))
			} else if n := c.Block(child); n != nil {
				wrap.AppendChild(n)
			}
		}
		return wrap
	}
	return c.referencesList(b, normative)
}

func (c *Context) referencesList(b *ast.Block, normative bool) *doctree.Node {
	n := doctree.NewElement("references")
	c.applyBlockAttrs(n, b)
	n.SetAttr("normative", strconv.FormatBool(normative))
	n.SetAttr("obligation", obligationInformative)
	if normative {
		n.SetAttr("type", "normative")
	}
	c.title(n, b)

	for _, child := range b.Children {
		switch child.Kind {
		case ast.BlockBibEntry:
			n.AppendChild(c.bibItem(child))
		case ast.BlockUList:
			// Reference lists may arrive as a list of entries.
			for _, item := range child.Children {
				for _, sub := range item.Children {
					if sub.Kind == ast.BlockBibEntry {
						n.AppendChild(c.bibItem(sub))
					}
				}
			}
		default:
			if converted := c.Block(child); converted != nil {
				n.AppendChild(converted)
			}
		}
	}
	return n
}

// bibItem converts one bibliography entry anchor into a provisional bibitem.
// The refs pass fetches metadata, renumbers, and strips working attributes.
func (c *Context) bibItem(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("bibitem")
	if b.Anchor != "" {
		n.SetID(b.Anchor)
		if b.Line > 0 {
			n.SetAttr(SourceLineAttr, strconv.Itoa(b.Line))
		}
	} else {
		c.Diag.WarnAt("section", b.Line, "bibliography entry without anchor")
	}

	code := b.Attrs.Value("code")
	if strings.HasPrefix(code, "nofetch(") && strings.HasSuffix(code, ")") {
		code = strings.TrimSuffix(strings.TrimPrefix(code, "nofetch("), ")")
		n.SetAttr("nofetch", "true")
	}

	if len(b.Inlines) > 0 {
		ref := doctree.Element("formattedref", "format", "application/x-isodoc+xml")
		c.Inlines(ref, b.Inlines)
		n.AppendChild(ref)
	}
	if code != "" {
		docid := doctree.NewElement("docidentifier")
		docid.AppendText(code)
		n.AppendChild(docid)
	}
	return n
}

// termsClause converts a Terms and Definitions clause. Direct NOTE/EXAMPLE
// children, and those of non-terminal terms subclauses, become
// termnote/termexample; .nonterm subclauses and terminal reserved-title
// subclauses revert to plain containers.
func (c *Context) termsClause(b *ast.Block, depth int) *doctree.Node {
	nested := c.sections.inTerms
	frame := c.pushSection()
	defer c.popSection(frame)
	c.sections.inTerms = true
	c.sections.inNonterm = false

	n := doctree.NewElement("terms")
	c.applyBlockAttrs(n, b)
	c.setObligation(n, b, obligationNormative)
	c.title(n, b)

	termCount := 0
	hasSymbols, hasAbbrev := false, false

	for _, child := range b.Children {
		if child.Kind != ast.BlockHeading {
			if converted := c.Block(child); converted != nil {
				n.AppendChild(converted)
			}
			continue
		}

		switch {
		case child.Style == "nonterm":
			n.AppendChild(c.nontermClause(child, depth+1))

		case c.headingRole(child) == i18n.RoleSymbols:
			hasSymbols = true
			n.AppendChild(c.definitions(child, "symbols"))

		case c.headingRole(child) == i18n.RoleAbbreviations:
			hasAbbrev = true
			n.AppendChild(c.definitions(child, "abbreviated_terms"))

		case c.headingRole(child) == i18n.RoleSymbolsAbbrev:
			hasSymbols, hasAbbrev = true, true
			n.AppendChild(c.definitions(child, ""))

		case c.headingRole(child) != i18n.RoleNone:
			// Reserved title with no term entries of its own: a terminal
			// subclause reverts to a plain container.
			if containsHeadings(child) {
				sub := c.termsClause(child, depth+1)
				termCount += countTerms(sub)
				n.AppendChild(sub)
			} else {
				n.AppendChild(c.nontermClause(child, depth+1))
			}

		case containsHeadings(child):
			sub := c.termsClause(child, depth+1)
			termCount += countTerms(sub)
			n.AppendChild(sub)

		default:
			termCount++
			n.AppendChild(c.term(child))
		}
	}

	// Title rewriting and the lead sentence belong to the outermost terms
	// clause only; subclauses keep whatever heading the author wrote.
	if !nested {
		if hasSymbols || hasAbbrev || c.combinedHeading(b) {
			c.rewriteCombinedTitle(n, b, hasSymbols, hasAbbrev)
		}
		c.termsBoilerplate(n, b, termCount)
	}
	return n
}

// combinedHeading reports whether the clause heading uses one of the
// combined "Terms, definitions, ..." reserved forms.
func (c *Context) combinedHeading(b *ast.Block) bool {
	if override, ok := b.Attrs.Get("heading"); ok {
		return i18n.For("en").CombinedTermsTitle(override)
	}
	return c.Locale.CombinedTermsTitle(b.TitleText())
}

func containsHeadings(b *ast.Block) bool {
	for _, child := range b.Children {
		if child.Kind == ast.BlockHeading {
			return true
		}
	}
	return false
}

func countTerms(n *doctree.Node) int {
	count := 0
	n.WalkElements(func(c *doctree.Node) bool {
		if c.Name == "term" {
			count++
		}
		return true
	})
	return count
}

// nontermClause converts a .nonterm or terminal subclause inside a terms
// clause: a plain clause whose NOTE/EXAMPLE children stay plain.
func (c *Context) nontermClause(b *ast.Block, depth int) *doctree.Node {
	frame := c.pushSection()
	defer c.popSection(frame)
	c.sections.inNonterm = true
	return c.clause(b, depth, obligationNormative)
}

// term converts one term entry heading into a term element. The cleanup pass
// reorders children into the canonical sequence.
func (c *Context) term(b *ast.Block) *doctree.Node {
	n := doctree.NewElement("term")
	c.applyBlockAttrs(n, b)

	preferred := doctree.NewElement("preferred")
	c.Inlines(preferred, b.Title)
	n.AppendChild(preferred)

	seenDefinition := false
	for _, child := range b.Children {
		switch {
		case child.Kind == ast.BlockParagraph && child.Style == "admitted":
			adm := doctree.NewElement("admitted")
			c.Inlines(adm, child.Inlines)
			n.AppendChild(adm)
		case child.Kind == ast.BlockParagraph && child.Style == "deprecated":
			dep := doctree.NewElement("deprecates")
			c.Inlines(dep, child.Inlines)
			n.AppendChild(dep)
		case child.Kind == ast.BlockParagraph && child.Style == "domain":
			dom := doctree.NewElement("domain")
			c.Inlines(dom, child.Inlines)
			n.AppendChild(dom)
		case child.Kind == ast.BlockParagraph && child.Style == "" && !seenDefinition:
			seenDefinition = true
			def := doctree.NewElement("definition")
			p := doctree.NewElement("p")
			c.Inlines(p, child.Inlines)
			def.AppendChild(p)
			n.AppendChild(def)
		default:
			if converted := c.Block(child); converted != nil {
				n.AppendChild(converted)
			}
		}
	}
	return n
}

// definitions converts a Symbols / Abbreviated Terms heading into a
// definitions container. An empty type means the combined form; the type
// is then inferred from the title text.
func (c *Context) definitions(b *ast.Block, typ string) *doctree.Node {
	frame := c.pushSection()
	defer c.popSection(frame)
	c.sections.inNonterm = true

	n := doctree.NewElement("definitions")
	c.applyBlockAttrs(n, b)
	if override := b.Attrs.Value("type"); override != "" {
		typ = override
	}
	if typ != "" {
		n.SetAttr("type", typ)
	}
	n.SetAttr("obligation", obligationNormative)
	c.title(n, b)
	c.clauseChildren(n, b, 1, obligationNormative)
	return n
}

// rewriteCombinedTitle rewrites a combined "Terms, Definitions, ..." title
// to list only the sub-sections actually present.
func (c *Context) rewriteCombinedTitle(n *doctree.Node, b *ast.Block, hasSymbols, hasAbbrev bool) {
	if b.Attrs.Has("keeptitle") {
		return
	}
	key := i18n.TitleTerms
	switch {
	case hasSymbols && hasAbbrev:
		key = i18n.TitleTermsSymbolsAbbrev
	case hasSymbols:
		key = i18n.TitleTermsSymbols
	case hasAbbrev:
		key = i18n.TitleTermsAbbrev
	}
	title := n.FirstElement("title")
	if title == nil {
		title = doctree.NewElement("title")
		n.PrependChild(title)
	}
	title.Children = nil
	title.AppendText(c.Locale.Sentence(key))
}

// termsBoilerplate inserts the fixed localized sentence for a terms clause:
// source references when declared, the "no terms" sentence when the clause
// is empty, the standard lead sentence otherwise.
func (c *Context) termsBoilerplate(n *doctree.Node, b *ast.Block, termCount int) {
	p := doctree.NewElement("p")

	if sources := b.Attrs.Value("source"); sources != "" {
		parts := strings.Split(sources, ",")
		sentence := c.Locale.Sentence(i18n.BoilerplateTermsExternal)
		pre, post, _ := strings.Cut(sentence, "%s")
		p.AppendText(pre)
		for i, src := range parts {
			src = strings.TrimSpace(src)
			if i > 0 {
				p.AppendText(", ")
			}
			eref := doctree.Element("eref", "bibitemid", src, "citeas", "")
			p.AppendChild(eref)
			n.AppendChild(doctree.Element("termdocsource", "bibitemid", src))
		}
		p.AppendText(post)
	} else if termCount == 0 {
		p.AppendText(c.Locale.Sentence(i18n.BoilerplateNoTerms))
	} else {
		p.AppendText(c.Locale.Sentence(i18n.BoilerplateTermsDefined))
	}

	// Boilerplate goes immediately after the title, before all entries.
	if title := n.FirstElement("title"); title != nil {
		n.InsertAfter(p, title)
	} else {
		n.PrependChild(p)
	}
}

// Convert runs the full source-tree conversion: classification over the
// document's blocks with inline/block conversion below it.
func (c *Context) Convert(doc *ast.Document) (*Skeleton, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	return c.ClassifySections(doc), nil
}
