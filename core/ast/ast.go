// Package ast defines the typed source tree handed to the converter by the
// external markup parser. The parser is a separate collaborator; stddoc only
// consumes its output, either constructed in-process or decoded from JSON.
package ast

// BlockKind identifies the kind of a block node.
type BlockKind string

// Block kind constants.
const (
	BlockDocument   BlockKind = "document"
	BlockHeading    BlockKind = "heading"
	BlockParagraph  BlockKind = "paragraph"
	BlockAdmonition BlockKind = "admonition"
	BlockExample    BlockKind = "example"
	BlockQuote      BlockKind = "quote"
	BlockSource     BlockKind = "source"
	BlockPseudocode BlockKind = "pseudocode"
	BlockTable      BlockKind = "table"
	BlockFigure     BlockKind = "figure"
	BlockImage      BlockKind = "image"
	BlockFormula    BlockKind = "formula"
	BlockUList      BlockKind = "ulist"
	BlockOList      BlockKind = "olist"
	BlockDList      BlockKind = "dlist"
	BlockListItem   BlockKind = "listitem"
	BlockBibEntry   BlockKind = "bibentry"
	BlockOpen       BlockKind = "open"
	BlockLiteral    BlockKind = "literal"
)

// validBlockKinds is the set of block kinds the converter accepts.
var validBlockKinds = map[BlockKind]bool{
	BlockDocument:   true,
	BlockHeading:    true,
	BlockParagraph:  true,
	BlockAdmonition: true,
	BlockExample:    true,
	BlockQuote:      true,
	BlockSource:     true,
	BlockPseudocode: true,
	BlockTable:      true,
	BlockFigure:     true,
	BlockImage:      true,
	BlockFormula:    true,
	BlockUList:      true,
	BlockOList:      true,
	BlockDList:      true,
	BlockListItem:   true,
	BlockBibEntry:   true,
	BlockOpen:       true,
	BlockLiteral:    true,
}

// IsValid returns true if the block kind is recognized.
func (k BlockKind) IsValid() bool {
	return validBlockKinds[k]
}

// InlineKind identifies the kind of an inline node.
type InlineKind string

// Inline kind constants.
const (
	InlineText      InlineKind = "text"
	InlineEmphasis  InlineKind = "em"
	InlineStrong    InlineKind = "strong"
	InlineMonospace InlineKind = "tt"
	InlineSub       InlineKind = "sub"
	InlineSup       InlineKind = "sup"
	InlineQuoted    InlineKind = "quoted"
	InlineStem      InlineKind = "stem"
	InlineLink      InlineKind = "link"
	InlineFootnote  InlineKind = "footnote"
	InlineXref      InlineKind = "xref"
	InlineConcept   InlineKind = "concept"
	InlineOrigin    InlineKind = "origin"
	InlineInherit   InlineKind = "inherit"
	InlineClassif   InlineKind = "classification"
	InlineCallout   InlineKind = "callout"
	InlineBreak     InlineKind = "break"
)

var validInlineKinds = map[InlineKind]bool{
	InlineText:      true,
	InlineEmphasis:  true,
	InlineStrong:    true,
	InlineMonospace: true,
	InlineSub:       true,
	InlineSup:       true,
	InlineQuoted:    true,
	InlineStem:      true,
	InlineLink:      true,
	InlineFootnote:  true,
	InlineXref:      true,
	InlineConcept:   true,
	InlineOrigin:    true,
	InlineInherit:   true,
	InlineClassif:   true,
	InlineCallout:   true,
	InlineBreak:     true,
}

// IsValid returns true if the inline kind is recognized.
func (k InlineKind) IsValid() bool {
	return validInlineKinds[k]
}

// Stem notation constants.
const (
	NotationAsciiMath = "asciimath"
	NotationMathML    = "mathml"
	NotationLaTeX     = "latexmath"
)

// Attr is a single key-value option from the markup attribute list.
// Order is significant and preserved.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attrs is an ordered attribute bag parsed from the markup attribute-list
// syntax. Recognized keys have accessors; unrecognized keys pass through to
// output attributes verbatim.
type Attrs []Attr

// Get returns the value for key and whether it is present.
func (a Attrs) Get(key string) (string, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" if absent.
func (a Attrs) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

// Has returns true if key is present.
func (a Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Bool returns true if key is present and not set to "false".
// Bare option flags (value "") count as true.
func (a Attrs) Bool(key string) bool {
	v, ok := a.Get(key)
	return ok && v != "false"
}

// Set sets key to value, replacing an existing entry in place or appending.
func (a *Attrs) Set(key, value string) {
	for i, kv := range *a {
		if kv.Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Inline represents one inline markup node.
type Inline struct {
	// Kind is the inline node kind.
	Kind InlineKind `json:"kind"`

	// Text is the literal content for text, stem, and callout nodes.
	Text string `json:"text,omitempty"`

	// Target is the link URL or cross-reference target anchor.
	Target string `json:"target,omitempty"`

	// Notation is the stem notation (asciimath, mathml, latexmath).
	Notation string `json:"notation,omitempty"`

	// QuoteType distinguishes single from double quoted spans.
	QuoteType string `json:"quote_type,omitempty"`

	// Attrs carries macro options (e.g. concept term overrides).
	Attrs Attrs `json:"attrs,omitempty"`

	// Children is the nested inline content, order preserved.
	Children []*Inline `json:"children,omitempty"`
}

// PlainText flattens the inline subtree to its literal text content.
func (in *Inline) PlainText() string {
	if in == nil {
		return ""
	}
	if in.Kind == InlineText {
		return in.Text
	}
	out := in.Text
	for _, c := range in.Children {
		out += c.PlainText()
	}
	return out
}

// Text builds a plain text inline.
func Text(s string) *Inline {
	return &Inline{Kind: InlineText, Text: s}
}

// TableCell is one cell of a table row.
type TableCell struct {
	// Header marks the cell as a header cell.
	Header bool `json:"header,omitempty"`

	// Align is the declared horizontal alignment, if any.
	Align string `json:"align,omitempty"`

	// ColSpan and RowSpan are 1 when not declared.
	ColSpan int `json:"colspan,omitempty"`
	RowSpan int `json:"rowspan,omitempty"`

	// Inlines is the cell content.
	Inlines []*Inline `json:"inlines,omitempty"`
}

// TableRow is one row of table cells.
type TableRow struct {
	Cells []*TableCell `json:"cells"`
}

// DListEntry is one term/definition pair of a definition list.
type DListEntry struct {
	// Terms holds one or more terms sharing the definition.
	Terms [][]*Inline `json:"terms"`

	// Definition is the block content of the definition.
	Definition []*Block `json:"definition,omitempty"`
}

// Block represents one block markup node.
type Block struct {
	// Kind is the block node kind.
	Kind BlockKind `json:"kind"`

	// Style is the source marker class: admonition names (NOTE, WARNING),
	// EXAMPLE, requirement/recommendation/permission, structural roles
	// (appendix, bibliography, abstract), or requirement sub-block roles
	// (specification, measurement-target, verification, import).
	Style string `json:"style,omitempty"`

	// Level is the heading depth for heading blocks (1-based).
	Level int `json:"level,omitempty"`

	// Anchor is the author-supplied explicit id, "" if none.
	Anchor string `json:"anchor,omitempty"`

	// Line is the source line of the block, 0 if unknown.
	Line int `json:"line,omitempty"`

	// Attrs is the declared attribute-list option bag.
	Attrs Attrs `json:"attrs,omitempty"`

	// Title is the block title or heading text.
	Title []*Inline `json:"title,omitempty"`

	// Inlines is the inline content of paragraph-like blocks.
	Inlines []*Inline `json:"inlines,omitempty"`

	// Lines is the raw line content of source/literal/pseudocode blocks.
	Lines []string `json:"lines,omitempty"`

	// Rows is the cell grid of table blocks.
	Rows []*TableRow `json:"rows,omitempty"`

	// Entries is the term/definition pairs of dlist blocks.
	Entries []*DListEntry `json:"entries,omitempty"`

	// Children is the nested block content, order preserved.
	Children []*Block `json:"children,omitempty"`
}

// TitleText flattens the block title to plain text.
func (b *Block) TitleText() string {
	var out string
	for _, in := range b.Title {
		out += in.PlainText()
	}
	return out
}

// Document is the root of the parsed source tree.
type Document struct {
	// Attrs holds document-header attributes (language, title, publisher,
	// docnumber, smartquotes toggles, and any others the author declared).
	Attrs Attrs `json:"attrs,omitempty"`

	// Blocks is the document content in source order.
	Blocks []*Block `json:"blocks,omitempty"`
}

// Lang returns the declared document language, defaulting to English.
func (d *Document) Lang() string {
	if v, ok := d.Attrs.Get("language"); ok && v != "" {
		return v
	}
	return "en"
}

// Script returns the declared script, defaulting to Latin.
func (d *Document) Script() string {
	if v, ok := d.Attrs.Get("script"); ok && v != "" {
		return v
	}
	return "Latn"
}
