// Package convert maps the parsed markup tree into the intermediate XML
// document tree: inline nodes, block nodes, and the section skeleton.
// All conversion state lives on a Context created fresh per document.
package convert

import (
	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/ident"
	"github.com/stddoc/stddoc/internal/diag"
	"github.com/stddoc/stddoc/internal/i18n"
	"github.com/stddoc/stddoc/internal/mathml"
)

// Options are per-document conversion switches, typically read from the
// document header or the config file.
type Options struct {
	// Lang is the document language tag (default "en").
	Lang string

	// Script is the writing script (default "Latn").
	Script string

	// KeepAsciiMath suppresses AsciiMath-to-MathML conversion and emits the
	// original notation.
	KeepAsciiMath bool

	// SmartQuotes disables curly-quote substitution when false.
	SmartQuotes bool
}

// DefaultOptions returns the options used when the document declares nothing.
func DefaultOptions() Options {
	return Options{Lang: "en", Script: "Latn", SmartQuotes: true}
}

// Context threads every counter and collaborator through a single document
// conversion. It is created per document and never shared.
type Context struct {
	Opts   Options
	Locale *i18n.Locale
	Diag   *diag.Sink
	Math   mathml.Converter
	IDs    *ident.Generator

	// footnotes maps a body content key to its assigned reference number.
	// Link-only footnote bodies are never entered here: each occurrence is
	// distinct even when identical.
	footnotes   map[string]int
	footnoteSeq int
	calloutSeq  int
	inLiteral   int
	sections    sectionState
}

// NewContext builds a fresh conversion context.
func NewContext(opts Options, sink *diag.Sink, math mathml.Converter) *Context {
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.Script == "" {
		opts.Script = "Latn"
	}
	if sink == nil {
		sink = diag.NewSink()
	}
	if math == nil {
		math = mathml.Unavailable{}
	}
	return &Context{
		Opts:      opts,
		Locale:    i18n.For(opts.Lang),
		Diag:      sink,
		Math:      math,
		IDs:       ident.NewGenerator(),
		footnotes: make(map[string]int),
	}
}

// OptionsFrom derives conversion options from document header attributes.
func OptionsFrom(doc *ast.Document) Options {
	opts := DefaultOptions()
	opts.Lang = doc.Lang()
	opts.Script = doc.Script()
	if doc.Attrs.Bool("mn-keep-asciimath") {
		opts.KeepAsciiMath = true
	}
	if v, ok := doc.Attrs.Get("smartquotes"); ok && v == "false" {
		opts.SmartQuotes = false
	}
	return opts
}

// FootnoteNumber assigns or reuses the reference number for a footnote body.
// Identical bodies share a number; link-only bodies are always distinct
// (each occurrence counts separately, a deliberate quirk of the numbering).
func (c *Context) FootnoteNumber(contentKey string, linkOnly bool) int {
	if !linkOnly {
		if n, ok := c.footnotes[contentKey]; ok {
			return n
		}
	}
	c.footnoteSeq++
	if !linkOnly {
		c.footnotes[contentKey] = c.footnoteSeq
	}
	return c.footnoteSeq
}

// NextCallout returns the next sequential callout number for a source block.
func (c *Context) NextCallout() int {
	c.calloutSeq++
	return c.calloutSeq
}

// ResetCallouts restarts callout numbering; called per source-code block.
func (c *Context) ResetCallouts() {
	c.calloutSeq = 0
}

// EnterLiteral marks entry into a no-transform region (sourcecode, tt,
// preformatted, pseudocode): smart quotes and entity rewriting stay off.
func (c *Context) EnterLiteral() { c.inLiteral++ }

// LeaveLiteral leaves a no-transform region.
func (c *Context) LeaveLiteral() { c.inLiteral-- }

// InLiteral reports whether conversion is inside a no-transform region.
func (c *Context) InLiteral() bool { return c.inLiteral > 0 }

// sectionState is the transient classifier state threaded per clause.
type sectionState struct {
	// depth of the current clause nesting.
	depth int
	// obligation is the default obligation inherited by descendants.
	obligation string
	// inTerms is true inside a terms-clause subtree (NOTE/EXAMPLE become
	// termnote/termexample there).
	inTerms bool
	// inNonterm is true inside a .nonterm-marked subclause.
	inNonterm bool
}

type sectionFrame struct{ saved sectionState }

// pushSection saves classifier state at a clause boundary.
func (c *Context) pushSection() sectionFrame {
	return sectionFrame{saved: c.sections}
}

// popSection restores classifier state at the end of a clause.
func (c *Context) popSection(f sectionFrame) {
	c.sections = f.saved
}

// InTermsClause reports whether conversion is inside a terms clause and not
// inside a nonterm subclause.
func (c *Context) InTermsClause() bool {
	return c.sections.inTerms && !c.sections.inNonterm
}
