// Package cleanup normalizes a converted document tree. Passes run in a
// fixed order over the whole skeleton: anchor assignment, adjacent-block
// absorption, term entry reordering, smart quote substitution, symbol
// sorting, preface relocation of lead admonitions, footnote renumbering,
// normative-reference boilerplate, and inherit relocation.
package cleanup

import (
	"strconv"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/core/errors"
	"github.com/stddoc/stddoc/core/ident"
	"github.com/stddoc/stddoc/internal/convert"
	"github.com/stddoc/stddoc/internal/diag"
	"github.com/stddoc/stddoc/internal/i18n"
	"github.com/stddoc/stddoc/internal/logging"
)

// Normalizer holds the collaborators the passes share. A fresh one is used
// per document.
type Normalizer struct {
	IDs         *ident.Generator
	Locale      *i18n.Locale
	Diag        *diag.Sink
	SmartQuotes bool
}

// New builds a Normalizer from the conversion context so both stages share
// one anchor generator and diagnostics sink.
func New(c *convert.Context) *Normalizer {
	return &Normalizer{
		IDs:         c.IDs,
		Locale:      c.Locale,
		Diag:        c.Diag,
		SmartQuotes: c.Opts.SmartQuotes,
	}
}

type pass struct {
	name string
	run  func(*Normalizer, *convert.Skeleton)
}

// Pass order is load-bearing: absorption must see final anchors, footnote
// renumbering must run after relocation passes settle document order, and
// boilerplate insertion must not disturb either.
var passes = []pass{
	{"assign-anchors", (*Normalizer).assignAnchors},
	{"absorb-adjacent", (*Normalizer).absorbAdjacent},
	{"reorder-terms", (*Normalizer).reorderTerms},
	{"smart-quotes", (*Normalizer).smartQuotes},
	{"sort-symbols", (*Normalizer).sortSymbols},
	{"relocate-lead-admonitions", (*Normalizer).relocateLeadAdmonitions},
	{"renumber-footnotes", (*Normalizer).renumberFootnotes},
	{"normative-refs-boilerplate", (*Normalizer).normRefsBoilerplate},
	{"relocate-inherits", (*Normalizer).relocateInherits},
}

// Apply runs every pass over the skeleton, in order.
func (nrm *Normalizer) Apply(sk *convert.Skeleton) {
	for _, p := range passes {
		logging.Pass(p.name)
		p.run(nrm, sk)
	}
}

// anchored lists the element names that must carry an id after
// normalization.
var anchored = map[string]bool{
	"clause": true, "terms": true, "term": true, "definitions": true,
	"references": true, "annex": true, "abstract": true, "foreword": true,
	"introduction": true, "acknowledgements": true,
	"figure": true, "table": true, "formula": true,
	"note": true, "termnote": true, "example": true, "termexample": true,
	"admonition": true, "quote": true, "sourcecode": true,
	"requirement": true, "recommendation": true, "permission": true,
	"bibitem": true, "fn": true, "ul": true, "ol": true, "dl": true,
}

// assignAnchors gives every referenceable element an id. Elements that
// already carry one keep it, so the pass is idempotent. A second occurrence
// of an author-supplied anchor is flagged against its source line and
// replaced: the first occurrence keeps the name.
func (nrm *Normalizer) assignAnchors(sk *convert.Skeleton) {
	seen := map[string]bool{}
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			line := 0
			if v, ok := n.Attr(convert.SourceLineAttr); ok {
				line, _ = strconv.Atoi(v)
				n.RemoveAttr(convert.SourceLineAttr)
			}
			id := n.ID()
			if id != "" {
				if seen[id] && !nrm.IDs.Issued(id) {
					nrm.Diag.Warn("cleanup", "%s", errors.NewDuplicateAnchor(id, line).Error())
					n.SetID(nrm.IDs.Next())
				}
				seen[n.ID()] = true
				return true
			}
			if anchored[n.Name] {
				n.SetID(nrm.IDs.Next())
				seen[n.ID()] = true
			}
			return true
		})
	}
}
