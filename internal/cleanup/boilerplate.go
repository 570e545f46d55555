package cleanup

import (
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
	"github.com/stddoc/stddoc/internal/i18n"
)

// normRefsBoilerplate inserts the standard lead sentence into each
// normative references section: the no-references sentence when the section
// is empty, otherwise the citation rubric before the first item. Prose the
// author already put there stays, after the inserted sentence.
func (nrm *Normalizer) normRefsBoilerplate(sk *convert.Skeleton) {
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name != "references" || n.AttrValue("normative") != "true" {
				return true
			}
			nrm.insertNormRefsLead(n)
			return false
		})
	}
}

func (nrm *Normalizer) insertNormRefsLead(refs *doctree.Node) {
	key := i18n.BoilerplateNormRefs
	if len(refs.Elements("bibitem")) == 0 {
		key = i18n.BoilerplateNoNormRefs
	}
	lead := nrm.Locale.Sentence(key)

	var title *doctree.Node
	for _, c := range refs.ElementChildren() {
		switch c.Name {
		case "title":
			title = c
		case "p":
			// Already inserted on an earlier run; authored prose stays
			// behind the boilerplate either way.
			if c.InnerText() == lead {
				return
			}
		}
	}

	p := doctree.NewElement("p")
	p.SetID(nrm.IDs.Next())
	p.AppendText(lead)
	if title != nil {
		refs.InsertAfter(p, title)
	} else {
		refs.PrependChild(p)
	}
}
