package cleanup

import (
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// relocateLeadAdmonitions moves admonitions and notes marked beforeclauses
// out of the clauses that contain them to the head of the body sections,
// ahead of the first clause. Relative order among flagged blocks is kept
// and the marker attribute is consumed.
func (nrm *Normalizer) relocateLeadAdmonitions(sk *convert.Skeleton) {
	var moved []*doctree.Node
	for _, root := range sk.Sections {
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name != "admonition" && n.Name != "note" {
				return true
			}
			if n.AttrValue("beforeclauses") != "true" {
				return true
			}
			n.RemoveAttr("beforeclauses")
			moved = append(moved, n)
			return true
		})
	}
	if len(moved) == 0 {
		return
	}
	for _, n := range moved {
		n.Detach()
	}
	sk.Sections = append(moved, sk.Sections...)
}

// relocateInherits lifts inherit markers that ended up inside a
// requirement's description prose up to the requirement itself, after any
// inherits declared by attribute. Duplicate targets collapse.
func (nrm *Normalizer) relocateInherits(sk *convert.Skeleton) {
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			switch n.Name {
			case "requirement", "recommendation", "permission":
				liftInherits(n)
			}
			return true
		})
	}
}

func liftInherits(req *doctree.Node) {
	seen := map[string]bool{}
	var last *doctree.Node // insertion point: after label and declared inherits
	for _, c := range req.ElementChildren() {
		switch c.Name {
		case "label":
			last = c
		case "inherit":
			last = c
			seen[c.InnerText()] = true
		}
	}
	var nested []*doctree.Node
	for _, d := range req.Elements("description") {
		d.WalkElements(func(n *doctree.Node) bool {
			if n.Name == "inherit" {
				nested = append(nested, n)
			}
			return true
		})
	}
	for _, n := range nested {
		n.Detach()
		if seen[n.InnerText()] {
			continue
		}
		seen[n.InnerText()] = true
		if last != nil {
			req.InsertAfter(n, last)
		} else {
			req.PrependChild(n)
		}
		last = n
	}
}
