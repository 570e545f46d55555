package cleanup

import (
	"strconv"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// renumberFootnotes assigns final footnote numbers in reading order. The
// conversion stage hands out provisional numbers in source order and earlier
// passes may have relocated content, so numbering is redone from scratch:
// footnotes sharing a provisional number (deduplicated content) keep sharing
// the final one. Bibliography containers keep their own per-item note
// numbering and are left alone.
func (nrm *Normalizer) renumberFootnotes(sk *convert.Skeleton) {
	final := map[string]int{}
	next := 0
	roots := make([]*doctree.Node, 0, len(sk.Preface)+len(sk.Sections)+len(sk.Annexes))
	roots = append(roots, sk.Preface...)
	roots = append(roots, sk.Sections...)
	roots = append(roots, sk.Annexes...)
	for _, root := range roots {
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name != "fn" {
				return true
			}
			old := n.AttrValue("reference")
			num, ok := final[old]
			if !ok || old == "" {
				next++
				num = next
				if old != "" {
					final[old] = num
				}
			}
			n.SetAttr("reference", strconv.Itoa(num))
			return true
		})
	}
}
