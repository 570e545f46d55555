package cleanup

import (
	"strings"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// absorbHosts are blocks that pull trailing annotations inside themselves.
var absorbHosts = map[string]bool{
	"table":   true,
	"figure":  true,
	"formula": true,
}

// absorbable are the block types that attach to a preceding host: notes
// annotating it and definition lists keying its symbols. Clause boundaries
// are never crossed because only siblings are considered.
var absorbable = map[string]bool{
	"note": true,
	"dl":   true,
}

// footnoteParagraph reports whether a paragraph carries nothing but a
// footnote, which also attaches to the preceding host.
func footnoteParagraph(n *doctree.Node) bool {
	if n.Name != "p" {
		return false
	}
	seen := false
	for _, c := range n.Children {
		if c.IsText() {
			if strings.TrimSpace(c.Text) != "" {
				return false
			}
			continue
		}
		if c.Name != "fn" {
			return false
		}
		seen = true
	}
	return seen
}

// absorbAdjacent moves each absorbable block following a table, figure or
// formula into that host as its last child. A keep-separate attribute on
// the trailing block opts it out; the attribute is consumed either way.
func (nrm *Normalizer) absorbAdjacent(sk *convert.Skeleton) {
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			if !absorbHosts[n.Name] {
				return true
			}
			for {
				next := n.NextSibling()
				if next == nil || next.IsText() {
					break
				}
				if !absorbable[next.Name] && !footnoteParagraph(next) {
					break
				}
				if next.AttrValue("keep-separate") == "true" {
					next.RemoveAttr("keep-separate")
					break
				}
				next.RemoveAttr("keep-separate")
				n.AppendChild(next.Detach())
			}
			return true
		})
	}
}
