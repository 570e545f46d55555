package cleanup

import (
	"sort"
	"strings"
	"unicode"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// termRank is the canonical child order inside a term entry. Children of
// equal rank keep their relative order.
var termRank = map[string]int{
	"preferred":   10,
	"admitted":    20,
	"deprecates":  30,
	"domain":      40,
	"definition":  50,
	"termnote":    70,
	"termexample": 80,
	"termsource":  90,
}

func rankOf(n *doctree.Node) int {
	if n.IsText() {
		return 60
	}
	if r, ok := termRank[n.Name]; ok {
		return r
	}
	// Unranked children sit between definitions and notes.
	return 60
}

// reorderTerms rewrites each term entry's children into canonical order:
// designations first, then domain and definitions, then notes, examples and
// sources.
func (nrm *Normalizer) reorderTerms(sk *convert.Skeleton) {
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name != "term" {
				return true
			}
			sort.SliceStable(n.Children, func(i, j int) bool {
				return rankOf(n.Children[i]) < rankOf(n.Children[j])
			})
			return true
		})
	}
}

// symClass orders symbol scripts: Latin, then Greek, then anything else.
const (
	symLatin = iota
	symGreek
	symOther
)

type symKey struct {
	class  int
	base   string
	hasSub bool
	sub    string
	raw    string
}

func classifySymbol(r rune) int {
	switch {
	case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
		return symLatin
	case unicode.In(r, unicode.Greek):
		return symGreek
	default:
		return symOther
	}
}

// symbolKey derives the sort key for a symbol designation. The textual
// convention splits base and subscript at the first underscore, matching
// how symbol cells are authored in math markup.
func symbolKey(text string) symKey {
	k := symKey{raw: text}
	s := strings.TrimSpace(text)
	if i := strings.IndexByte(s, '_'); i >= 0 {
		k.hasSub = true
		k.sub = strings.Trim(s[i+1:], "()")
		s = s[:i]
	}
	k.base = strings.ToLower(s)
	for _, r := range s {
		k.class = classifySymbol(r)
		break
	}
	if s == "" {
		k.class = symOther
	}
	return k
}

// less orders two symbol keys: Latin before Greek before everything else,
// same-letter plain forms before subscripted ones, and among subscripted
// forms the longest subscript first.
func (k symKey) less(o symKey) bool {
	if k.class != o.class {
		return k.class < o.class
	}
	if k.base != o.base {
		return k.base < o.base
	}
	if k.hasSub != o.hasSub {
		return !k.hasSub
	}
	if len(k.sub) != len(o.sub) {
		return len(k.sub) > len(o.sub)
	}
	return k.sub < o.sub
}

// symPair is one dt plus the dds (and anything else) that follow it.
type symPair struct {
	nodes []*doctree.Node
	key   symKey
}

// sortSymbols orders the entries of each symbols / abbreviated-terms list.
// Symbols whose script the ordering convention does not cover are flagged
// and sorted after the known ones.
func (nrm *Normalizer) sortSymbols(sk *convert.Skeleton) {
	for _, root := range sk.Roots() {
		root.WalkElements(func(n *doctree.Node) bool {
			if n.Name != "definitions" {
				return true
			}
			for _, dl := range n.Elements("dl") {
				nrm.sortSymbolList(dl)
			}
			return false
		})
	}
}

func (nrm *Normalizer) sortSymbolList(dl *doctree.Node) {
	var pairs []*symPair
	var cur *symPair
	var lead []*doctree.Node
	for _, c := range dl.Children {
		if !c.IsText() && c.Name == "dt" {
			cur = &symPair{key: symbolKey(c.InnerText())}
			cur.nodes = append(cur.nodes, c)
			pairs = append(pairs, cur)
			continue
		}
		if cur == nil {
			lead = append(lead, c)
			continue
		}
		cur.nodes = append(cur.nodes, c)
	}
	if len(pairs) < 2 {
		return
	}
	for _, p := range pairs {
		if p.key.class == symOther {
			nrm.Diag.Advise("cleanup", "no ordering convention for symbol %q, sorting it last", p.key.raw)
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key.less(pairs[j].key)
	})
	ordered := make([]*doctree.Node, 0, len(dl.Children))
	ordered = append(ordered, lead...)
	for _, p := range pairs {
		ordered = append(ordered, p.nodes...)
	}
	dl.Children = ordered
}
