package cleanup

import (
	"strings"
	"unicode"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// literalZones are elements whose text keeps straight quotes: code, math
// and anything else meant to be reproduced verbatim.
var literalZones = map[string]bool{
	"sourcecode": true,
	"pre":        true,
	"tt":         true,
	"stem":       true,
	"annotation": true,
}

// smartQuotes replaces straight quotes in running prose with the locale's
// curly glyphs. Literal zones and raw passthrough text are left untouched.
// The pass is a no-op when the smartquotes option is off.
func (nrm *Normalizer) smartQuotes(sk *convert.Skeleton) {
	if !nrm.SmartQuotes {
		return
	}
	for _, root := range sk.Roots() {
		nrm.smartQuoteWalk(root)
	}
}

func (nrm *Normalizer) smartQuoteWalk(n *doctree.Node) {
	if !n.IsText() {
		if literalZones[n.Name] {
			return
		}
		if n.Name == "figure" && n.AttrValue("class") == "pseudocode" {
			return
		}
	}
	if n.IsText() {
		if !n.Raw {
			n.Text = nrm.educate(n.Text)
		}
		return
	}
	for _, c := range n.Children {
		nrm.smartQuoteWalk(c)
	}
}

// educate converts straight quotes in one text run. A quote opens after
// whitespace or an opening bracket and closes elsewhere; an apostrophe
// between letters is always the closing single glyph.
func (nrm *Normalizer) educate(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		switch r {
		case '"':
			if opensQuote(prev) {
				sb.WriteString(nrm.Locale.OpenDouble)
			} else {
				sb.WriteString(nrm.Locale.CloseDouble)
			}
		case '\'':
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				sb.WriteString(nrm.Locale.CloseSingle)
			} else if opensQuote(prev) {
				sb.WriteString(nrm.Locale.OpenSingle)
			} else {
				sb.WriteString(nrm.Locale.CloseSingle)
			}
		default:
			sb.WriteRune(r)
		}
		prev = r
	}
	return sb.String()
}

func opensQuote(prev rune) bool {
	switch prev {
	case 0, '(', '[', '{', '<', '-', '—', '“', '‘', '«':
		return true
	}
	return unicode.IsSpace(prev)
}
