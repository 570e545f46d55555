package convert

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/stddoc/stddoc/core/errors"
)

// Locality is one sub-part descriptor qualifying a citation
// (clause 3, pages 4 to 5, a whole document).
type Locality struct {
	// Type is the locality type: a recognized type, or a freeform extension
	// declared as locality:<name>.
	Type string

	// From and To bound the referenced range. To is empty for single points.
	From string
	To   string

	// Text is free reference text attached to the locality ("the whole of
	// the clause"). Only the final locality of a stack carries it.
	Text string
}

// LocalityStack is one ordered run of localities. A citation may carry
// several stacks (separated by ";" in the source macro).
type LocalityStack []Locality

// recognized locality types; anything else passes through only via the
// explicit locality:<name> extension form.
var recognizedLocalities = map[string]bool{
	"whole":     true,
	"clause":    true,
	"section":   true,
	"part":      true,
	"annex":     true,
	"page":      true,
	"figure":    true,
	"example":   true,
	"table":     true,
	"note":      true,
	"paragraph": true,
}

// localityGrammar parses the citation locality mini-grammar:
// entries separated by ",", stacks separated by ";", each entry either
// key=value or free text.
//
type localityGrammar struct {
	Stacks []*stackPart `parser:"@@ ( ';' @@ )*"`
}

type stackPart struct {
	Entries []*entryPart `parser:"@@ ( ',' @@ )*"`
}

type entryPart struct {
	First string  `parser:"@Text"`
	Value *string `parser:"( '=' @Text )?"`
}

var localityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Text", Pattern: `[^;,=]+`},
	{Name: "Punct", Pattern: `[;,=]`},
})

var localityParser = participle.MustBuild[localityGrammar](
	participle.Lexer(localityLexer),
)

// ParseLocalities parses the locality segment of a citation macro.
// Unrecognized locality type names in key position are kept verbatim as
// extension localities rather than rejected; genuinely unparsable input
// returns an error the caller reports as non-fatal.
func ParseLocalities(s string) ([]LocalityStack, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parsed, err := localityParser.ParseString("", s)
	if err != nil {
		return nil, errors.NewParse("locality", s, err.Error())
	}

	var out []LocalityStack
	for _, sp := range parsed.Stacks {
		var stack LocalityStack
		for _, e := range sp.Entries {
			if e.Value != nil {
				stack = append(stack, makeLocality(e.First, *e.Value))
				continue
			}
			// Free text: entirety reference text for the preceding locality,
			// or a bare "whole" marker when it opens the stack.
			text := strings.TrimSpace(e.First)
			if strings.EqualFold(text, "whole") {
				stack = append(stack, Locality{Type: "whole"})
				continue
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Text = text
			} else {
				stack = append(stack, Locality{Type: "whole", Text: text})
			}
		}
		if len(stack) > 0 {
			out = append(out, stack)
		}
	}
	return out, nil
}

func makeLocality(key, value string) Locality {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	typ := key
	if strings.HasPrefix(key, "locality:") {
		// Freeform extension type: keep the declared name verbatim.
		typ = strings.TrimSpace(strings.TrimPrefix(key, "locality:"))
	} else if !recognizedLocalities[key] {
		// Unrecognized type strings pass through as extension localities.
		typ = key
	}

	loc := Locality{Type: typ, From: value}
	if from, to, ok := splitRange(value); ok {
		loc.From, loc.To = from, to
	}
	return loc
}

// splitRange splits "4-5" style range values. Values whose halves are not
// both non-empty stay unsplit (a hyphenated identifier is not a range).
func splitRange(v string) (string, string, bool) {
	i := strings.IndexByte(v, '-')
	if i <= 0 || i == len(v)-1 {
		return "", "", false
	}
	return v[:i], v[i+1:], true
}
