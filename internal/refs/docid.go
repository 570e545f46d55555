// Package refs resolves bibliographic item anchors: external metadata
// fetching through the lookup-and-cache collaborators, sequential
// renumbering of non-fetchable entries, and cross-reference rewriting.
package refs

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DocID is a parsed external-standard identifier ("ISO 216:2001",
// "ISO/IEC 27001", "IEC 60050-102:2007").
type DocID struct {
	// Org is the publishing organization prefix, possibly compound
	// (ISO/IEC).
	Org string

	// Number is the document number.
	Number string

	// Part is the part number after a dash, "" if none.
	Part string

	// Year is the edition year after a colon, "" for undated citations.
	Year string
}

// String reassembles the canonical citation form.
func (d *DocID) String() string {
	var sb strings.Builder
	sb.WriteString(d.Org)
	sb.WriteString(" ")
	sb.WriteString(d.Number)
	if d.Part != "" {
		sb.WriteString("-")
		sb.WriteString(d.Part)
	}
	if d.Year != "" {
		sb.WriteString(":")
		sb.WriteString(d.Year)
	}
	return sb.String()
}

// Undated returns the citation without its year segment.
func (d *DocID) Undated() string {
	cp := *d
	cp.Year = ""
	return cp.String()
}

// docidGrammar parses organization-prefixed standard identifiers.
type docidGrammar struct {
	Org    string  `parser:"@Org"`
	Number string  `parser:"@Int"`
	Part   *string `parser:"( '-' @Int )?"`
	Year   *string `parser:"( ':' @Int )?"`
}

var docidLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Org", Pattern: `[A-Z][A-Z]+(?:/[A-Z]+)*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var docidParser = participle.MustBuild[docidGrammar](
	participle.Lexer(docidLexer),
	participle.Elide("Whitespace"),
)

// ParseDocID parses a docidentifier string. ok is false when the string does
// not match the recognized external-standard naming pattern (organization
// prefix + number, optional part and year); such entries are never fetched
// and take part in sequential renumbering instead.
func ParseDocID(s string) (*DocID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	parsed, err := docidParser.ParseString("", s)
	if err != nil {
		return nil, false
	}
	d := &DocID{Org: parsed.Org, Number: parsed.Number}
	if parsed.Part != nil {
		d.Part = *parsed.Part
	}
	if parsed.Year != nil {
		d.Year = *parsed.Year
	}
	return d, true
}

// bracketedAlpha reports whether a label is an already-bracketed alphabetic
// label like "(A)", which renumbering preserves untouched.
func bracketedAlpha(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	for _, r := range s[1 : len(s)-1] {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
