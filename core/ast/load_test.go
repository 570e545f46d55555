package ast

import (
	"strings"
	"testing"

	"github.com/stddoc/stddoc/core/errors"
)

func TestLoad_Valid(t *testing.T) {
	src := `{
		"attrs": [
			{"key": "title", "value": "Widget interchange"},
			{"key": "language", "value": "fr"}
		],
		"blocks": [
			{"kind": "heading", "level": 1, "title": [{"kind": "text", "text": "Scope"}]},
			{"kind": "paragraph", "inlines": [{"kind": "text", "text": "Applies to widgets."}]}
		]
	}`
	doc, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := doc.Lang(); got != "fr" {
		t.Errorf("Lang() = %q; want fr", got)
	}
	if got := doc.Script(); got != "Latn" {
		t.Errorf("Script() = %q; want default Latn", got)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("len(Blocks) = %d; want 2", len(doc.Blocks))
	}
	if got := doc.Blocks[0].TitleText(); got != "Scope" {
		t.Errorf("TitleText() = %q; want Scope", got)
	}
}

func TestLoad_UnknownBlockKind(t *testing.T) {
	src := `{"blocks": [{"kind": "hologram"}]}`
	_, err := Load(strings.NewReader(src))
	if err == nil {
		t.Fatal("Load() accepted an unknown block kind")
	}
	var perr *errors.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T; want *errors.ParseError", err)
	}
	if perr.Source != "hologram" {
		t.Errorf("ParseError.Source = %q; want hologram", perr.Source)
	}
}

func TestLoad_UnknownNestedInlineKind(t *testing.T) {
	src := `{"blocks": [
		{"kind": "paragraph", "inlines": [
			{"kind": "em", "children": [{"kind": "sparkle", "text": "x"}]}
		]}
	]}`
	_, err := Load(strings.NewReader(src))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Load() error = %v; want ErrInvalidInput", err)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`{"blocks": [`))
	if err == nil {
		t.Fatal("Load() accepted truncated JSON")
	}
}

func TestAttrs_Bool(t *testing.T) {
	attrs := Attrs{
		{Key: "exclude", Value: ""},
		{Key: "normative", Value: "false"},
		{Key: "header", Value: "true"},
	}
	cases := []struct {
		key  string
		want bool
	}{
		{"exclude", true}, // bare flag
		{"normative", false},
		{"header", true},
		{"missing", false},
	}
	for _, tc := range cases {
		if got := attrs.Bool(tc.key); got != tc.want {
			t.Errorf("Bool(%q) = %v; want %v", tc.key, got, tc.want)
		}
	}
}

func TestInline_PlainText(t *testing.T) {
	in := &Inline{Kind: InlineEmphasis, Children: []*Inline{
		{Kind: InlineText, Text: "unit "},
		{Kind: InlineStrong, Children: []*Inline{{Kind: InlineText, Text: "cell"}}},
	}}
	if got := in.PlainText(); got != "unit cell" {
		t.Errorf("PlainText() = %q; want %q", got, "unit cell")
	}
}
