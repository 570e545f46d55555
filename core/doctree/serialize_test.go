package doctree

import (
	"strings"
	"testing"
)

func TestXML_Compact(t *testing.T) {
	p := NewElement("p")
	p.SetID("p1")
	p.AppendText("a < b & c")
	em := NewElement("em")
	em.AppendText("x")
	p.AppendChild(em)

	got := p.String()
	want := `<p id="p1">a &lt; b &amp; c<em>x</em></p>`
	if got != want {
		t.Errorf("String() = %s; want %s", got, want)
	}
}

func TestXML_EmptyElement(t *testing.T) {
	n := NewElement("br")
	if got := n.String(); got != "<br/>" {
		t.Errorf("String() = %s; want <br/>", got)
	}
}

func TestXML_AttrEscaping(t *testing.T) {
	n := NewElement("xref")
	n.SetAttr("target", `a"b<c`)
	got := n.String()
	want := `<xref target="a&quot;b&lt;c"/>`
	if got != want {
		t.Errorf("String() = %s; want %s", got, want)
	}
}

func TestXML_RawPassthrough(t *testing.T) {
	stem := NewElement("stem")
	stem.SetAttr("type", "MathML")
	stem.AppendChild(NewRaw("<math><mi>x</mi></math>"))

	got := stem.String()
	if !strings.Contains(got, "<math><mi>x</mi></math>") {
		t.Errorf("raw MathML was escaped: %s", got)
	}
}

func TestXML_MixedContentNotIndented(t *testing.T) {
	clause := NewElement("clause")
	p := NewElement("p")
	p.AppendText("before ")
	em := NewElement("em")
	em.AppendText("mid")
	p.AppendChild(em)
	p.AppendText(" after")
	clause.AppendChild(p)

	got := string(XML(clause, WriteOptions{Indent: "  "}))
	if !strings.Contains(got, "before <em>mid</em> after") {
		t.Errorf("mixed content was reflowed: %s", got)
	}
	if !strings.Contains(got, "<clause>\n  <p>") {
		t.Errorf("element-only content was not indented: %s", got)
	}
}

func TestXML_Declaration(t *testing.T) {
	n := NewElement("standard-document")
	got := string(XML(n, WriteOptions{Declaration: true}))
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing declaration: %s", got)
	}
}
