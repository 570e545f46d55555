package assemble

import (
	"testing"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

func docWith(attrs ...string) *ast.Document {
	doc := &ast.Document{}
	for i := 0; i+1 < len(attrs); i += 2 {
		doc.Attrs = append(doc.Attrs, ast.Attr{Key: attrs[i], Value: attrs[i+1]})
	}
	return doc
}

func TestBuild_EnvelopeOrder(t *testing.T) {
	sk := &convert.Skeleton{
		Preface:      []*doctree.Node{doctree.NewElement("foreword")},
		Sections:     []*doctree.Node{doctree.NewElement("clause")},
		Annexes:      []*doctree.Node{doctree.NewElement("annex")},
		Bibliography: []*doctree.Node{doctree.NewElement("references")},
	}
	root := Build(docWith(), sk)

	if root.Name != "standard-document" {
		t.Fatalf("root = <%s>", root.Name)
	}
	if got := root.AttrValue("type"); got != "semantic" {
		t.Errorf("type = %q; want semantic", got)
	}
	if got := root.AttrValue("version"); got != SchemaVersion {
		t.Errorf("version = %q; want %q", got, SchemaVersion)
	}

	var names []string
	for _, c := range root.ElementChildren() {
		names = append(names, c.Name)
	}
	want := []string{"bibdata", "preface", "sections", "annex", "bibliography"}
	if len(names) != len(want) {
		t.Fatalf("children = %v; want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children = %v; want %v", names, want)
		}
	}
}

func TestBuild_EmptyContainersOmitted(t *testing.T) {
	sk := &convert.Skeleton{Sections: []*doctree.Node{doctree.NewElement("clause")}}
	root := Build(docWith(), sk)

	if root.FirstElement("preface") != nil {
		t.Error("empty preface wrapper emitted")
	}
	if root.FirstElement("bibliography") != nil {
		t.Error("empty bibliography wrapper emitted")
	}
	if root.FirstElement("sections") == nil {
		t.Error("sections wrapper missing")
	}
}

func TestBibdata(t *testing.T) {
	doc := docWith(
		"title", "Writing paper",
		"docidentifier", "ISO 216:2001",
		"language", "fr",
		"status", "published",
		"copyright-year", "2001",
		"publisher", "International Organization for Standardization",
		"edition", "2",
	)
	bd := Bibdata(doc)

	if got := bd.AttrValue("type"); got != "standard" {
		t.Errorf("type = %q; want standard default", got)
	}
	title := bd.FirstElement("title")
	if title == nil || title.AttrValue("language") != "fr" || title.AttrValue("format") != "text/plain" {
		t.Errorf("title element = %v", title)
	}
	if got := bd.FirstElement("docnumber").InnerText(); got != "216" {
		t.Errorf("docnumber = %q; want 216 derived from identifier", got)
	}
	if got := bd.FirstElement("language").InnerText(); got != "fr" {
		t.Errorf("language = %q; want fr", got)
	}
	if got := bd.FirstElement("script").InnerText(); got != "Latn" {
		t.Errorf("script = %q; want Latn default", got)
	}
	if got := bd.FirstElement("status").FirstElement("stage").InnerText(); got != "published" {
		t.Errorf("stage = %q; want published", got)
	}
	cp := bd.FirstElement("copyright")
	if cp == nil || cp.FirstElement("from").InnerText() != "2001" {
		t.Errorf("copyright = %v", cp)
	}
	if cp.FirstElement("owner") == nil {
		t.Error("copyright owner missing despite publisher attr")
	}
	if got := bd.FirstElement("edition").InnerText(); got != "2" {
		t.Errorf("edition = %q; want 2", got)
	}
}

func TestBibdata_Doctype(t *testing.T) {
	bd := Bibdata(docWith("doctype", "technical-report"))
	if got := bd.AttrValue("type"); got != "technical-report" {
		t.Errorf("type = %q; want technical-report", got)
	}
}

func TestBibdata_MultiplePublishers(t *testing.T) {
	bd := Bibdata(docWith("publisher", "ISO; IEC"))
	contribs := bd.Elements("contributor")
	if len(contribs) != 2 {
		t.Fatalf("got %d contributors; want 2", len(contribs))
	}
	org := contribs[1].FirstElement("organization")
	if org == nil || org.FirstElement("name").InnerText() != "IEC" {
		t.Errorf("second publisher = %v; want IEC", org)
	}
	role := contribs[0].FirstElement("role")
	if role == nil || role.AttrValue("type") != "publisher" {
		t.Errorf("contributor role = %v; want publisher", role)
	}
}

func TestDocnumber(t *testing.T) {
	tests := []struct {
		attrs []string
		want  string
	}{
		{[]string{"docnumber", "42"}, "42"},
		{[]string{"docidentifier", "ISO 216:2001"}, "216"},
		{[]string{"docidentifier", "IEC 60050-102:2007"}, "60050-102"},
		{[]string{"docidentifier", "The TOGAF Standard"}, ""},
		{[]string{"docidentifier", "ISO 216:2001", "docnumber", "9"}, "9"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := docnumber(docWith(tt.attrs...)); got != tt.want {
			t.Errorf("docnumber(%v) = %q; want %q", tt.attrs, got, tt.want)
		}
	}
}
