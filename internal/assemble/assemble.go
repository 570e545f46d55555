// Package assemble wraps a classified skeleton and the document's front
// matter into the final standard-document tree.
package assemble

import (
	"strings"

	"github.com/stddoc/stddoc/core/ast"
	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/convert"
)

// SchemaVersion identifies the output vocabulary revision carried on the
// document root.
const SchemaVersion = "1.0"

// Build assembles the output document: bibdata derived from the source
// document's attributes, then preface, sections, annexes and bibliography
// in that order. Empty containers are omitted.
func Build(doc *ast.Document, sk *convert.Skeleton) *doctree.Node {
	root := doctree.NewElement("standard-document")
	root.SetAttr("type", "semantic")
	root.SetAttr("version", SchemaVersion)
	root.AppendChild(Bibdata(doc))

	if len(sk.Preface) > 0 {
		preface := doctree.NewElement("preface")
		for _, n := range sk.Preface {
			preface.AppendChild(n)
		}
		root.AppendChild(preface)
	}
	if len(sk.Sections) > 0 {
		sections := doctree.NewElement("sections")
		for _, n := range sk.Sections {
			sections.AppendChild(n)
		}
		root.AppendChild(sections)
	}
	for _, n := range sk.Annexes {
		root.AppendChild(n)
	}
	if len(sk.Bibliography) > 0 {
		bib := doctree.NewElement("bibliography")
		for _, n := range sk.Bibliography {
			bib.AppendChild(n)
		}
		root.AppendChild(bib)
	}
	return root
}

// Bibdata builds the front-matter block from document attributes. Absent
// attributes simply omit their element; language and script fall back to
// the document defaults.
func Bibdata(doc *ast.Document) *doctree.Node {
	bd := doctree.NewElement("bibdata")
	if t := doc.Attrs.Value("doctype"); t != "" {
		bd.SetAttr("type", t)
	} else {
		bd.SetAttr("type", "standard")
	}

	if title := doc.Attrs.Value("title"); title != "" {
		t := doctree.NewElement("title")
		t.SetAttr("language", doc.Lang())
		t.SetAttr("format", "text/plain")
		t.AppendText(title)
		bd.AppendChild(t)
	}
	if id := doc.Attrs.Value("docidentifier"); id != "" {
		d := doctree.NewElement("docidentifier")
		d.AppendText(id)
		bd.AppendChild(d)
	}
	if num := docnumber(doc); num != "" {
		d := doctree.NewElement("docnumber")
		d.AppendText(num)
		bd.AppendChild(d)
	}
	lang := doctree.NewElement("language")
	lang.AppendText(doc.Lang())
	bd.AppendChild(lang)
	script := doctree.NewElement("script")
	script.AppendText(doc.Script())
	bd.AppendChild(script)

	if status := doc.Attrs.Value("status"); status != "" {
		st := doctree.NewElement("status")
		stage := doctree.NewElement("stage")
		stage.AppendText(status)
		st.AppendChild(stage)
		bd.AppendChild(st)
	}
	if year := doc.Attrs.Value("copyright-year"); year != "" {
		cp := doctree.NewElement("copyright")
		from := doctree.NewElement("from")
		from.AppendText(year)
		cp.AppendChild(from)
		if owner := doc.Attrs.Value("publisher"); owner != "" {
			ow := doctree.NewElement("owner")
			org := organization(owner)
			ow.AppendChild(org)
			cp.AppendChild(ow)
		}
		bd.AppendChild(cp)
	}
	for _, pub := range publishers(doc) {
		contrib := doctree.NewElement("contributor")
		role := doctree.NewElement("role")
		role.SetAttr("type", "publisher")
		contrib.AppendChild(role)
		contrib.AppendChild(organization(pub))
		bd.AppendChild(contrib)
	}
	if ed := doc.Attrs.Value("edition"); ed != "" {
		e := doctree.NewElement("edition")
		e.AppendText(ed)
		bd.AppendChild(e)
	}
	return bd
}

// docnumber returns the explicit docnumber attribute, or the numeric part
// of the docidentifier ("ISO 216:2001" yields "216").
func docnumber(doc *ast.Document) string {
	if num := doc.Attrs.Value("docnumber"); num != "" {
		return num
	}
	id := doc.Attrs.Value("docidentifier")
	if id == "" {
		return ""
	}
	fields := strings.Fields(id)
	last := fields[len(fields)-1]
	if i := strings.IndexByte(last, ':'); i >= 0 {
		last = last[:i]
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			if r != '-' {
				return ""
			}
		}
	}
	return last
}

// publishers splits the publisher attribute on semicolons, one contributor
// entry each.
func publishers(doc *ast.Document) []string {
	raw := doc.Attrs.Value("publisher")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func organization(name string) *doctree.Node {
	org := doctree.NewElement("organization")
	n := doctree.NewElement("name")
	n.AppendText(name)
	org.AppendChild(n)
	return org
}
