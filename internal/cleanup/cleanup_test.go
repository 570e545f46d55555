package cleanup

import (
	"strings"
	"testing"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/core/ident"
	"github.com/stddoc/stddoc/internal/convert"
	"github.com/stddoc/stddoc/internal/diag"
	"github.com/stddoc/stddoc/internal/i18n"
)

func newTestNormalizer() *Normalizer {
	return &Normalizer{
		IDs:         ident.NewGenerator(),
		Locale:      i18n.For("en"),
		Diag:        diag.NewSink(),
		SmartQuotes: true,
	}
}

func skeleton(sections ...*doctree.Node) *convert.Skeleton {
	return &convert.Skeleton{Sections: sections}
}

func TestAssignAnchors(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	named := doctree.Element("table", "id", "tab-sizes")
	clause.AppendChild(named)
	clause.AppendChild(doctree.NewElement("note"))
	clause.AppendChild(doctree.NewElement("p")) // not referenceable
	sk := skeleton(clause)

	nrm.assignAnchors(sk)

	if clause.ID() == "" {
		t.Error("clause did not receive an anchor")
	}
	if got := named.ID(); got != "tab-sizes" {
		t.Errorf("explicit anchor = %q; want preserved", got)
	}
	note := clause.FirstElement("note")
	if note.ID() == "" {
		t.Error("note did not receive an anchor")
	}
	if p := clause.FirstElement("p"); p.ID() != "" {
		t.Errorf("p received anchor %q; plain paragraphs stay unanchored", p.ID())
	}
}

func TestAssignAnchors_Idempotent(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	sk := skeleton(clause)

	nrm.assignAnchors(sk)
	first := clause.ID()
	nrm.assignAnchors(sk)
	if clause.ID() != first {
		t.Errorf("second run changed anchor %q to %q", first, clause.ID())
	}
}

func TestAssignAnchors_DuplicateFirstWins(t *testing.T) {
	nrm := newTestNormalizer()
	a := doctree.Element("clause", "id", "shared")
	b := doctree.Element("clause", "id", "shared")
	root := doctree.NewElement("sections")
	root.AppendChild(a)
	root.AppendChild(b)
	sk := skeleton(root)

	nrm.assignAnchors(sk)

	if a.ID() != "shared" {
		t.Errorf("first occurrence = %q; want shared", a.ID())
	}
	if b.ID() == "shared" {
		t.Error("second occurrence kept the duplicate anchor")
	}
	if b.ID() == "" {
		t.Error("second occurrence has no replacement anchor")
	}
	if nrm.Diag.Len() != 1 {
		t.Errorf("got %d diagnostics; want 1", nrm.Diag.Len())
	}
}

func TestAssignAnchors_DuplicateReportsSourceLine(t *testing.T) {
	nrm := newTestNormalizer()
	a := doctree.Element("clause", "id", "shared", convert.SourceLineAttr, "3")
	b := doctree.Element("clause", "id", "shared", convert.SourceLineAttr, "17")
	root := doctree.NewElement("sections")
	root.AppendChild(a)
	root.AppendChild(b)
	sk := skeleton(root)

	nrm.assignAnchors(sk)

	conds := nrm.Diag.Conditions()
	if len(conds) != 1 {
		t.Fatalf("got %d diagnostics; want 1", len(conds))
	}
	if !strings.Contains(conds[0].Message, "line 17") {
		t.Errorf("duplicate report = %q; want the line of the second occurrence", conds[0].Message)
	}
	for _, n := range []*doctree.Node{a, b} {
		if _, ok := n.Attr(convert.SourceLineAttr); ok {
			t.Error("working source-line attribute not stripped")
		}
	}
}

func TestAbsorbAdjacent(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	table := doctree.NewElement("table")
	note := doctree.NewElement("note")
	dl := doctree.NewElement("dl")
	after := doctree.NewElement("p")
	clause.AppendChild(table)
	clause.AppendChild(note)
	clause.AppendChild(dl)
	clause.AppendChild(after)
	sk := skeleton(clause)

	nrm.absorbAdjacent(sk)

	if note.Parent() != table || dl.Parent() != table {
		t.Error("trailing note and dl not absorbed into the table")
	}
	if after.Parent() != clause {
		t.Error("absorption ran past a non-absorbable sibling")
	}
	kids := table.ElementChildren()
	if len(kids) != 2 || kids[0] != note || kids[1] != dl {
		t.Error("absorbed blocks out of order")
	}
}

func TestAbsorbAdjacent_FootnoteParagraph(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	table := doctree.NewElement("table")
	fnPara := doctree.NewElement("p")
	fnPara.AppendChild(doctree.Element("fn", "reference", "1"))
	prose := doctree.NewElement("p")
	prose.AppendText("Running text.")
	clause.AppendChild(table)
	clause.AppendChild(fnPara)
	clause.AppendChild(prose)
	sk := skeleton(clause)

	nrm.absorbAdjacent(sk)

	if fnPara.Parent() != table {
		t.Error("footnote-only paragraph not absorbed into the table")
	}
	if prose.Parent() != clause {
		t.Error("prose paragraph absorbed; only footnote-bearing ones attach")
	}
}

func TestAbsorbAdjacent_KeepSeparate(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	figure := doctree.NewElement("figure")
	note := doctree.Element("note", "keep-separate", "true")
	clause.AppendChild(figure)
	clause.AppendChild(note)
	sk := skeleton(clause)

	nrm.absorbAdjacent(sk)

	if note.Parent() != clause {
		t.Error("keep-separate note was absorbed")
	}
	if note.AttrValue("keep-separate") != "" {
		t.Error("keep-separate attr leaked into output")
	}
}

func TestReorderTerms(t *testing.T) {
	nrm := newTestNormalizer()
	term := doctree.NewElement("term")
	for _, name := range []string{"termsource", "definition", "termnote", "admitted", "preferred"} {
		term.AppendChild(doctree.NewElement(name))
	}
	terms := doctree.NewElement("terms")
	terms.AppendChild(term)
	sk := skeleton(terms)

	nrm.reorderTerms(sk)

	var got []string
	for _, c := range term.ElementChildren() {
		got = append(got, c.Name)
	}
	want := []string{"preferred", "admitted", "definition", "termnote", "termsource"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v; want %v", got, want)
		}
	}
}

func TestRenumberFootnotes(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	a := doctree.Element("fn", "reference", "2")
	b := doctree.Element("fn", "reference", "5")
	c := doctree.Element("fn", "reference", "2") // deduplicated content
	d := doctree.Element("fn", "reference", "")
	for _, fn := range []*doctree.Node{a, b, c, d} {
		clause.AppendChild(fn)
	}
	sk := skeleton(clause)

	nrm.renumberFootnotes(sk)

	for i, tt := range []struct {
		fn   *doctree.Node
		want string
	}{{a, "1"}, {b, "2"}, {c, "1"}, {d, "3"}} {
		if got := tt.fn.AttrValue("reference"); got != tt.want {
			t.Errorf("fn %d reference = %q; want %q", i, got, tt.want)
		}
	}
}

func TestRenumberFootnotes_BibliographyExcluded(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	body := doctree.Element("fn", "reference", "4")
	clause.AppendChild(body)
	bibNote := doctree.Element("fn", "reference", "9")
	item := doctree.NewElement("bibitem")
	item.AppendChild(bibNote)
	refs := doctree.Element("references", "normative", "false")
	refs.AppendChild(item)
	sk := &convert.Skeleton{
		Sections:     []*doctree.Node{clause},
		Bibliography: []*doctree.Node{refs},
	}

	nrm.renumberFootnotes(sk)

	if got := body.AttrValue("reference"); got != "1" {
		t.Errorf("body footnote = %q; want 1", got)
	}
	if got := bibNote.AttrValue("reference"); got != "9" {
		t.Errorf("bibliography note = %q; must keep its own numbering", got)
	}
}

func TestRelocateLeadAdmonitions(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")
	adm := doctree.Element("admonition", "beforeclauses", "true")
	note := doctree.Element("note", "beforeclauses", "true")
	stay := doctree.NewElement("admonition")
	clause.AppendChild(adm)
	clause.AppendChild(note)
	clause.AppendChild(stay)
	sk := skeleton(clause)

	nrm.relocateLeadAdmonitions(sk)

	if len(sk.Preface) != 0 {
		t.Error("flagged blocks landed in the preface")
	}
	if len(sk.Sections) != 3 || sk.Sections[0] != adm || sk.Sections[1] != note {
		t.Fatal("flagged blocks not moved ahead of the first body clause in order")
	}
	if sk.Sections[2] != clause {
		t.Error("body clause displaced from the sections sequence")
	}
	if adm.AttrValue("beforeclauses") != "" {
		t.Error("beforeclauses attr leaked into output")
	}
	if stay.Parent() != clause {
		t.Error("unmarked admonition moved")
	}
}

func TestNormRefsBoilerplate(t *testing.T) {
	nrm := newTestNormalizer()

	empty := doctree.Element("references", "normative", "true")
	title := doctree.NewElement("title")
	title.AppendText("Normative references")
	empty.AppendChild(title)
	sk := skeleton(empty)
	nrm.normRefsBoilerplate(sk)

	p := empty.FirstElement("p")
	if p == nil {
		t.Fatal("no lead sentence inserted")
	}
	if got, want := p.InnerText(), "There are no normative references in this document."; got != want {
		t.Errorf("lead = %q; want %q", got, want)
	}
	if p.ID() == "" {
		t.Error("lead paragraph has no anchor")
	}
	if kids := empty.ElementChildren(); kids[0] != title || kids[1] != p {
		t.Error("lead sentence not placed after the title")
	}
}

func TestNormRefsBoilerplate_WithItemsAndAuthoredProse(t *testing.T) {
	nrm := newTestNormalizer()

	cited := doctree.Element("references", "normative", "true")
	cited.AppendChild(doctree.NewElement("bibitem"))
	nrm.normRefsBoilerplate(skeleton(cited))
	p := cited.FirstElement("p")
	if p == nil || !strings.Contains(p.InnerText(), "referred to in the text") {
		t.Errorf("citation rubric missing: %v", p)
	}

	informative := doctree.Element("references", "normative", "false")
	nrm.normRefsBoilerplate(skeleton(informative))
	if informative.FirstElement("p") != nil {
		t.Error("boilerplate inserted into informative section")
	}
}

func TestNormRefsBoilerplate_AuthoredProseKept(t *testing.T) {
	nrm := newTestNormalizer()
	refs := doctree.Element("references", "normative", "true")
	own := doctree.NewElement("p")
	own.AppendText("Custom lead.")
	refs.AppendChild(own)
	refs.AppendChild(doctree.NewElement("bibitem"))

	nrm.normRefsBoilerplate(skeleton(refs))

	ps := refs.Elements("p")
	if len(ps) != 2 {
		t.Fatalf("got %d paragraphs; want boilerplate + authored prose", len(ps))
	}
	if !strings.Contains(ps[0].InnerText(), "referred to in the text") {
		t.Errorf("first paragraph = %q; want inserted boilerplate", ps[0].InnerText())
	}
	if ps[1] != own {
		t.Error("authored prose not preserved after the boilerplate")
	}

	// Running the pass again must not duplicate the sentence.
	nrm.normRefsBoilerplate(skeleton(refs))
	if got := len(refs.Elements("p")); got != 2 {
		t.Errorf("second run produced %d paragraphs; want 2", got)
	}
}

func TestRelocateInherits(t *testing.T) {
	nrm := newTestNormalizer()
	req := doctree.NewElement("requirement")
	label := doctree.NewElement("label")
	label.AppendText("/req/1")
	req.AppendChild(label)
	declared := doctree.NewElement("inherit")
	declared.AppendText("/base")
	req.AppendChild(declared)

	desc := doctree.NewElement("description")
	p := doctree.NewElement("p")
	nested := doctree.NewElement("inherit")
	nested.AppendText("/extra")
	dup := doctree.NewElement("inherit")
	dup.AppendText("/base")
	p.AppendChild(nested)
	p.AppendChild(dup)
	desc.AppendChild(p)
	req.AppendChild(desc)
	sk := skeleton(req)

	nrm.relocateInherits(sk)

	inherits := req.Elements("inherit")
	if len(inherits) != 2 {
		t.Fatalf("got %d inherits; want declared + lifted = 2", len(inherits))
	}
	if inherits[0].InnerText() != "/base" || inherits[1].InnerText() != "/extra" {
		t.Errorf("inherit order = %q, %q; want /base then /extra",
			inherits[0].InnerText(), inherits[1].InnerText())
	}
	desc.WalkElements(func(n *doctree.Node) bool {
		if n.Name == "inherit" {
			t.Error("inherit left inside description")
		}
		return true
	})
}
