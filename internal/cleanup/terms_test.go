package cleanup

import (
	"testing"

	"github.com/stddoc/stddoc/core/doctree"
)

func symbolList(symbols ...string) (*doctree.Node, *doctree.Node) {
	defs := doctree.NewElement("definitions")
	dl := doctree.NewElement("dl")
	for _, s := range symbols {
		dt := doctree.NewElement("dt")
		dt.AppendText(s)
		dl.AppendChild(dt)
		dd := doctree.NewElement("dd")
		dd.AppendText("meaning of " + s)
		dl.AppendChild(dd)
	}
	defs.AppendChild(dl)
	return defs, dl
}

func sortedSymbols(dl *doctree.Node) []string {
	var out []string
	for _, dt := range dl.Elements("dt") {
		out = append(out, dt.InnerText())
	}
	return out
}

func TestSortSymbols_LatinBeforeGreek(t *testing.T) {
	nrm := newTestNormalizer()
	defs, dl := symbolList("λ", "b", "α", "A")

	nrm.sortSymbols(skeleton(defs))

	got := sortedSymbols(dl)
	want := []string{"A", "b", "α", "λ"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v; want %v", got, want)
		}
	}
}

func TestSortSymbols_PlainBeforeSubscripted(t *testing.T) {
	nrm := newTestNormalizer()
	defs, dl := symbolList("m_(max)", "m", "m_(s)")

	nrm.sortSymbols(skeleton(defs))

	got := sortedSymbols(dl)
	want := []string{"m", "m_(max)", "m_(s)"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v; want %v (plain first, longest subscript first)", got, want)
		}
	}
}

func TestSortSymbols_UnknownScriptFlaggedAndLast(t *testing.T) {
	nrm := newTestNormalizer()
	defs, dl := symbolList("中", "a")

	nrm.sortSymbols(skeleton(defs))

	got := sortedSymbols(dl)
	if got[len(got)-1] != "中" {
		t.Errorf("order = %v; unknown script must sort last", got)
	}
	if nrm.Diag.Len() != 1 {
		t.Errorf("got %d diagnostics; want 1 advisory", nrm.Diag.Len())
	}
}

func TestSortSymbols_PairsStayTogether(t *testing.T) {
	nrm := newTestNormalizer()
	defs, dl := symbolList("b", "a")

	nrm.sortSymbols(skeleton(defs))

	var names []string
	for _, c := range dl.ElementChildren() {
		names = append(names, c.Name+":"+c.InnerText())
	}
	want := []string{"dt:a", "dd:meaning of a", "dt:b", "dd:meaning of b"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children = %v; want %v", names, want)
		}
	}
}

func TestSortSymbols_SingleEntryUntouched(t *testing.T) {
	nrm := newTestNormalizer()
	defs, dl := symbolList("z")
	before := len(dl.Children)

	nrm.sortSymbols(skeleton(defs))

	if len(dl.Children) != before {
		t.Error("single-entry list rewritten")
	}
	if nrm.Diag.Len() != 0 {
		t.Errorf("got %d diagnostics; want none", nrm.Diag.Len())
	}
}

func TestSymbolKey(t *testing.T) {
	k := symbolKey("m_(max)")
	if k.base != "m" || !k.hasSub || k.sub != "max" {
		t.Errorf("symbolKey(m_(max)) = %+v", k)
	}
	if got := symbolKey("α").class; got != symGreek {
		t.Errorf("class(α) = %d; want symGreek", got)
	}
	if got := symbolKey("Q").class; got != symLatin {
		t.Errorf("class(Q) = %d; want symLatin", got)
	}
}
