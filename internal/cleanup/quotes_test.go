package cleanup

import (
	"testing"

	"github.com/stddoc/stddoc/core/doctree"
	"github.com/stddoc/stddoc/internal/i18n"
)

func TestSmartQuotes(t *testing.T) {
	nrm := newTestNormalizer()
	p := doctree.NewElement("p")
	p.AppendText(`She said "don't touch" and left.`)
	clause := doctree.NewElement("clause")
	clause.AppendChild(p)

	nrm.smartQuotes(skeleton(clause))

	want := "She said “don’t touch” and left."
	if got := p.InnerText(); got != want {
		t.Errorf("educated text = %q; want %q", got, want)
	}
}

func TestSmartQuotes_LiteralZonesSkipped(t *testing.T) {
	nrm := newTestNormalizer()
	clause := doctree.NewElement("clause")

	code := doctree.NewElement("sourcecode")
	code.AppendText(`printf("%d", x)`)
	clause.AppendChild(code)

	tt := doctree.NewElement("tt")
	tt.AppendText(`"quoted"`)
	para := doctree.NewElement("p")
	para.AppendChild(tt)
	clause.AppendChild(para)

	pseudo := doctree.Element("figure", "class", "pseudocode")
	pp := doctree.NewElement("p")
	pp.AppendText(`if x == "end"`)
	pseudo.AppendChild(pp)
	clause.AppendChild(pseudo)

	nrm.smartQuotes(skeleton(clause))

	if got := code.InnerText(); got != `printf("%d", x)` {
		t.Errorf("sourcecode text = %q; straight quotes must survive", got)
	}
	if got := tt.InnerText(); got != `"quoted"` {
		t.Errorf("tt text = %q; straight quotes must survive", got)
	}
	if got := pp.InnerText(); got != `if x == "end"` {
		t.Errorf("pseudocode text = %q; straight quotes must survive", got)
	}
}

func TestSmartQuotes_Disabled(t *testing.T) {
	nrm := newTestNormalizer()
	nrm.SmartQuotes = false
	p := doctree.NewElement("p")
	p.AppendText(`"plain"`)
	clause := doctree.NewElement("clause")
	clause.AppendChild(p)

	nrm.smartQuotes(skeleton(clause))

	if got := p.InnerText(); got != `"plain"` {
		t.Errorf("text = %q; disabled pass must not rewrite", got)
	}
}

func TestSmartQuotes_RawTextUntouched(t *testing.T) {
	nrm := newTestNormalizer()
	stem := doctree.Element("stem", "type", "MathML")
	raw := doctree.NewRaw(`<mi>"x"</mi>`)
	stem.AppendChild(raw)
	formula := doctree.NewElement("formula")
	formula.AppendChild(stem)
	clause := doctree.NewElement("clause")
	clause.AppendChild(formula)

	nrm.smartQuotes(skeleton(clause))

	if got := raw.Text; got != `<mi>"x"</mi>` {
		t.Errorf("raw text = %q; must pass through untouched", got)
	}
}

func TestEducate_FrenchGuillemets(t *testing.T) {
	nrm := newTestNormalizer()
	nrm.Locale = i18n.For("fr")
	got := nrm.educate(`dit "bonjour"`)
	want := "dit «bonjour»"
	if got != want {
		t.Errorf("educate() = %q; want %q", got, want)
	}
}

func TestEducate_OpeningPositions(t *testing.T) {
	nrm := newTestNormalizer()
	tests := []struct {
		in, want string
	}{
		{`"start`, "“start"},
		{`("aside")`, "(“aside”)"},
		{`end"`, "end”"},
		{`it's`, "it’s"},
		{`'single'`, "‘single’"},
	}
	for _, tt := range tests {
		if got := nrm.educate(tt.in); got != tt.want {
			t.Errorf("educate(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
