package i18n

import "testing"

func TestFor_Fallbacks(t *testing.T) {
	if got := For("fr").Lang; got != "fr" {
		t.Errorf("For(fr).Lang = %q; want fr", got)
	}
	if got := For("fr-CA").Lang; got != "fr" {
		t.Errorf("For(fr-CA).Lang = %q; region subtag must fall back", got)
	}
	if got := For("xx").Lang; got != "en" {
		t.Errorf("For(xx).Lang = %q; unknown language must fall back to en", got)
	}
}

func TestTitleRole(t *testing.T) {
	en := For("en")
	tests := []struct {
		title string
		want  SectionRole
	}{
		{"Normative references", RoleNormativeRefs},
		{"  TERMS AND DEFINITIONS  ", RoleTerms},
		{"Terms, definitions and symbols", RoleTerms},
		{"Symbols and abbreviated terms", RoleSymbolsAbbrev},
		{"Bibliography", RoleBibliography},
		{"General requirements", RoleNone},
	}
	for _, tt := range tests {
		if got := en.TitleRole(tt.title); got != tt.want {
			t.Errorf("TitleRole(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}

	fr := For("fr")
	if got := fr.TitleRole("Références normatives"); got != RoleNormativeRefs {
		t.Errorf("fr TitleRole = %q; want %q", got, RoleNormativeRefs)
	}
}

func TestCombinedTermsTitle(t *testing.T) {
	en := For("en")
	tests := []struct {
		title string
		want  bool
	}{
		{"Terms, definitions and symbols", true},
		{"Terms, definitions, symbols and abbreviated terms", true},
		{"Terms and definitions", false},
		{"Terms related to safety", false},
		{"Symbols", false},
	}
	for _, tt := range tests {
		if got := en.CombinedTermsTitle(tt.title); got != tt.want {
			t.Errorf("CombinedTermsTitle(%q) = %v; want %v", tt.title, got, tt.want)
		}
	}
}

func TestSentence_FallsBackToEnglish(t *testing.T) {
	Register(&Locale{Lang: "de", Boilerplate: map[string]string{}})
	got := For("de").Sentence(BoilerplateNoTerms)
	want := "No terms and definitions are listed in this document."
	if got != want {
		t.Errorf("Sentence() = %q; want English fallback %q", got, want)
	}
}

func TestRegister(t *testing.T) {
	Register(&Locale{
		Lang:          "es",
		SectionTitles: map[string]SectionRole{"bibliografía": RoleBibliography},
	})
	if got := For("es").TitleRole("Bibliografía"); got != RoleBibliography {
		t.Errorf("registered locale TitleRole = %q; want %q", got, RoleBibliography)
	}
}
