// Package i18n holds the per-locale lookup tables the pipeline consults:
// recognized section titles, boilerplate sentences, and smart-quote glyphs.
// Tables are injectable so callers can extend locales without touching the
// classifier or cleanup logic.
package i18n

import "strings"

// SectionRole is a canonical structural role a section title can map to.
type SectionRole string

// Section role constants.
const (
	RoleNone             SectionRole = ""
	RoleAbstract         SectionRole = "abstract"
	RoleForeword         SectionRole = "foreword"
	RoleIntroduction     SectionRole = "introduction"
	RoleAcknowledgements SectionRole = "acknowledgements"
	RoleScope            SectionRole = "scope"
	RoleNormativeRefs    SectionRole = "normative references"
	RoleTerms            SectionRole = "terms and definitions"
	RoleSymbols          SectionRole = "symbols"
	RoleAbbreviations    SectionRole = "abbreviated terms"
	RoleSymbolsAbbrev    SectionRole = "symbols and abbreviated terms"
	RoleBibliography     SectionRole = "bibliography"
)

// Locale carries every localized table for one document language.
type Locale struct {
	// Lang is the BCP-47 language tag.
	Lang string

	// SectionTitles maps lower-cased recognized titles to roles.
	SectionTitles map[string]SectionRole

	// Boilerplate maps boilerplate keys to localized sentences.
	Boilerplate map[string]string

	// OpenDouble, CloseDouble, OpenSingle, CloseSingle are the smart-quote
	// glyphs substituted for straight quotes in running prose.
	OpenDouble, CloseDouble string
	OpenSingle, CloseSingle string
}

// Boilerplate keys.
const (
	BoilerplateNoTerms       = "no_terms"
	BoilerplateTermsExternal = "terms_external"
	BoilerplateTermsDefined  = "terms_defined"
	BoilerplateNoNormRefs    = "no_normative_refs"
	BoilerplateNormRefs      = "normative_refs"

	// Combined terms-clause title variants, keyed by which sub-sections are
	// actually present.
	TitleTerms              = "title_terms"
	TitleTermsSymbols       = "title_terms_symbols"
	TitleTermsAbbrev        = "title_terms_abbrev"
	TitleTermsSymbolsAbbrev = "title_terms_symbols_abbrev"
)

var locales = map[string]*Locale{
	"en": {
		Lang: "en",
		SectionTitles: map[string]SectionRole{
			"abstract":              RoleAbstract,
			"foreword":              RoleForeword,
			"introduction":          RoleIntroduction,
			"acknowledgements":      RoleAcknowledgements,
			"acknowledgments":       RoleAcknowledgements,
			"scope":                 RoleScope,
			"normative references":  RoleNormativeRefs,
			"terms and definitions": RoleTerms,
			"terms, definitions, symbols and abbreviated terms": RoleTerms,
			"terms, definitions and symbols":                    RoleTerms,
			"terms, definitions and abbreviated terms":          RoleTerms,
			"symbols and abbreviated terms":                     RoleSymbolsAbbrev,
			"symbols":                                           RoleSymbols,
			"abbreviated terms":                                 RoleAbbreviations,
			"abbreviations":                                     RoleAbbreviations,
			"bibliography":                                      RoleBibliography,
		},
		Boilerplate: map[string]string{
			BoilerplateNoTerms:       "No terms and definitions are listed in this document.",
			BoilerplateTermsExternal: "For the purposes of this document, the terms and definitions given in %s apply.",
			BoilerplateTermsDefined:  "For the purposes of this document, the following terms and definitions apply.",
			BoilerplateNoNormRefs:    "There are no normative references in this document.",
			BoilerplateNormRefs: "The following documents are referred to in the text in such a way that " +
				"some or all of their content constitutes requirements of this document. " +
				"For dated references, only the edition cited applies. For undated references, " +
				"the latest edition of the referenced document (including any amendments) applies.",
			TitleTerms:              "Terms and definitions",
			TitleTermsSymbols:       "Terms, definitions and symbols",
			TitleTermsAbbrev:        "Terms, definitions and abbreviated terms",
			TitleTermsSymbolsAbbrev: "Terms, definitions, symbols and abbreviated terms",
		},
		OpenDouble: "“", CloseDouble: "”",
		OpenSingle: "‘", CloseSingle: "’",
	},
	"fr": {
		Lang: "fr",
		SectionTitles: map[string]SectionRole{
			"résumé":                RoleAbstract,
			"avant-propos":          RoleForeword,
			"introduction":          RoleIntroduction,
			"remerciements":         RoleAcknowledgements,
			"domaine d'application": RoleScope,
			"références normatives": RoleNormativeRefs,
			"termes et définitions": RoleTerms,
			"termes, définitions, symboles et termes abrégés": RoleTerms,
			"symboles et termes abrégés":                      RoleSymbolsAbbrev,
			"symboles":                                        RoleSymbols,
			"termes abrégés":                                  RoleAbbreviations,
			"bibliographie":                                   RoleBibliography,
		},
		Boilerplate: map[string]string{
			BoilerplateNoTerms:       "Aucun terme n'est défini dans le présent document.",
			BoilerplateTermsExternal: "Pour les besoins du présent document, les termes et définitions donnés dans %s s'appliquent.",
			BoilerplateTermsDefined:  "Pour les besoins du présent document, les termes et définitions suivants s'appliquent.",
			BoilerplateNoNormRefs:    "Le présent document ne contient aucune référence normative.",
			BoilerplateNormRefs: "Les documents suivants sont cités dans le texte de sorte qu'ils constituent, " +
				"pour tout ou partie de leur contenu, des exigences du présent document. " +
				"Pour les références datées, seule l'édition citée s'applique. Pour les références non datées, " +
				"la dernière édition du document de référence s'applique (y compris les éventuels amendements).",
			TitleTerms:              "Termes et définitions",
			TitleTermsSymbols:       "Termes, définitions et symboles",
			TitleTermsAbbrev:        "Termes, définitions et termes abrégés",
			TitleTermsSymbolsAbbrev: "Termes, définitions, symboles et termes abrégés",
		},
		OpenDouble: "«", CloseDouble: "»",
		OpenSingle: "‘", CloseSingle: "’",
	},
}

// For returns the locale tables for a language tag, falling back to English
// for unknown languages and region subtags (fr-CA resolves to fr).
func For(lang string) *Locale {
	if l, ok := locales[lang]; ok {
		return l
	}
	if i := strings.IndexByte(lang, '-'); i > 0 {
		if l, ok := locales[lang[:i]]; ok {
			return l
		}
	}
	return locales["en"]
}

// Register installs or replaces a locale table. Intended for callers adding
// languages the built-in set lacks.
func Register(l *Locale) {
	locales[l.Lang] = l
}

// TitleRole maps a section title to its canonical role for this locale.
// Matching is case-insensitive; unrecognized titles map to RoleNone.
func (l *Locale) TitleRole(title string) SectionRole {
	return l.SectionTitles[strings.ToLower(strings.TrimSpace(title))]
}

// CombinedTermsTitle reports whether title is one of the combined
// "Terms, definitions, ..." reserved heading forms rather than the plain
// terms-and-definitions form.
func (l *Locale) CombinedTermsTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if l.SectionTitles[t] != RoleTerms {
		return false
	}
	return t != strings.ToLower(l.Sentence(TitleTerms))
}

// Sentence returns the localized boilerplate for key, falling back to the
// English table when this locale lacks it.
func (l *Locale) Sentence(key string) string {
	if s, ok := l.Boilerplate[key]; ok {
		return s
	}
	return locales["en"].Boilerplate[key]
}
