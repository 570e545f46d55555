// Package mathml defines the math-conversion collaborator port. The actual
// AsciiMath/LaTeX engines live outside this module; the pipeline only needs
// the interface plus the retry policy wrapper.
package mathml

import (
	"strings"

	"github.com/stddoc/stddoc/core/errors"
)

// Converter turns math source notations into MathML.
type Converter interface {
	// AsciiMathToMathML converts AsciiMath source to a MathML fragment.
	AsciiMathToMathML(source string) (string, error)

	// LaTeXToMathML converts LaTeX math source to a MathML fragment.
	LaTeXToMathML(source string) (string, error)
}

// Retrying wraps a Converter with retry-then-fail semantics: each call is
// attempted up to Attempts times before the error is surfaced to the caller.
type Retrying struct {
	Inner    Converter
	Attempts int
}

// NewRetrying wraps conv with the default two attempts.
func NewRetrying(conv Converter) *Retrying {
	return &Retrying{Inner: conv, Attempts: 2}
}

func (r *Retrying) convert(fn func(string) (string, error), source string) (string, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		var out string
		out, err = fn(source)
		if err == nil {
			return out, nil
		}
	}
	return "", err
}

// AsciiMathToMathML implements Converter.
func (r *Retrying) AsciiMathToMathML(source string) (string, error) {
	return r.convert(r.Inner.AsciiMathToMathML, source)
}

// LaTeXToMathML implements Converter.
func (r *Retrying) LaTeXToMathML(source string) (string, error) {
	return r.convert(r.Inner.LaTeXToMathML, source)
}

// Unavailable is the Converter used when no engine is injected. Every call
// fails, which the inline converter reports as a non-fatal condition and
// falls back to the original source text.
type Unavailable struct{}

// AsciiMathToMathML implements Converter.
func (Unavailable) AsciiMathToMathML(string) (string, error) {
	return "", errors.NewUnsupported("asciimath conversion", "no math engine configured")
}

// LaTeXToMathML implements Converter.
func (Unavailable) LaTeXToMathML(string) (string, error) {
	return "", errors.NewUnsupported("latex conversion", "no math engine configured")
}

// IsMathML reports whether the source already looks like a MathML fragment
// and can pass through without conversion.
func IsMathML(source string) bool {
	s := strings.TrimSpace(source)
	return strings.HasPrefix(s, "<math") || strings.HasPrefix(s, "<mml:math")
}
