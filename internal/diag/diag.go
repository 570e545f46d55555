// Package diag provides the write-only diagnostics sink the pipeline reports
// non-fatal conditions to. Conditions accumulate for an end-of-run report;
// none of them abort a conversion.
package diag

import (
	"fmt"
	"sync"

	"github.com/stddoc/stddoc/internal/logging"
)

// Severity classifies a reported condition.
type Severity int

const (
	// Recoverable conditions were handled with a fallback (failed lookup,
	// math conversion failure, duplicate anchor, unresolved target).
	Recoverable Severity = iota
	// Advisory conditions changed nothing structurally (schema-shape
	// deviations, missing anchors on non-reference entries).
	Advisory
)

func (s Severity) String() string {
	if s == Advisory {
		return "advisory"
	}
	return "recoverable"
}

// Condition is one reported occurrence.
type Condition struct {
	Severity Severity
	// Component names the reporting component ("inline", "refs", "cleanup", ...).
	Component string
	// Message describes the occurrence.
	Message string
	// Line is the source line, 0 if unknown.
	Line int
}

func (c Condition) String() string {
	if c.Line > 0 {
		return fmt.Sprintf("[%s] %s: %s (line %d)", c.Severity, c.Component, c.Message, c.Line)
	}
	return fmt.Sprintf("[%s] %s: %s", c.Severity, c.Component, c.Message)
}

// Sink accumulates conditions. One sink lives per document conversion.
type Sink struct {
	mu         sync.Mutex
	conditions []Condition
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report records one condition occurrence and logs it.
func (s *Sink) Report(c Condition) {
	s.mu.Lock()
	s.conditions = append(s.conditions, c)
	s.mu.Unlock()
	if c.Severity == Advisory {
		logging.Info("diagnostic", "component", c.Component, "message", c.Message, "line", c.Line)
	} else {
		logging.Warn("diagnostic", "component", c.Component, "message", c.Message, "line", c.Line)
	}
}

// Warn reports a recoverable condition.
func (s *Sink) Warn(component, format string, args ...any) {
	s.Report(Condition{Severity: Recoverable, Component: component, Message: fmt.Sprintf(format, args...)})
}

// WarnAt reports a recoverable condition with a source line.
func (s *Sink) WarnAt(component string, line int, format string, args ...any) {
	s.Report(Condition{Severity: Recoverable, Component: component, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Advise reports an advisory condition.
func (s *Sink) Advise(component, format string, args ...any) {
	s.Report(Condition{Severity: Advisory, Component: component, Message: fmt.Sprintf(format, args...)})
}

// Conditions returns a copy of everything reported so far, in order.
func (s *Sink) Conditions() []Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Condition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Len returns the number of reported conditions.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conditions)
}

// Summary formats the end-of-run report, one condition per line.
func (s *Sink) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conditions) == 0 {
		return ""
	}
	out := ""
	for _, c := range s.conditions {
		out += c.String() + "\n"
	}
	return out
}
