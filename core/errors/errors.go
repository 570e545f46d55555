// Package errors provides standardized error types and helpers for the stddoc codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or node kind
	ErrUnsupported = errors.New("unsupported")
	// ErrConversion indicates a conversion step failed
	ErrConversion = errors.New("conversion failed")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "bibliographic item", "anchor", "cache entry")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "AST JSON", "locality", "docidentifier")
	Source  string // Offending source text, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("failed to parse %s %q: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// LookupError represents a bibliographic lookup failure for a single item.
type LookupError struct {
	Identifier string // Citation identifier that was being resolved
	Transient  bool   // Whether the failure may succeed on retry
	Err        error  // Underlying error
}

func (e *LookupError) Error() string {
	if e.Transient {
		return fmt.Sprintf("transient lookup failure for %s: %v", e.Identifier, e.Err)
	}
	return fmt.Sprintf("lookup failed for %s: %v", e.Identifier, e.Err)
}

func (e *LookupError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// DuplicateAnchorError reports a second occurrence of an explicit anchor.
// The first occurrence wins; the duplicate is flagged, not fatal.
type DuplicateAnchorError struct {
	Anchor string // The duplicated anchor id
	Line   int    // Source line of the duplicate occurrence, 0 if unknown
}

func (e *DuplicateAnchorError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate anchor %q at line %d", e.Anchor, e.Line)
	}
	return fmt.Sprintf("duplicate anchor %q", e.Anchor)
}

func (e *DuplicateAnchorError) Unwrap() error {
	return ErrInvalidInput
}

// ConvertError represents a failure converting a single source node.
type ConvertError struct {
	Kind    string // Source node kind being converted
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ConvertError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("cannot convert %s node: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("conversion error: %s", e.Message)
}

func (e *ConvertError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConversion
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported node kind or option value.
type UnsupportedError struct {
	Feature string // Feature, kind, or option that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewParse creates a ParseError
func NewParse(format, source, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Source:  source,
		Message: message,
	}
}

// NewLookup creates a LookupError
func NewLookup(identifier string, transient bool, err error) *LookupError {
	return &LookupError{
		Identifier: identifier,
		Transient:  transient,
		Err:        err,
	}
}

// NewDuplicateAnchor creates a DuplicateAnchorError
func NewDuplicateAnchor(anchor string, line int) *DuplicateAnchorError {
	return &DuplicateAnchorError{
		Anchor: anchor,
		Line:   line,
	}
}

// NewConvert creates a ConvertError
func NewConvert(kind, message string) *ConvertError {
	return &ConvertError{
		Kind:    kind,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
