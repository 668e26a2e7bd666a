// Package errors provides standardized error types and helpers for Juniper Reports.
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
	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
	// ErrEmptyCorpus indicates that corpus discovery produced no documents
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrAnalyzerFailed indicates an analyzer returned an error or panicked
	ErrAnalyzerFailed = errors.New("analyzer failed")
)

// ParseError represents a parsing failure in a reference, document or config file
type ParseError struct {
	Format  string // What was being parsed (e.g., "reference", "USFM", "USX")
	Path    string // File path or input string, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
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

// DuplicateError reports a second registration under a name already in use
type DuplicateError struct {
	Kind string // Kind of thing registered (e.g., "analyzer")
	Name string // Conflicting name
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already registered: %q", e.Kind, e.Name)
}

func (e *DuplicateError) Unwrap() error {
	return ErrAlreadyExists
}

// AnalyzerError attributes an execution failure to a single analyzer
type AnalyzerError struct {
	Analyzer string // Name of the failing analyzer
	Panic    bool   // True if the failure was a recovered panic
	Err      error  // Underlying error
}

func (e *AnalyzerError) Error() string {
	if e.Panic {
		return fmt.Sprintf("analyzer %s panicked: %v", e.Analyzer, e.Err)
	}
	return fmt.Sprintf("analyzer %s failed: %v", e.Analyzer, e.Err)
}

// Is matches ErrAnalyzerFailed in addition to the wrapped error chain.
func (e *AnalyzerError) Is(target error) bool {
	return target == ErrAnalyzerFailed
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
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

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
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

// NewDuplicate creates a DuplicateError
func NewDuplicate(kind, name string) *DuplicateError {
	return &DuplicateError{
		Kind: kind,
		Name: name,
	}
}

// NewAnalyzer creates an AnalyzerError
func NewAnalyzer(name string, err error) *AnalyzerError {
	return &AnalyzerError{
		Analyzer: name,
		Err:      err,
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
