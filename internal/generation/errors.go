package generation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Common errors returned by the generation package
var (
	// ErrEmptyFields is returned when a generation request carries no usable input.
	ErrEmptyFields = errors.New("at least one input field must be provided")

	// ErrInvalidKind is returned when the document kind is not supported.
	ErrInvalidKind = errors.New("unsupported document kind")

	// ErrInvalidConfig is returned when a pipeline dependency is missing or invalid.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)

// ErrorClass tags a transport failure as retryable or not. Transports
// classify their own SDK errors once, at the boundary; the retry loop only
// inspects the tag.
type ErrorClass int

const (
	// ClassPermanent marks failures that will not succeed on retry
	// (auth failure, malformed request, model rejection).
	ClassPermanent ErrorClass = iota

	// ClassTransient marks failures likely to clear on retry
	// (timeouts, dropped connections, throttling).
	ClassTransient
)

// String returns the class name for logging.
func (c ErrorClass) String() string {
	if c == ClassTransient {
		return "transient"
	}
	return "permanent"
}

// TransportError wraps an error from the model transport with its
// retry classification. The underlying error is preserved unwrapped so
// callers can still match on SDK error types.
type TransportError struct {
	Class ErrorClass
	Err   error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Class, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable transport failure.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Class: ClassTransient, Err: err}
}

// Permanent wraps err as a non-retryable transport failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Class: ClassPermanent, Err: err}
}

// IsTransient reports whether err is classified as retryable. Unclassified
// errors are treated as permanent: anything a transport did not explicitly
// mark transient propagates without retry.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Class == ClassTransient
}

// ExtractionError is returned when no JSON object could be recovered from
// the model's raw output by any of the fallback strategies. It carries a
// bounded excerpt of the offending text for diagnostics, never the full
// output.
type ExtractionError struct {
	Excerpt string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no JSON object could be extracted from model output: %q", e.Excerpt)
}

// SchemaError is returned when a parsed object fundamentally fails the
// document schema (no slide sequence, or an empty one). These defects are
// fatal rather than repairable: they indicate the generation itself failed.
type SchemaError struct {
	Reason  string
	Excerpt string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("model output violates document schema: %s", e.Reason)
	}
	return fmt.Sprintf("model output violates document schema: %s: %q", e.Reason, e.Excerpt)
}

// excerptLimit bounds the diagnostic excerpt carried on extraction and
// schema errors, keeping log and error sizes predictable.
const excerptLimit = 200

// excerpt truncates s to at most maxRunes runes, never splitting a rune.
func excerpt(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
