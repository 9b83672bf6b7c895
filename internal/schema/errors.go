package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the stable category of a generation failure. Every kind is fatal
// for the run that produced it.
type ErrorKind string

const (
	// KindUnsupportedSchema: the category/handler pair matches no known grammar.
	KindUnsupportedSchema ErrorKind = "unsupported-schema"
	// KindMissingArtifact: a case directory lacks a required file.
	KindMissingArtifact ErrorKind = "missing-artifact"
	// KindMalformedBits: a bitlist without sentinel, or a bit count beyond its bound.
	KindMalformedBits ErrorKind = "malformed-bit-encoding"
	// KindStructuralMismatch: a value tree does not have the shape its schema requires.
	KindStructuralMismatch ErrorKind = "structural-mismatch"
)

// Error carries enough context to locate the offending corpus entry.
// Use errors.As or IsKind instead of matching on the message.
type Error struct {
	Kind     ErrorKind
	Category string
	Handler  string
	Field    string
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Category != "" || e.Handler != "" {
		b.WriteString(" [")
		b.WriteString(e.Category)
		if e.Handler != "" {
			b.WriteString("/")
			b.WriteString(e.Handler)
		}
		b.WriteString("]")
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Errorf builds an *Error of the given kind with a formatted detail and no
// case context; callers higher up attach Category and Handler with WithCase.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around cause.
func Wrap(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

// WithCase attaches the corpus location to err. A bare *Error has its empty
// Category and Handler filled in place. An error that wraps an *Error without
// a location is wrapped once more in an *Error of the same kind carrying it,
// since the outer message was fixed when it was built. Errors that already
// carry a location, and errors with no *Error inside, are returned unchanged.
func WithCase(err error, category, handler string) error {
	if e, ok := err.(*Error); ok {
		if e.Category == "" {
			e.Category = category
		}
		if e.Handler == "" {
			e.Handler = handler
		}
		return e
	}
	var inner *Error
	if !errors.As(err, &inner) || inner.Category != "" || inner.Handler != "" {
		return err
	}
	return &Error{Kind: inner.Kind, Category: category, Handler: handler, Err: err}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
