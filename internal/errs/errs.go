// Package errs defines the error taxonomy shared across the analysis
// pipeline: validation, io, parse, resolve, cache, and fatal, each
// carrying the operation and path that produced it.
package errs

import "fmt"

// Kind is one of the six error categories recognized by the pipeline.
type Kind string

const (
	Validation Kind = "validation"
	IO         Kind = "io"
	Parse      Kind = "parse"
	Resolve    Kind = "resolve"
	Cache      Kind = "cache"
	Fatal      Kind = "fatal"
)

// Error wraps an underlying error with the kind, operation, and path
// that produced it, so callers can branch on Kind without string
// matching and still reach the cause via errors.Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a tagged Error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Is reports whether target is an *Error of the same Kind, so callers
// can write errors.Is(err, errs.Validation) style checks via a sentinel
// built with Sentinel below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Err == nil && t.Op == "" && t.Path == "" {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinel returns a comparison value usable with errors.Is to check
// only the Kind of an Error, e.g. errors.Is(err, errs.Sentinel(errs.IO)).
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// PanicError records a recovered panic as a fatal-shaped parse error.
type PanicError struct {
	Op       string
	Path     string
	Recovery any
	Stack    []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered in %s %s: %v", e.Op, e.Path, e.Recovery)
}
