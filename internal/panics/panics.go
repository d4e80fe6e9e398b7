// Package panics provides a reusable panic-to-error boundary for
// per-file pipeline stages, so a single malformed file cannot abort an
// entire analysis run.
package panics

import (
	"context"
	"runtime/debug"

	"github.com/nuthan-ms/depgraph/internal/errs"
	"github.com/nuthan-ms/depgraph/internal/logging"
)

// Handler recovers panics raised inside a per-file operation and turns
// them into a *errs.Error of kind Parse, logging the op, path and panic
// value; the stack trace is kept on the wrapped *errs.PanicError.
type Handler struct {
	logger logging.Logger
}

// New builds a Handler. A nil logger is replaced with logging.NopLogger.
func New(logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Handler{logger: logger}
}

// Recover must be called via defer as:
//
//	defer func() { err = h.Recover(op, path, err) }()
func (h *Handler) Recover(op, path string, existingErr error) error {
	if r := recover(); r != nil {
		stack := debug.Stack()
		h.logger.Error("panic recovered", nil,
			logging.LogField{Key: "op", Value: op},
			logging.LogField{Key: "path", Value: path},
			logging.LogField{Key: "panic", Value: r},
		)
		return errs.New(errs.Parse, op, path, &errs.PanicError{Op: op, Path: path, Recovery: r, Stack: stack})
	}
	return existingErr
}

// WithOperation runs fn under panic recovery. A panic becomes a tagged
// error; an error returned by fn is passed through unchanged.
func (h *Handler) WithOperation(ctx context.Context, op, path string, fn func() error) (err error) {
	defer func() { err = h.Recover(op, path, err) }()
	return fn()
}
