package panics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/internal/errs"
)

func TestWithOperation_PropagatesPlainError(t *testing.T) {
	h := New(nil)
	want := errors.New("boom")
	err := h.WithOperation(context.Background(), "parse_file", "a.js", func() error {
		return want
	})
	require.Equal(t, want, err)
}

func TestWithOperation_RecoversPanicAsParseError(t *testing.T) {
	h := New(nil)
	err := h.WithOperation(context.Background(), "parse_file", "a.js", func() error {
		panic("unexpected nil map write")
	})
	require.Error(t, err)

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, errs.Parse, e.Kind)
	require.Equal(t, "a.js", e.Path)

	var pe *errs.PanicError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "unexpected nil map write", pe.Recovery)
}

func TestWithOperation_NoPanicNoErrorReturnsNil(t *testing.T) {
	h := New(nil)
	err := h.WithOperation(context.Background(), "parse_file", "a.js", func() error {
		return nil
	})
	require.NoError(t, err)
}
