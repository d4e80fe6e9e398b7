package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_MessageIncludesKindOpAndPath(t *testing.T) {
	e := New(Validation, "validate_root", "/repo", errors.New("not a directory"))
	require.Equal(t, "validation: validate_root /repo: not a directory", e.Error())
}

func TestError_MessageOmitsPathWhenEmpty(t *testing.T) {
	e := New(Fatal, "scan", "", errors.New("boom"))
	require.Equal(t, "fatal: scan: boom", e.Error())
}

func TestError_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("cause")
	e := New(IO, "read", "a.js", cause)
	require.Equal(t, cause, errors.Unwrap(e))
}

func TestError_IsMatchesOnKindViaSentinel(t *testing.T) {
	e := New(IO, "read", "a.js", errors.New("eof"))
	require.True(t, errors.Is(e, Sentinel(IO)))
	require.False(t, errors.Is(e, Sentinel(Parse)))
}

func TestPanicError_ErrorIncludesOpPathAndRecovery(t *testing.T) {
	pe := &PanicError{Op: "parse_file", Path: "a.js", Recovery: "index out of range"}
	require.Contains(t, pe.Error(), "parse_file")
	require.Contains(t, pe.Error(), "a.js")
	require.Contains(t, pe.Error(), "index out of range")
}
