package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, LevelWarn)

	l.Debug("should not appear")
	l.Info("should not appear either")
	l.Warn("this appears")

	out := buf.String()
	require.NotContains(t, out, "should not appear")
	require.Contains(t, out, "WARN this appears")
}

func TestGoLogger_ErrorIncludesErrField(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, LevelDebug)

	l.Error("failed", require.AnError)

	out := buf.String()
	require.Contains(t, out, "ERROR failed")
	require.Contains(t, out, "error="+require.AnError.Error())
}

func TestGoLogger_WithAttachesFieldsToSubsequentCalls(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, LevelDebug)
	child := l.With(LogField{Key: "repo", Value: "x"})

	child.Info("hello")

	out := buf.String()
	require.Contains(t, out, "repo=x")
}

func TestGoLogger_FieldsAreSpaceSeparatedInBrackets(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, LevelDebug)
	l.Info("msg", LogField{Key: "a", Value: 1}, LogField{Key: "b", Value: "two"})

	out := strings.TrimSpace(buf.String())
	require.Contains(t, out, "[a=1 b=two]")
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	var n NopLogger
	n.Debug("x")
	n.Info("x")
	n.Warn("x")
	n.Error("x", require.AnError)
	require.Equal(t, n, n.With(LogField{Key: "a", Value: 1}))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
}
