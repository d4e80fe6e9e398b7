// Package logging provides the structured logger contract shared by
// every pipeline component, plus a no-op and a plain stderr
// implementation. No component holds a package-level logger; every
// constructor takes one explicitly.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// LogField is a single structured key/value pair attached to a log line.
type LogField struct {
	Key   string
	Value any
}

// Logger is implemented by NopLogger, GoLogger, and ConsoleLogger.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, err error, fields ...LogField)
	With(fields ...LogField) Logger
}

// NopLogger discards everything. Safe default for library code.
type NopLogger struct{}

func (NopLogger) Debug(string, ...LogField)        {}
func (NopLogger) Info(string, ...LogField)         {}
func (NopLogger) Warn(string, ...LogField)         {}
func (NopLogger) Error(string, error, ...LogField) {}
func (n NopLogger) With(...LogField) Logger        { return n }

// Level orders log severities for filtering.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// GoLogger wraps the standard library's *log.Logger. Its default
// logger writes to stderr, never stdout, so machine-readable output on
// stdout is not corrupted by log lines.
type GoLogger struct {
	logger *log.Logger
	level  Level
	fields []LogField
}

// NewGoLogger wraps logger (defaulting to a stderr logger with
// "[depgraph] " prefix) at the given minimum level.
func NewGoLogger(logger *log.Logger, level Level) *GoLogger {
	if logger == nil {
		logger = log.New(os.Stderr, "[depgraph] ", log.LstdFlags)
	}
	return &GoLogger{logger: logger, level: level}
}

// NewDevLogger is a convenience constructor writing to stderr at Info level.
func NewDevLogger() *GoLogger {
	return NewGoLogger(log.New(os.Stderr, "[depgraph] ", log.LstdFlags), LevelInfo)
}

func (g *GoLogger) shouldLog(level Level) bool { return level >= g.level }

func (g *GoLogger) formatFields(fields []LogField) string {
	all := append(append([]LogField{}, g.fields...), fields...)
	if len(all) == 0 {
		return ""
	}
	parts := make([]string, 0, len(all))
	for _, f := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (g *GoLogger) Debug(msg string, fields ...LogField) {
	if g.shouldLog(LevelDebug) {
		g.logger.Printf("DEBUG %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Info(msg string, fields ...LogField) {
	if g.shouldLog(LevelInfo) {
		g.logger.Printf("INFO %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Warn(msg string, fields ...LogField) {
	if g.shouldLog(LevelWarn) {
		g.logger.Printf("WARN %s%s", msg, g.formatFields(fields))
	}
}

func (g *GoLogger) Error(msg string, err error, fields ...LogField) {
	if !g.shouldLog(LevelError) {
		return
	}
	if err != nil {
		fields = append(fields, LogField{Key: "error", Value: err.Error()})
	}
	g.logger.Printf("ERROR %s%s", msg, g.formatFields(fields))
}

func (g *GoLogger) With(fields ...LogField) Logger {
	return &GoLogger{logger: g.logger, level: g.level, fields: append(append([]LogField{}, g.fields...), fields...)}
}

// newWriterLogger is used internally by tests that want to capture output.
func newWriterLogger(w io.Writer, level Level) *GoLogger {
	return NewGoLogger(log.New(w, "", 0), level)
}

// timestamp formats the current time as HH:MM:SS. Neither ConsoleLogger
// nor GoLogger calls it.
func timestamp() string {
	return time.Now().Format("15:04:05")
}
