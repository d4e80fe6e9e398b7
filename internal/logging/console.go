package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ConsoleLogger is a colorized, level-filtered logger for the CLI. It
// also prints the human-readable run summary required whenever the
// CLI is not invoked with --quiet.
type ConsoleLogger struct {
	writer  io.Writer
	level   Level
	mu      sync.Mutex
	color   bool
	fields  []LogField
}

// NewConsoleLogger builds a logger writing to w at the given level.
// Color is enabled only when w is a real terminal and NO_COLOR is unset.
func NewConsoleLogger(w io.Writer, level Level) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleLogger{writer: w, level: level, color: isTerminalWriter(w) && os.Getenv("NO_COLOR") == ""}
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *ConsoleLogger) levelTag(level Level) string {
	tag := level.String()
	if !c.color {
		return tag
	}
	switch level {
	case LevelDebug:
		return color.New(color.FgCyan).Sprint(tag)
	case LevelInfo:
		return color.New(color.FgBlue).Sprint(tag)
	case LevelWarn:
		return color.New(color.FgYellow).Sprint(tag)
	case LevelError:
		return color.New(color.FgRed, color.Bold).Sprint(tag)
	default:
		return tag
	}
}

func (c *ConsoleLogger) shouldLog(level Level) bool { return level >= c.level }

func (c *ConsoleLogger) emit(level Level, msg string, fields []LogField) {
	if !c.shouldLog(level) {
		return
	}
	all := append(append([]LogField{}, c.fields...), fields...)
	var b strings.Builder
	b.WriteString(c.levelTag(level))
	b.WriteString("  ")
	b.WriteString(msg)
	for _, f := range all {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	c.mu.Lock()
	fmt.Fprintln(c.writer, b.String())
	c.mu.Unlock()
}

func (c *ConsoleLogger) Debug(msg string, fields ...LogField) { c.emit(LevelDebug, msg, fields) }
func (c *ConsoleLogger) Info(msg string, fields ...LogField)  { c.emit(LevelInfo, msg, fields) }
func (c *ConsoleLogger) Warn(msg string, fields ...LogField)  { c.emit(LevelWarn, msg, fields) }

func (c *ConsoleLogger) Error(msg string, err error, fields ...LogField) {
	if err != nil {
		fields = append(fields, LogField{Key: "error", Value: err.Error()})
	}
	c.emit(LevelError, msg, fields)
}

func (c *ConsoleLogger) With(fields ...LogField) Logger {
	return &ConsoleLogger{writer: c.writer, level: c.level, color: c.color, fields: append(append([]LogField{}, c.fields...), fields...)}
}

// RunSummary is the fields of the human-readable summary printed after
// an analysis run unless --quiet was given.
type RunSummary struct {
	RepositoryPath string
	FilesScanned   int
	FilesSkipped   int
	Nodes          int
	Edges          int
	Cycles         int
	Errors         int
	CacheHit       bool
	Duration       string
}

// terminalWidth returns the width of the terminal on stdout, capped at
// 100. It falls back to 80 when detection fails (e.g. output is
// redirected to a file) or the terminal is narrower than 60 columns.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 60 {
		return 80
	}
	if width > 100 {
		return 100
	}
	return width
}

// PrintSummary writes a short colorized box summarizing a completed run.
func (c *ConsoleLogger) PrintSummary(s RunSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bold := func(s string) string {
		if !c.color {
			return s
		}
		return color.New(color.Bold).Sprint(s)
	}
	green := func(s string) string {
		if !c.color {
			return s
		}
		return color.New(color.FgGreen).Sprint(s)
	}
	yellow := func(s string) string {
		if !c.color {
			return s
		}
		return color.New(color.FgYellow).Sprint(s)
	}
	cyan := func(s string) string {
		if !c.color {
			return s
		}
		return color.New(color.FgCyan).Sprint(s)
	}

	status := green("ok")
	if s.Errors > 0 {
		status = yellow(fmt.Sprintf("%d errors", s.Errors))
	}
	cacheTag := "miss"
	if s.CacheHit {
		cacheTag = "hit"
	}

	width := terminalWidth()
	border := cyan(strings.Repeat("-", width))

	fmt.Fprintln(c.writer, border)
	fmt.Fprintln(c.writer, bold("depgraph analysis")+" "+s.RepositoryPath)
	fmt.Fprintf(c.writer, "  files scanned: %d  skipped: %d\n", s.FilesScanned, s.FilesSkipped)
	fmt.Fprintf(c.writer, "  nodes: %d  edges: %d  cycles: %d\n", s.Nodes, s.Edges, s.Cycles)
	fmt.Fprintf(c.writer, "  cache: %s  duration: %s  status: %s\n", cacheTag, s.Duration, status)
	fmt.Fprintln(c.writer, border)
}
