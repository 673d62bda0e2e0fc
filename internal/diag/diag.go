// Package diag is sysand's ambient logging seam: a minimal io.Writer
// wrapper in the style of golang-dep's own log package, with colored
// level prefixes for terminal output.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	warnPrefix = color.New(color.FgYellow, color.Bold).SprintFunc()
	errPrefix  = color.New(color.FgRed, color.Bold).SprintFunc()
	okPrefix   = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Logger is a minimal wrapper around an io.Writer, mirroring golang-dep's
// own cmd/dep/loggers.go split between a plain logger and a verbose one.
type Logger struct {
	io.Writer
}

// New returns a new Logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Warnf logs a formatted line prefixed with a colored "warning:" tag.
func (l *Logger) Warnf(f string, args ...interface{}) {
	fmt.Fprintf(l, warnPrefix("warning: ")+f+"\n", args...)
}

// Errorf logs a formatted line prefixed with a colored "error:" tag.
func (l *Logger) Errorf(f string, args ...interface{}) {
	fmt.Fprintf(l, errPrefix("error: ")+f+"\n", args...)
}

// Successf logs a formatted line prefixed with a colored checkmark.
func (l *Logger) Successf(f string, args ...interface{}) {
	fmt.Fprintf(l, okPrefix("✓ ")+f+"\n", args...)
}
