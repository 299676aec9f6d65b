// Package ui provides colored console status output for the CLI.
//
// Status lines go to Output, which defaults to standard error so that
// rendered templates on standard output stay clean.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
)

// Output receives every status line.
var Output io.Writer = color.Error

// SetOutput redirects status lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	previous := Output
	Output = w
	return previous
}

// Success prints a green success message with checkmark.
func Success(format string, args ...any) {
	Green.Fprintf(Output, "✓ "+format+"\n", args...)
}

// Error prints a red error message with X.
func Error(format string, args ...any) {
	Red.Fprintf(Output, "✗ "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(format string, args ...any) {
	Yellow.Fprintf(Output, "⚠ "+format+"\n", args...)
}

// Info prints a blue info message.
func Info(format string, args ...any) {
	Blue.Fprintf(Output, format+"\n", args...)
}

// Item prints an indented list entry with a cyan bullet.
func Item(format string, args ...any) {
	Cyan.Fprint(Output, "  • ")
	fmt.Fprintf(Output, format+"\n", args...)
}

// Header prints a bold header.
func Header(format string, args ...any) {
	Bold.Fprintf(Output, format+"\n", args...)
}
