package ui

import "fmt"

// Status symbols prefixed to one-line messages.
const (
	SymbolSuccess = "✓"
	SymbolWarning = "⚠"
)

func status(symbol, msg string) string {
	return symbol + " " + msg
}

// Success prefixes msg with a checkmark.
func Success(msg string) string { return status(SymbolSuccess, msg) }

// Successf is Success with formatting.
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Warning prefixes msg with a warning sign. Warnings go to stderr.
func Warning(msg string) string { return status(SymbolWarning, msg) }

// Header styles a section title such as a preset name.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath styles a path the user may want to copy.
func FilePath(path string) string { return Accent.Render(path) }

// Hint styles secondary text.
func Hint(msg string) string { return Muted.Render(msg) }

// Count returns a label such as "(3 presets)".
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("(%d %s)", n, noun)
}
