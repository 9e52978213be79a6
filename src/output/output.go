// Package output renders pipeline progress and summaries for terminals
// and CI job logs.
package output

import "os"

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// Bold wraps text in bold escapes when color is enabled.
func Bold(text string, color bool) string {
	if !color {
		return text
	}
	return colorBold + text + colorReset
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	if !color {
		return text
	}
	return colorGray + text + colorReset
}
