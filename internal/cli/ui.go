package cli

import "fmt"

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorDim   = "\033[2m"
)

// ColorText wraps text with ANSI color codes
func ColorText(text, color string) string {
	return color + text + ColorReset
}

// FormatDuration formats seconds into human readable string
func FormatDuration(seconds float64) string {
	if seconds < 1 {
		return fmt.Sprintf("%.0fms", seconds*1000)
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", mins, secs)
}
