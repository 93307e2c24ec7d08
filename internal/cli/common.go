package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatError formats an error message for CLI output.
func FormatError(err error) string {
	return text.FgRed.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output.
func FormatSuccess(msg string) string {
	return text.FgGreen.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output.
func FormatWarning(msg string) string {
	return text.FgYellow.Sprintf("⚠ %s", msg)
}

// FormatHeading formats a section heading for status-style output.
func FormatHeading(msg string) string {
	return text.Bold.Sprint(msg)
}

// FormatMuted formats de-emphasized detail text.
func FormatMuted(msg string) string {
	return text.Faint.Sprint(msg)
}

// StatusBadge renders an authenticated/unauthenticated indicator.
func StatusBadge(authenticated bool) string {
	if authenticated {
		return text.FgGreen.Sprint("Authenticated")
	}
	return text.FgRed.Sprint("Unauthenticated")
}

// Bullet renders a labeled detail line for status-style output.
func Bullet(label, value string) string {
	return fmt.Sprintf("  %-16s %s", label+":", value)
}
