package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/fleetrisk/schema"
)

// Color variables for console output.
var (
	RedColor    = color.New(color.FgRed, color.Bold) // RedColor represents immediate intervention.
	YellowColor = color.New(color.FgYellow)          // YellowColor represents caution, not bold.
	GreenColor  = color.New(color.FgGreen)           // GreenColor represents a safe driver.
)

// GetPlainLabel returns the display text for a risk level.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(level schema.RiskLevel) string {
	switch level {
	case schema.RedLevel, schema.YellowLevel, schema.GreenLevel:
		return string(level)
	default:
		return "Unknown"
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(level schema.RiskLevel) string {
	text := GetPlainLabel(level)

	switch level {
	case schema.RedLevel:
		return RedColor.Sprint(text)
	case schema.YellowLevel:
		return YellowColor.Sprint(text)
	case schema.GreenLevel:
		return GreenColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
