// Package detector selects the log format and progress output for the current environment.
package detector

import (
	"os"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogFormat represents how log records are rendered.
type LogFormat int

const (
	// FormatAuto automatically detects the appropriate format.
	FormatAuto LogFormat = iota
	// FormatPretty renders colored lines for humans.
	FormatPretty
	// FormatJSON renders one JSON object per record.
	FormatJSON
)

// String returns the flag spelling of the format.
func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// IsCI reports whether a CI environment variable is set.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// DetectEnvironment returns the recommended log format.
// Logs go to stderr, so a redirected stderr or a CI run selects JSON.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	if !isTTY || IsCI() {
		return FormatJSON
	}
	return FormatPretty
}

// ParseLogFormat parses a --log-format flag value.
func ParseLogFormat(flag string) (LogFormat, error) {
	switch flag {
	case "auto", "":
		return FormatAuto, nil
	case "pretty", "text":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, zerr.With(domain.ErrInvalidLogFormat, "format", flag)
	}
}

// ResolveFormat applies the user's choice to auto-detection.
func ResolveFormat(autoDetected, requested LogFormat) LogFormat {
	if requested == FormatAuto {
		return autoDetected
	}
	return requested
}

// OutputMode selects how job progress is shown.
type OutputMode int

const (
	// ModeAuto picks the interactive view on a terminal and linear output elsewhere.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive view.
	ModeTUI
	// ModeLinear forces line-by-line output.
	ModeLinear
)

// DetectMode returns the recommended output mode. The interactive view
// needs stdout on a terminal outside CI.
func DetectMode() OutputMode {
	if !term.IsTerminal(int(os.Stdout.Fd())) || IsCI() {
		return ModeLinear
	}
	return ModeTUI
}

// ParseOutputMode parses an --output-mode flag value.
func ParseOutputMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(domain.ErrInvalidOutputMode, "mode", flag)
	}
}

// ResolveMode applies the user's choice to auto-detection.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
