// Package output builds termenv outputs for the log and progress streams.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile selects the color profile of an output.
type Profile func() termenv.Profile

// Detected asks the terminal for its capabilities. NO_COLOR forces Ascii.
func Detected() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Basic assumes 16-color ANSI, which CI log viewers render. NO_COLOR forces Ascii.
func Basic() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New returns an output writing to w, or os.Stderr when w is nil.
// A nil profile means Detected.
func New(w io.Writer, profile Profile) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	if profile == nil {
		profile = Detected
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile()), termenv.WithTTY(true))
}
