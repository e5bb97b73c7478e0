// Package style holds the colors and symbols shared by log and progress output.
package style

import "github.com/charmbracelet/lipgloss"

// Status colors.
var (
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
	Success = lipgloss.Color("#22A06B")
	Muted   = lipgloss.Color("#667085")
	Accent  = lipgloss.Color("#8B5CF6")
	Inverse = lipgloss.Color("#FFFFFF")
)

// Status symbols.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Running = "●"
	Pending = "○"
)
