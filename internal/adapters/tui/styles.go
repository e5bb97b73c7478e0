package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/ancestry/internal/ui/style"
)

var (
	pendingStyle  = lipgloss.NewStyle().Foreground(style.Muted)
	runningStyle  = lipgloss.NewStyle().Foreground(style.Accent).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(style.Success)
	failedStyle   = lipgloss.NewStyle().Foreground(style.Failure)
	selectedStyle = lipgloss.NewStyle().Foreground(style.Accent).Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(style.Inverse)

	failedTitleStyle = titleStyle.Background(style.Failure)

	listStyle = lipgloss.NewStyle().PaddingRight(2)
	logStyle  = lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true)
)
