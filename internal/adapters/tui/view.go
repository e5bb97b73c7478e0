package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/ancestry/internal/ui/style"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.ListHeight <= 0 {
		return "Initializing..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.jobList(), m.logPane())
}

func (m *Model) jobList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("JOBS") + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Jobs))
	for i := m.ListOffset; i < end; i++ {
		b.WriteString(m.jobRow(i, m.Jobs[i]) + "\n")
	}

	done, failed := m.Totals()
	b.WriteString(pendingStyle.Render(fmt.Sprintf("%d/%d done, %d failed", done, len(m.Jobs), failed)))
	return listStyle.Render(b.String())
}

func (m *Model) jobRow(i int, node *JobNode) string {
	cursor := "  "
	rowStyle := statusStyle(node.Status)
	if i == m.Selected {
		cursor = selectedStyle.Render("> ")
		if node.Status == StatusPending || node.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	text := statusIcon(node.Status) + " " + node.Name
	if node.Status == StatusDone || node.Status == StatusFailed {
		text += " " + node.Duration.String()
	}
	return cursor + rowStyle.Render(text)
}

func (m *Model) logPane() string {
	node := m.SelectedJob()
	if node == nil {
		return logStyle.Render(titleStyle.Render("OUTPUT (waiting)"))
	}

	mode := "manual"
	if m.Follow {
		mode = "following"
	}
	title := titleStyle
	if node.Status == StatusFailed {
		title = failedTitleStyle
	}

	parts := []string{title.Render(fmt.Sprintf("OUTPUT: %s (%s)", node.Name, mode)), node.Term.View()}
	if node.Err != nil {
		parts = append(parts, failedStyle.Render(style.Cross+" "+node.Err.Error()))
	}
	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func statusIcon(s JobStatus) string {
	switch s {
	case StatusRunning:
		return style.Running
	case StatusDone:
		return style.Check
	case StatusFailed:
		return style.Cross
	default:
		return style.Pending
	}
}

func statusStyle(s JobStatus) lipgloss.Style {
	switch s {
	case StatusRunning:
		return runningStyle
	case StatusDone:
		return doneStyle
	case StatusFailed:
		return failedStyle
	default:
		return pendingStyle
	}
}
