// Package tui shows job progress as an interactive terminal view: the job
// list on the left and the selected job's output on the right.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidthRatio = 0.3
	logPaneBorder  = 4
)

// JobStatus is the state of a job in the view.
type JobStatus int

const (
	// StatusPending is a planned job that has not started.
	StatusPending JobStatus = iota
	// StatusRunning is a job whose span is open.
	StatusRunning
	// StatusDone is a job that succeeded.
	StatusDone
	// StatusFailed is a job that returned an error.
	StatusFailed
)

// JobNode is one row of the job list.
type JobNode struct {
	Name     string
	Status   JobStatus
	Err      error
	Started  time.Time
	Duration time.Duration
	Term     *Terminal
}

// Model is the state of the view. It is only touched by the program's event loop.
type Model struct {
	Jobs       []*JobNode
	Selected   int
	ListOffset int
	ListHeight int
	LogWidth   int
	LogHeight  int
	Follow     bool

	byName map[string]*JobNode
	bySpan map[string]*JobNode
}

// NewModel creates an empty model that follows running jobs.
func NewModel() *Model {
	return &Model{
		byName: make(map[string]*JobNode),
		bySpan: make(map[string]*JobNode),
		Follow: true,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
//
//nolint:cyclop // one case per message type
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case MsgInitJobs:
		m.Jobs = make([]*JobNode, 0, len(msg.Jobs))
		m.byName = make(map[string]*JobNode, len(msg.Jobs))
		m.bySpan = make(map[string]*JobNode)
		m.Selected, m.ListOffset = 0, 0
		for _, name := range msg.Jobs {
			node := &JobNode{Name: name, Term: NewTerminal()}
			if m.LogWidth > 0 && m.LogHeight > 0 {
				node.Term.Resize(m.LogWidth, m.LogHeight)
			}
			m.Jobs = append(m.Jobs, node)
			m.byName[name] = node
		}

	case MsgJobStart:
		node, ok := m.byName[msg.Name]
		if !ok {
			return m, nil
		}
		node.Status = StatusRunning
		node.Started = msg.StartTime
		m.bySpan[msg.SpanID] = node
		if m.Follow {
			m.selectJob(node)
		}

	case MsgJobLog:
		if node, ok := m.bySpan[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgJobComplete:
		node, ok := m.bySpan[msg.SpanID]
		if !ok {
			return m, nil
		}
		node.Duration = msg.EndTime.Sub(node.Started)
		node.Err = msg.Err
		if msg.Err != nil {
			node.Status = StatusFailed
		} else {
			node.Status = StatusDone
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		m.Follow = false
		m.moveSelection(-1)
	case "j", "down":
		m.Follow = false
		m.moveSelection(1)
	case "esc", "f":
		m.Follow = true
		for _, node := range m.Jobs {
			if node.Status == StatusRunning {
				m.selectJob(node)
				break
			}
		}
	case "pgup":
		if node := m.SelectedJob(); node != nil {
			node.Term.Scroll(-m.LogHeight)
		}
	case "pgdown":
		if node := m.SelectedJob(); node != nil {
			node.Term.Scroll(m.LogHeight)
		}
	case "end":
		if node := m.SelectedJob(); node != nil {
			node.Term.ScrollToEnd()
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * listWidthRatio)
	m.LogWidth = width - listWidth - logPaneBorder

	header := lipgloss.Height(titleStyle.Render("JOBS"))
	m.LogHeight = height - header - 1
	// Title, blank line and the totals line.
	m.ListHeight = height - header - 2
	m.ensureVisible()

	for _, node := range m.Jobs {
		node.Term.Resize(m.LogWidth, m.LogHeight)
	}
}

// SelectedJob returns the job whose output is shown, or nil before a plan.
func (m *Model) SelectedJob() *JobNode {
	if m.Selected >= 0 && m.Selected < len(m.Jobs) {
		return m.Jobs[m.Selected]
	}
	return nil
}

func (m *Model) selectJob(node *JobNode) {
	for i, n := range m.Jobs {
		if n == node {
			m.Selected = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) moveSelection(delta int) {
	m.Selected = min(max(m.Selected+delta, 0), max(len(m.Jobs)-1, 0))
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.Selected < m.ListOffset {
		m.ListOffset = m.Selected
	} else if m.Selected >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.Selected - m.ListHeight + 1
	}
}

// Totals counts finished jobs.
func (m *Model) Totals() (done, failed int) {
	for _, node := range m.Jobs {
		switch node.Status {
		case StatusDone:
			done++
		case StatusFailed:
			failed++
		}
	}
	return done, failed
}
