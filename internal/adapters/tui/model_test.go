package tui_test

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/adapters/tui"
)

func updateModel(m *tui.Model, msg tea.Msg) (*tui.Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(*tui.Model), cmd
}

func TestModel_Update(t *testing.T) {
	const (
		jobName1 = "app"
		jobName2 = "db"
		jobName3 = "web"
		spanID1  = "span-1"
		spanID2  = "span-2"
	)

	initModel := func(_ *testing.T) *tui.Model {
		m, _ := updateModel(tui.NewModel(), tui.MsgInitJobs{Jobs: []string{jobName1, jobName2, jobName3}})
		return m
	}

	t.Run("Window Resizing", func(t *testing.T) {
		m := initModel(t)

		width, height := 100, 50
		m, _ = updateModel(m, tea.WindowSizeMsg{Width: width, Height: height})

		expectedLogWidth := width - int(float64(width)*0.3) - 4
		assert.Equal(t, expectedLogWidth, m.LogWidth)
		assert.Positive(t, m.ListHeight)
		assert.Less(t, m.ListHeight, height)
		assert.Positive(t, m.LogHeight)

		termWidth, termHeight := m.Jobs[0].Term.Size()
		assert.Equal(t, expectedLogWidth, termWidth)
		assert.Equal(t, m.LogHeight, termHeight)
	})

	t.Run("Selection Navigation", func(t *testing.T) {
		m := initModel(t)

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		assert.Equal(t, 1, m.Selected)
		assert.False(t, m.Follow, "manual navigation stops following")

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 2, m.Selected)

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 2, m.Selected)

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
		assert.Equal(t, 1, m.Selected)

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
		assert.Equal(t, 0, m.Selected)
	})

	t.Run("Quit", func(t *testing.T) {
		m := initModel(t)
		_, cmd := updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())

		_, cmd = updateModel(m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("Job Lifecycle", func(t *testing.T) {
		m := initModel(t)
		m, _ = updateModel(m, tea.WindowSizeMsg{Width: 100, Height: 20})
		start := time.Now()

		m, _ = updateModel(m, tui.MsgJobStart{SpanID: spanID1, Name: jobName2, StartTime: start})
		assert.Equal(t, tui.StatusRunning, m.Jobs[1].Status)
		assert.Equal(t, 1, m.Selected, "following selects the running job")

		m, _ = updateModel(m, tui.MsgJobLog{SpanID: spanID1, Data: []byte("matched 3\r\n")})
		assert.Contains(t, m.Jobs[1].Term.View(), "matched 3")

		m, _ = updateModel(m, tui.MsgJobComplete{SpanID: spanID1, EndTime: start.Add(time.Second)})
		assert.Equal(t, tui.StatusDone, m.Jobs[1].Status)
		assert.Equal(t, time.Second, m.Jobs[1].Duration)

		failure := errors.New("decode failed")
		m, _ = updateModel(m, tui.MsgJobStart{SpanID: spanID2, Name: jobName3, StartTime: start})
		m, _ = updateModel(m, tui.MsgJobComplete{SpanID: spanID2, EndTime: start, Err: failure})
		assert.Equal(t, tui.StatusFailed, m.Jobs[2].Status)
		assert.Equal(t, failure, m.Jobs[2].Err)

		done, failed := m.Totals()
		assert.Equal(t, 1, done)
		assert.Equal(t, 1, failed)
	})

	t.Run("Unknown Spans Are Ignored", func(t *testing.T) {
		m := initModel(t)

		m, _ = updateModel(m, tui.MsgJobStart{SpanID: spanID1, Name: "ghost"})
		m, _ = updateModel(m, tui.MsgJobLog{SpanID: spanID1, Data: []byte("x")})
		m, _ = updateModel(m, tui.MsgJobComplete{SpanID: spanID1})

		for _, job := range m.Jobs {
			assert.Equal(t, tui.StatusPending, job.Status)
		}
	})

	t.Run("Escape Resumes Following", func(t *testing.T) {
		m := initModel(t)
		m, _ = updateModel(m, tui.MsgJobStart{SpanID: spanID1, Name: jobName3})
		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
		assert.False(t, m.Follow)
		assert.Equal(t, 1, m.Selected)

		m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.True(t, m.Follow)
		assert.Equal(t, 2, m.Selected)
	})

	t.Run("List Scrolls With Selection", func(t *testing.T) {
		jobs := make([]string, 40)
		for i := range jobs {
			jobs[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
		}
		m, _ := updateModel(tui.NewModel(), tui.MsgInitJobs{Jobs: jobs})
		m, _ = updateModel(m, tea.WindowSizeMsg{Width: 80, Height: 10})

		for range 20 {
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
		}
		assert.Equal(t, 20, m.Selected)
		assert.LessOrEqual(t, m.ListOffset, m.Selected)
		assert.Less(t, m.Selected, m.ListOffset+m.ListHeight)
	})
}

func TestModel_View(t *testing.T) {
	m := tui.NewModel()
	assert.Equal(t, "Initializing...", m.View())

	m, _ = updateModel(m, tui.MsgInitJobs{Jobs: []string{"app", "db"}})
	m, _ = updateModel(m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = updateModel(m, tui.MsgJobStart{SpanID: "s1", Name: "db"})
	m, _ = updateModel(m, tui.MsgJobLog{SpanID: "s1", Data: []byte("supplied 2 ancestors\r\n")})
	m, _ = updateModel(m, tui.MsgJobComplete{SpanID: "s1", Err: errors.New("dangling relationship")})

	view := m.View()
	assert.Contains(t, view, "JOBS")
	assert.Contains(t, view, "app")
	assert.Contains(t, view, "OUTPUT: db (following)")
	assert.Contains(t, view, "supplied 2 ancestors")
	assert.Contains(t, view, "dangling relationship")
	assert.Contains(t, view, "0/2 done, 1 failed")
}
