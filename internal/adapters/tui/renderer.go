package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer runs the interactive view as a ports.Renderer.
// Each Start opens a fresh program, so one Renderer serves every run of a watch session.
type Renderer struct {
	opts []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	done    chan error
}

// NewRenderer creates a renderer whose programs use opts.
func NewRenderer(opts ...tea.ProgramOption) *Renderer {
	return &Renderer{opts: opts}
}

// Start launches the view in a background goroutine.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		return nil
	}

	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, r.opts...)
	program := tea.NewProgram(NewModel(), opts...)
	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
	}()

	r.program = program
	r.done = done
	return nil
}

// Stop quits the view and waits for the terminal to be restored.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	program, done := r.program, r.done
	r.program, r.done = nil, nil
	r.mu.Unlock()

	if program == nil {
		return nil
	}

	program.Quit()
	err := <-done
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// OnPlanEmit lists the planned jobs.
func (r *Renderer) OnPlanEmit(jobs []string) {
	r.send(MsgInitJobs{Jobs: jobs})
}

// OnJobStart marks a job as running.
func (r *Renderer) OnJobStart(spanID, _, name string, startTime time.Time) {
	r.send(MsgJobStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnJobLog appends output to a job's terminal.
func (r *Renderer) OnJobLog(spanID string, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	r.send(MsgJobLog{SpanID: spanID, Data: buf})
}

// OnJobComplete marks a job as finished.
func (r *Renderer) OnJobComplete(spanID string, endTime time.Time, err error) {
	r.send(MsgJobComplete{SpanID: spanID, EndTime: endTime, Err: err})
}

func (r *Renderer) send(msg tea.Msg) {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}
