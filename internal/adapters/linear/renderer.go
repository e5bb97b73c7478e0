// Package linear provides a synchronous, line-buffered job progress renderer.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/ancestry/internal/ui/output"
	"go.trai.ch/ancestry/internal/ui/style"
)

// Renderer implements ports.Renderer with chronological, name-prefixed lines.
// Job output goes to stdout; lifecycle messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu        sync.Mutex
	jobs      map[string]*jobState // spanID -> job state
	planned   int
	succeeded int
	failed    int
}

type jobState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.New(stderr, output.Basic),
		jobs:   make(map[string]*jobState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes pending partial lines, prints the run totals and resets them.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		r.flushLocked(job)
	}

	if r.planned > 0 {
		_, _ = fmt.Fprintf(r.stderr, "%d job(s) succeeded, %d failed\n", r.succeeded, r.failed)
	}
	r.planned, r.succeeded, r.failed = 0, 0, 0
	return nil
}

// OnPlanEmit prints the planned jobs.
func (r *Renderer) OnPlanEmit(jobs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.planned += len(jobs)
	_, _ = fmt.Fprintf(r.stderr, "Contextualizing %d job(s): %v\n", len(jobs), jobs)
}

// OnJobStart prints a job start message.
func (r *Renderer) OnJobStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[spanID] = &jobState{name: name, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnJobLog buffers data and prints complete lines with the job prefix.
func (r *Renderer) OnJobLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	job.buf.Write(data)
	for {
		i := bytes.IndexByte(job.buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		r.printLineLocked(job.name, job.buf.Next(i+1))
	}
}

// OnJobComplete flushes the job's partial line and prints its status.
func (r *Renderer) OnJobComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}
	delete(r.jobs, spanID)
	r.flushLocked(job)

	duration := endTime.Sub(job.startTime)
	prefix := fmt.Sprintf("[%s]", job.name)

	if err != nil {
		r.failed++
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Failure))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}

	r.succeeded++
	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Success))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// flushLocked prints whatever partial line remains for job.
// Must be called with r.mu held.
func (r *Renderer) flushLocked(job *jobState) {
	if job.buf.Len() > 0 {
		r.printLineLocked(job.name, job.buf.Bytes())
		job.buf.Reset()
	}
}

// printLineLocked prints a line with the job name prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
