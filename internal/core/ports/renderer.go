package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output.
// It decouples telemetry collection from presentation logic.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnPlanEmit is called when the pipeline has planned the jobs of a run.
	OnPlanEmit(jobs []string)

	// OnJobStart is called when a span begins.
	// parentID is empty for top-level spans.
	OnJobStart(spanID, parentID, name string, startTime time.Time)

	// OnJobLog is called when a job emits output.
	// data may contain partial lines.
	OnJobLog(spanID string, data []byte)

	// OnJobComplete is called when a span ends.
	// err is nil if the span succeeded.
	OnJobComplete(spanID string, endTime time.Time, err error)
}
