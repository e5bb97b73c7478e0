package tui

import "time"

// MsgInitJobs resets the job list for a new run.
type MsgInitJobs struct {
	Jobs []string
}

// MsgJobStart marks a job as running under the span that executes it.
type MsgJobStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgJobLog carries output written to a job's span.
type MsgJobLog struct {
	SpanID string
	Data   []byte
}

// MsgJobComplete marks a job's span as ended. Err is nil on success.
type MsgJobComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
