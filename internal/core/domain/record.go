package domain

import "time"

// Record remembers the inputs that produced a job's output.
type Record struct {
	JobName    string    `json:"job_name,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputPath string    `json:"output_path,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
