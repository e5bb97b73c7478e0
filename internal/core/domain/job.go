package domain

import (
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultBatchSize caps how many jobs are held in memory at once.
	DefaultBatchSize = 32
)

// Job is one component image to contextualize.
// Parent and Provenance are optional; an empty value disables that stage.
type Job struct {
	Name       string
	Component  string
	Parent     string
	Provenance string
	Output     string
	Format     Format
}

// Manifest is the loaded job manifest.
type Manifest struct {
	// Path is the manifest file the jobs were loaded from.
	Path string
	// Root is the directory relative job paths were resolved against.
	Root        string
	Concurrency int
	BatchSize   int
	Jobs        []Job
}

// Select returns the named jobs in the given order, or every job when names is empty.
func (m *Manifest) Select(names []string) ([]Job, error) {
	if len(names) == 0 {
		return m.Jobs, nil
	}

	byName := make(map[string]Job, len(m.Jobs))
	for _, job := range m.Jobs {
		byName[job.Name] = job
	}

	selected := make([]Job, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		job, ok := byName[name]
		if !ok {
			return nil, zerr.With(ErrJobNotFound, "job", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		selected = append(selected, job)
	}
	return selected, nil
}

// Summary reports what a contextualization changed in one component document.
type Summary struct {
	Matched           int
	AncestorsSupplied int
	Origins           int
}

// JobResult is the outcome of one job of a run.
type JobResult struct {
	Job      Job
	Summary  Summary
	Cached   bool
	Duration time.Duration
	Err      error
}
