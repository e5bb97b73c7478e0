// Package pipeline runs contextualization jobs in bounded batches.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/contextualizer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options tunes a run.
type Options struct {
	// Concurrency caps the jobs running at once. Zero means runtime.NumCPU().
	Concurrency int
	// BatchSize caps the jobs held in memory at once. Zero means domain.DefaultBatchSize.
	BatchSize int
	// NoCache runs every job even when its inputs are unchanged.
	NoCache bool
}

// Pipeline reads, contextualizes and writes SBOM documents.
type Pipeline struct {
	codecs     map[domain.Format]ports.DocumentCodec
	provenance ports.ProvenanceLoader
	store      ports.RecordStore
	tracer     ports.Tracer
	stats      ports.StatsSink
	logger     ports.Logger
}

// New creates a Pipeline with the given dependencies.
func New(
	codecs []ports.DocumentCodec,
	provenance ports.ProvenanceLoader,
	store ports.RecordStore,
	tracer ports.Tracer,
	stats ports.StatsSink,
	logger ports.Logger,
) *Pipeline {
	byFormat := make(map[domain.Format]ports.DocumentCodec, len(codecs))
	for _, c := range codecs {
		byFormat[c.Format()] = c
	}
	return &Pipeline{
		codecs:     byFormat,
		provenance: provenance,
		store:      store,
		tracer:     tracer,
		stats:      stats,
		logger:     logger,
	}
}

// Run executes jobs and returns one result per job, in job order.
// Records are kept under root. A failing job does not stop its siblings;
// the returned error joins every job failure.
func (p *Pipeline) Run(ctx context.Context, root string, jobs []domain.Job, opts Options) ([]domain.JobResult, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}

	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name
	}
	p.tracer.EmitPlan(ctx, names)

	results := make([]domain.JobResult, len(jobs))
	for start := 0; start < len(jobs); start += batchSize {
		end := min(start+batchSize, len(jobs))

		var g errgroup.Group
		g.SetLimit(concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = p.runJob(ctx, root, jobs[i], opts.NoCache)
				return nil
			})
		}
		_ = g.Wait()
	}

	var errs error
	for _, res := range results {
		if res.Err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(res.Err, domain.ErrJobFailed.Error()), "job", res.Job.Name))
		}
	}
	return results, errs
}

func (p *Pipeline) runJob(ctx context.Context, root string, job domain.Job, noCache bool) domain.JobResult {
	start := time.Now()
	res := domain.JobResult{Job: job}

	ctx, span := p.tracer.Start(ctx, job.Name, ports.WithAttribute("ancestry.format", string(job.Format)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		res.Err = err
		span.RecordError(err)
		return res
	}

	summary, cached, err := p.execute(root, job, noCache, span)
	res.Summary = summary
	res.Cached = cached
	res.Err = err
	res.Duration = time.Since(start)

	if err != nil {
		span.RecordError(err)
	}
	return res
}

func (p *Pipeline) execute(root string, job domain.Job, noCache bool, span ports.Span) (domain.Summary, bool, error) {
	codec, ok := p.codecs[job.Format]
	if !ok {
		return domain.Summary{}, false, zerr.With(zerr.Wrap(domain.ErrUnsupportedFormat, "no codec"), "format", string(job.Format))
	}

	inputs, err := readInputs(job)
	if err != nil {
		return domain.Summary{}, false, err
	}
	hash := fingerprint(job, inputs)

	if !noCache && p.upToDate(root, job, hash) {
		span.SetAttribute("ancestry.cached", true)
		return domain.Summary{}, true, nil
	}

	in, err := p.decode(codec, job, inputs)
	if err != nil {
		return domain.Summary{}, false, err
	}

	summary, err := contextualizer.Contextualize(in, p.stats)
	if err != nil {
		return summary, false, err
	}

	if err := writeOutput(codec, job.Output, in.Component); err != nil {
		return summary, false, err
	}
	_, _ = fmt.Fprintf(span, "matched %d, supplied %d ancestors, applied %d origins\n",
		summary.Matched, summary.AncestorsSupplied, summary.Origins)

	err = p.store.Put(root, domain.Record{
		JobName:    job.Name,
		InputHash:  hash,
		OutputPath: job.Output,
		Timestamp:  time.Now(),
	})
	if err != nil {
		// A lost record only costs a rerun.
		p.logger.Warn(fmt.Sprintf("could not record job %s: %v", job.Name, err))
	}

	return summary, false, nil
}

func (p *Pipeline) upToDate(root string, job domain.Job, hash string) bool {
	rec, err := p.store.Get(root, job.Name)
	if err != nil || rec == nil {
		return false
	}
	if rec.InputHash != hash || rec.OutputPath != job.Output {
		return false
	}
	_, err = os.Stat(job.Output)
	return err == nil
}

func (p *Pipeline) decode(codec ports.DocumentCodec, job domain.Job, inputs jobInputs) (contextualizer.Input, error) {
	var in contextualizer.Input

	component, err := codec.Decode(bytes.NewReader(inputs.component))
	if err != nil {
		return in, zerr.With(err, "file", job.Component)
	}
	in.Component = component

	if inputs.parent != nil {
		parent, err := codec.Decode(bytes.NewReader(inputs.parent))
		if err != nil {
			return in, zerr.With(err, "file", job.Parent)
		}
		in.Parent = parent
	}

	if job.Provenance != "" {
		prov, err := p.provenance.Load(job.Provenance)
		if err != nil {
			return in, err
		}
		in.Provenance = prov
	}

	return in, nil
}

func writeOutput(codec ports.DocumentCodec, path string, doc *domain.Document) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, doc); err != nil {
		return zerr.With(err, "file", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "file", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "file", path)
	}
	return nil
}
