// Package app implements the application layer for ancestry.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/ancestry/internal/adapters/detector"
	"go.trai.ch/ancestry/internal/adapters/stats"
	"go.trai.ch/ancestry/internal/adapters/telemetry"
	"go.trai.ch/ancestry/internal/adapters/tui"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// jsonSwitcher is implemented by loggers that can switch to JSON output.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	provenance   ports.ProvenanceLoader
	store        ports.RecordStore
	stats        *stats.Collector
	logger       ports.Logger
	renderer     ports.Renderer
	watcher      ports.Watcher
	codecs       []ports.DocumentCodec
	traceOut     io.Writer
	teaOptions   []tea.ProgramOption
	interactive  ports.Renderer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	provenance ports.ProvenanceLoader,
	store ports.RecordStore,
	collector *stats.Collector,
	renderer ports.Renderer,
	watcher ports.Watcher,
	log ports.Logger,
	codecs ...ports.DocumentCodec,
) *App {
	return &App{
		configLoader: loader,
		provenance:   provenance,
		store:        store,
		stats:        collector,
		logger:       log,
		renderer:     renderer,
		watcher:      watcher,
		codecs:       codecs,
		traceOut:     os.Stderr,
	}
}

// WithTraceOutput redirects the spans printed by RunOptions.Trace.
// This is primarily used for testing.
func (a *App) WithTraceOutput(w io.Writer) *App {
	a.traceOut = w
	return a
}

// WithTeaOptions adds bubbletea program options to the interactive view.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithInteractiveRenderer replaces the interactive view used in TUI mode.
// This is primarily used for testing.
func (a *App) WithInteractiveRenderer(r ports.Renderer) *App {
	a.interactive = r
	return a
}

// RunOptions configuration for the Run and Contextualize methods.
// Zero values defer to the manifest, then to the pipeline defaults.
type RunOptions struct {
	Concurrency int
	BatchSize   int
	NoCache     bool
	Trace       bool
	OutputMode  string
}

// ConfigureLogging applies a --log-format value to the logger.
func (a *App) ConfigureLogging(format string) error {
	requested, err := detector.ParseLogFormat(format)
	if err != nil {
		return err
	}
	resolved := detector.ResolveFormat(detector.DetectEnvironment(), requested)
	if s, ok := a.logger.(jsonSwitcher); ok {
		s.SetJSON(resolved == detector.FormatJSON)
	}
	return nil
}

// Run contextualizes the named manifest jobs, or every job when none are named.
func (a *App) Run(ctx context.Context, jobNames []string, opts RunOptions) error {
	p, err := a.plan(jobNames, opts)
	if err != nil || len(p.jobs) == 0 {
		return err
	}
	return a.execute(ctx, p.root, p.jobs, p.opts, opts)
}

// Watch runs like Run, then reruns every job whose input files change until
// ctx is done. Failed reruns are reported and watching continues.
func (a *App) Watch(ctx context.Context, jobNames []string, opts RunOptions) error {
	p, err := a.plan(jobNames, opts)
	if err != nil || len(p.jobs) == 0 {
		return err
	}

	if err := a.execute(ctx, p.root, p.jobs, p.opts, opts); err != nil && !errors.Is(err, domain.ErrRunFailed) {
		return err
	}

	dirs := inputDirs(p.jobs)
	changes, err := a.watcher.Watch(ctx, dirs)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %d directories for changes", len(dirs)))

	for paths := range changes {
		affected := affectedJobs(p.jobs, paths)
		if len(affected) == 0 {
			continue
		}
		err := a.execute(ctx, p.root, affected, p.opts, opts)
		if err != nil && !errors.Is(err, domain.ErrRunFailed) {
			a.logger.Error(err)
		}
	}
	return nil
}

type runPlan struct {
	root string
	jobs []domain.Job
	opts pipeline.Options
}

func (a *App) plan(jobNames []string, opts RunOptions) (runPlan, error) {
	manifest, err := a.configLoader.Load(".")
	if err != nil {
		return runPlan{}, zerr.Wrap(err, "failed to load manifest")
	}

	jobs, err := manifest.Select(jobNames)
	if err != nil {
		return runPlan{}, err
	}
	if len(jobs) == 0 {
		a.logger.Warn("nothing to do")
	}

	return runPlan{
		root: manifest.Root,
		jobs: jobs,
		opts: pipeline.Options{
			Concurrency: firstPositive(opts.Concurrency, manifest.Concurrency),
			BatchSize:   firstPositive(opts.BatchSize, manifest.BatchSize),
			NoCache:     opts.NoCache,
		},
	}, nil
}

// Contextualize runs a single job that is not declared in a manifest.
// Its record is kept under the current directory and keyed by the output file name.
func (a *App) Contextualize(ctx context.Context, job domain.Job, opts RunOptions) error {
	if job.Component == "" || job.Output == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidJob, "component and output are required"), "output", job.Output)
	}
	if job.Format == "" {
		job.Format = domain.FormatSPDX
	}
	if job.Name == "" {
		job.Name = filepath.Base(job.Output)
	}

	root, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}

	return a.execute(ctx, root, []domain.Job{job}, pipeline.Options{
		Concurrency: 1,
		BatchSize:   1,
		NoCache:     opts.NoCache,
	}, opts)
}

func (a *App) execute(ctx context.Context, root string, jobs []domain.Job, opts pipeline.Options, run RunOptions) error {
	renderer, err := a.selectRenderer(run.OutputMode)
	if err != nil {
		return err
	}

	var traceOut io.Writer
	if run.Trace {
		traceOut = a.traceOut
	}
	provider, err := telemetry.NewProvider(renderer, traceOut)
	if err != nil {
		return err
	}
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()

	tracer := telemetry.NewOTelTracer(provider).WithRenderer(renderer)
	pipe := pipeline.New(a.codecs, a.provenance, a.store, tracer, a.stats, a.logger)

	if err := renderer.Start(ctx); err != nil {
		return err
	}
	results, runErr := pipe.Run(ctx, root, jobs, opts)
	_ = renderer.Stop()

	var cached []string
	for _, res := range results {
		if res.Cached {
			cached = append(cached, res.Job.Name)
		}
	}
	if len(cached) > 0 {
		a.logger.Info(fmt.Sprintf("up to date: %s", strings.Join(cached, ", ")))
	}

	if snapshot, err := a.stats.Snapshot(); err == nil {
		a.logger.Info("statistics: " + snapshot.String())
	}

	if runErr != nil {
		return errors.Join(domain.ErrRunFailed, runErr)
	}
	return nil
}

// selectRenderer picks the interactive view on a terminal and linear output otherwise.
func (a *App) selectRenderer(outputMode string) (ports.Renderer, error) {
	requested, err := detector.ParseOutputMode(outputMode)
	if err != nil {
		return nil, err
	}
	if detector.ResolveMode(detector.DetectMode(), requested) != detector.ModeTUI {
		return a.renderer, nil
	}
	if a.interactive == nil {
		opts := append([]tea.ProgramOption{tea.WithOutput(os.Stderr)}, a.teaOptions...)
		a.interactive = tui.NewRenderer(opts...)
	}
	return a.interactive, nil
}

// Clean removes the record store of the current manifest, or of the
// current directory when there is no manifest.
func (a *App) Clean(_ context.Context) error {
	root := "."
	manifest, err := a.configLoader.Load(".")
	switch {
	case err == nil:
		root = manifest.Root
	case !errors.Is(err, domain.ErrConfigNotFound):
		return zerr.Wrap(err, "failed to load manifest")
	}

	path := filepath.Join(root, domain.DefaultStorePath())
	a.logger.Info(fmt.Sprintf("removing %s...", path))
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove record store"), "path", path)
	}
	a.logger.Info(fmt.Sprintf("removed %s", path))
	return nil
}

// inputDirs returns the directories holding the input files of jobs.
func inputDirs(jobs []domain.Job) []string {
	var dirs []string
	for _, job := range jobs {
		for _, path := range jobInputs(job) {
			dir := filepath.Dir(path)
			if !slices.Contains(dirs, dir) {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// affectedJobs returns the jobs reading any of paths.
func affectedJobs(jobs []domain.Job, paths []string) []domain.Job {
	var affected []domain.Job
	for _, job := range jobs {
		for _, path := range jobInputs(job) {
			if slices.Contains(paths, path) {
				affected = append(affected, job)
				break
			}
		}
	}
	return affected
}

func jobInputs(job domain.Job) []string {
	inputs := []string{filepath.Clean(job.Component)}
	if job.Parent != "" {
		inputs = append(inputs, filepath.Clean(job.Parent))
	}
	if job.Provenance != "" {
		inputs = append(inputs, filepath.Clean(job.Provenance))
	}
	return inputs
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
