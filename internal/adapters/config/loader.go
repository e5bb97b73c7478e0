// Package config loads the ancestry.yaml job manifest.
package config

import (
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var validJobNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load finds ancestry.yaml in cwd or the nearest parent directory and returns its jobs.
func (l *Loader) Load(cwd string) (*domain.Manifest, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, err.Error()), "cwd", cwd)
	}

	path, err := l.findManifest(abs)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

// LoadFile reads and validates the manifest at path.
func (l *Loader) LoadFile(path string) (*domain.Manifest, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "file", path)
	}

	var dto Manifest
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "file", path)
	}

	m, err := l.build(path, &dto)
	if err != nil {
		return nil, zerr.With(err, "file", path)
	}
	return m, nil
}

func (l *Loader) findManifest(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ManifestFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func (l *Loader) build(path string, dto *Manifest) (*domain.Manifest, error) {
	if dto.Version != "" && dto.Version != ManifestVersion {
		return nil, zerr.With(domain.ErrUnsupportedManifestVersion, "version", dto.Version)
	}

	defaultFormat, err := domain.ParseFormat(dto.Format, domain.FormatSPDX)
	if err != nil {
		return nil, err
	}

	if dto.Concurrency < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "concurrency must not be negative"),
			"concurrency", dto.Concurrency)
	}
	if dto.BatchSize < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "batchSize must not be negative"),
			"batch_size", dto.BatchSize)
	}

	root := resolveRoot(path, dto.Root)
	m := &domain.Manifest{
		Path:        path,
		Root:        root,
		Concurrency: dto.Concurrency,
		BatchSize:   dto.BatchSize,
		Jobs:        make([]domain.Job, 0, len(dto.Jobs)),
	}

	if len(dto.Jobs) == 0 {
		l.Logger.Warn(domain.ManifestFileName + " declares no jobs")
	}

	seen := make(map[string]bool, len(dto.Jobs))
	for i, jobDTO := range dto.Jobs {
		if jobDTO == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidJob, "empty job entry"), "index", i)
		}
		job, err := buildJob(root, jobDTO, defaultFormat)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		if seen[job.Name] {
			return nil, zerr.With(domain.ErrDuplicateJobName, "job", job.Name)
		}
		seen[job.Name] = true
		m.Jobs = append(m.Jobs, job)
	}

	return m, nil
}

func buildJob(root string, dto *JobDTO, defaultFormat domain.Format) (domain.Job, error) {
	if err := validateJobName(dto.Name); err != nil {
		return domain.Job{}, err
	}
	if dto.Component == "" {
		return domain.Job{}, zerr.With(zerr.Wrap(domain.ErrInvalidJob, "component is required"), "job", dto.Name)
	}
	if dto.Output == "" {
		return domain.Job{}, zerr.With(zerr.Wrap(domain.ErrInvalidJob, "output is required"), "job", dto.Name)
	}

	format, err := domain.ParseFormat(dto.Format, defaultFormat)
	if err != nil {
		return domain.Job{}, zerr.With(err, "job", dto.Name)
	}

	return domain.Job{
		Name:       dto.Name,
		Component:  resolvePath(root, dto.Component),
		Parent:     resolvePath(root, dto.Parent),
		Provenance: resolvePath(root, dto.Provenance),
		Output:     resolvePath(root, dto.Output),
		Format:     format,
	}, nil
}

// validateJobName rejects empty names and names outside [a-zA-Z0-9_.-].
func validateJobName(name string) error {
	if name == "" {
		return zerr.Wrap(domain.ErrInvalidJob, "name is required")
	}
	if !validJobNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidJobName, "job", name)
	}
	return nil
}

// resolveRoot returns the directory job paths are relative to: the manifest's
// directory, or its configured root resolved against that directory.
func resolveRoot(manifestPath, configuredRoot string) string {
	manifestDir := filepath.Dir(manifestPath)
	if configuredRoot == "" {
		return filepath.Clean(manifestDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(manifestDir, configuredRoot))
}

// resolvePath anchors a relative path at root. Empty paths stay empty.
func resolvePath(root, path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
