package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/adapters/config"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const validManifest = `
version: "1"
concurrency: 4
batchSize: 8
format: spdx
jobs:
  - name: app
    component: sboms/app.spdx.json
    parent: sboms/base.spdx.json
    provenance: build/provenance.json
    output: out/app.spdx.json
  - name: tools
    component: /abs/tools.cdx.json
    output: out/tools.cdx.json
    format: cyclonedx
`

func newMapLoader(t *testing.T, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	loader := config.NewLoader(log)
	loader.FS = config.NewMapFSAdapter("/work", files)
	return loader, log
}

func TestLoader_Load(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"repo/ancestry.yaml": {Data: []byte(validManifest)},
		"repo/sub/.keep":     {Data: nil},
	})

	m, err := loader.Load("/work/repo/sub")
	require.NoError(t, err)

	assert.Equal(t, "/work/repo/ancestry.yaml", m.Path)
	assert.Equal(t, "/work/repo", m.Root)
	assert.Equal(t, 4, m.Concurrency)
	assert.Equal(t, 8, m.BatchSize)
	assert.Equal(t, []domain.Job{
		{
			Name:       "app",
			Component:  "/work/repo/sboms/app.spdx.json",
			Parent:     "/work/repo/sboms/base.spdx.json",
			Provenance: "/work/repo/build/provenance.json",
			Output:     "/work/repo/out/app.spdx.json",
			Format:     domain.FormatSPDX,
		},
		{
			Name:      "tools",
			Component: "/abs/tools.cdx.json",
			Output:    "/work/repo/out/tools.cdx.json",
			Format:    domain.FormatCycloneDX,
		},
	}, m.Jobs)
}

func TestLoader_ConfiguredRoot(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{
		"repo/ancestry.yaml": {Data: []byte(`
root: ../artifacts
jobs:
  - name: app
    component: app.json
    output: out.json
`)},
	})

	m, err := loader.Load("/work/repo")
	require.NoError(t, err)
	assert.Equal(t, "/work/artifacts", m.Root)
	assert.Equal(t, "/work/artifacts/app.json", m.Jobs[0].Component)
	assert.Equal(t, domain.FormatSPDX, m.Jobs[0].Format, "format defaults to spdx")
}

func TestLoader_NotFound(t *testing.T) {
	loader, _ := newMapLoader(t, fstest.MapFS{"repo/other.yaml": {Data: []byte("x")}})

	_, err := loader.Load("/work/repo")
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_NoJobsWarns(t *testing.T) {
	loader, log := newMapLoader(t, fstest.MapFS{"ancestry.yaml": {Data: []byte(`version: "1"`)}})
	log.EXPECT().Warn("ancestry.yaml declares no jobs")

	m, err := loader.Load("/work")
	require.NoError(t, err)
	assert.Empty(t, m.Jobs)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantErr  error
	}{
		{
			name:     "malformed yaml",
			manifest: "jobs: [",
			wantErr:  domain.ErrConfigParseFailed,
		},
		{
			name:     "unsupported version",
			manifest: `version: "2"`,
			wantErr:  domain.ErrUnsupportedManifestVersion,
		},
		{
			name:     "unknown default format",
			manifest: "format: swid",
			wantErr:  domain.ErrUnsupportedFormat,
		},
		{
			name:     "negative concurrency",
			manifest: "concurrency: -1",
			wantErr:  domain.ErrConfigParseFailed,
		},
		{
			name:     "negative batch size",
			manifest: "batchSize: -2",
			wantErr:  domain.ErrConfigParseFailed,
		},
		{
			name: "unknown job format",
			manifest: `
jobs:
  - {name: app, component: a.json, output: b.json, format: swid}`,
			wantErr: domain.ErrUnsupportedFormat,
		},
		{
			name: "missing name",
			manifest: `
jobs:
  - {component: a.json, output: b.json}`,
			wantErr: domain.ErrInvalidJob,
		},
		{
			name: "invalid name",
			manifest: `
jobs:
  - {name: "app:v1", component: a.json, output: b.json}`,
			wantErr: domain.ErrInvalidJobName,
		},
		{
			name: "missing component",
			manifest: `
jobs:
  - {name: app, output: b.json}`,
			wantErr: domain.ErrInvalidJob,
		},
		{
			name: "missing output",
			manifest: `
jobs:
  - {name: app, component: a.json}`,
			wantErr: domain.ErrInvalidJob,
		},
		{
			name: "empty entry",
			manifest: `
jobs:
  -`,
			wantErr: domain.ErrInvalidJob,
		},
		{
			name: "duplicate names",
			manifest: `
jobs:
  - {name: app, component: a.json, output: b.json}
  - {name: app, component: c.json, output: d.json}`,
			wantErr: domain.ErrDuplicateJobName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, log := newMapLoader(t, fstest.MapFS{"ancestry.yaml": {Data: []byte(tt.manifest)}})
			log.EXPECT().Warn(gomock.Any()).AnyTimes()

			_, err := loader.Load("/work")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_OSFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ancestry.yaml"), []byte(validManifest), domain.FilePerm))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	m, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ancestry.yaml"), m.Path)
	assert.Equal(t, filepath.Join(dir, "out", "app.spdx.json"), m.Jobs[0].Output)
}

func TestLoader_ExpandsEnv(t *testing.T) {
	t.Setenv("SBOM_DIR", "/sboms")
	loader, _ := newMapLoader(t, fstest.MapFS{"ancestry.yaml": {Data: []byte(`
jobs:
  - {name: app, component: $SBOM_DIR/app.json, output: out.json}`)}})

	m, err := loader.Load("/work")
	require.NoError(t, err)
	assert.Equal(t, "/sboms/app.json", m.Jobs[0].Component)
}

func TestMapFSAdapter_OutsideRoot(t *testing.T) {
	adapter := config.NewMapFSAdapter("/work", fstest.MapFS{"a.yaml": {Data: []byte("x")}})

	data, err := adapter.ReadFile("/work/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = adapter.Stat("/elsewhere/a.yaml")
	require.Error(t, err)

	info, err := adapter.Stat("/work")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
