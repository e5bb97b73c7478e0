package ports

import "go.trai.ch/ancestry/internal/core/domain"

// ConfigLoader defines the interface for loading the job manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the manifest by walking up from cwd and returns its jobs.
	Load(cwd string) (*domain.Manifest, error)
}
