package ports

import "go.trai.ch/ancestry/internal/core/domain"

// ProvenanceLoader reads build provenance produced by the image build.
//
//go:generate go run go.uber.org/mock/mockgen -source=provenance_loader.go -destination=mocks/mock_provenance_loader.go -package=mocks
type ProvenanceLoader interface {
	// Load reads and validates the provenance file at path.
	Load(path string) (*domain.Provenance, error)
}
