// Package ports defines the core interfaces for the application.
package ports

import (
	"io"

	"go.trai.ch/ancestry/internal/core/domain"
)

// DocumentCodec translates one concrete SBOM format to and from the
// format-neutral document graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=document_codec.go -destination=mocks/mock_document_codec.go -package=mocks
type DocumentCodec interface {
	// Format returns the format handled by the codec.
	Format() domain.Format

	// Decode reads a document. Every relationship endpoint of the result resolves.
	Decode(r io.Reader) (*domain.Document, error)

	// Encode writes a document.
	Encode(w io.Writer, doc *domain.Document) error
}
