package ports

import "go.trai.ch/ancestry/internal/core/domain"

// RecordStore defines the interface for storing and retrieving job records.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RecordStore interface {
	// Get retrieves the record for a given job name.
	// Returns nil, nil if not found.
	Get(root, jobName string) (*domain.Record, error)

	// Put stores the record.
	Put(root string, record domain.Record) error
}
