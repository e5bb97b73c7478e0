// Package cas keeps contextualization records so unchanged jobs can be skipped.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.RecordStore with one JSON file per job under
// <root>/.ancestry/store.
type Store struct{}

// NewStore creates a new record store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record for jobName. A missing record is not an error.
func (s *Store) Get(root, jobName string) (*domain.Record, error) {
	filename := s.filename(root, jobName)
	//nolint:gosec // Path is constructed from the store directory and a hashed file name
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "job", jobName)
	}

	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreUnmarshalFailed, err.Error()), "job", jobName)
	}
	// A hash collision between job names must not alias records.
	if rec.JobName != jobName {
		return nil, nil
	}

	return &rec, nil
}

// Put stores rec, replacing any earlier record for the same job.
func (s *Store) Put(root string, rec domain.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrStoreMarshalFailed, err.Error())
	}

	filename := s.filename(root, rec.JobName)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "dir", dir)
	}

	// Write then rename so concurrent readers never see a partial record.
	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "job", rec.JobName)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "job", rec.JobName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "job", rec.JobName)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "job", rec.JobName)
	}

	return nil
}

// Path returns the store directory under root.
func (s *Store) Path(root string) string {
	return filepath.Join(root, domain.DefaultStorePath())
}

func (s *Store) filename(root, jobName string) string {
	return filepath.Join(s.Path(root), strconv.FormatUint(xxhash.Sum64String(jobName), 16)+".json")
}
