package domain

import "path/filepath"

const (
	// AncestryDirName is the name of the internal workspace directory.
	AncestryDirName = ".ancestry"

	// StoreDirName is the name of the record store directory.
	StoreDirName = "store"

	// ManifestFileName is the name of the job manifest.
	ManifestFileName = "ancestry.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultAncestryPath returns the default root directory for ancestry metadata.
func DefaultAncestryPath() string {
	return AncestryDirName
}

// DefaultStorePath returns the default path for the record store.
// It joins .ancestry and store.
func DefaultStorePath() string {
	return filepath.Join(AncestryDirName, StoreDirName)
}
