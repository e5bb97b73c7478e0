package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrPackageNotFound is returned when a package id does not resolve to a package in the document.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrRelationshipNotFound is returned when an edge is not attached to the package that claims to own it.
	ErrRelationshipNotFound = zerr.New("relationship not found")

	// ErrDuplicatePackage is returned when a package id is added to a document twice.
	ErrDuplicatePackage = zerr.New("duplicate package id")

	// ErrDanglingRelationship is returned when a relationship endpoint is absent from the package list.
	ErrDanglingRelationship = zerr.New("relationship references an unknown element")

	// ErrRelationshipTargetNotFound is returned when a dependency edge points at a package the document does not list.
	ErrRelationshipTargetNotFound = zerr.New("relationship target not found in document")

	// ErrMissingBuilderAnnotation is returned when an intermediate image is requested for a builder without a stage marker.
	ErrMissingBuilderAnnotation = zerr.New("builder image is missing its builder stage annotation")

	// ErrMissingContainsRelationship is returned when no image package contains the package being reattributed.
	ErrMissingContainsRelationship = zerr.New("no CONTAINS relationship found for package")

	// ErrAmbiguousContainsRelationship is returned when more than one image package contains the package being reattributed.
	ErrAmbiguousContainsRelationship = zerr.New("multiple CONTAINS relationships found for package")

	// ErrImageNotFound is returned when no builder image package matches a pullspec.
	ErrImageNotFound = zerr.New("no image package found for pullspec")

	// ErrMissingParentReference is returned when the component root does not descend from any image.
	ErrMissingParentReference = zerr.New("component root has no DESCENDANT_OF relationship")

	// ErrMissingRoot is returned when a document does not describe any package.
	ErrMissingRoot = zerr.New("document does not describe a root package")

	// ErrInvalidMarker is returned when a sidecar marker carries a malformed stage value.
	ErrInvalidMarker = zerr.New("invalid annotation marker")

	// ErrUnsupportedFormat is returned when an SBOM format is not known.
	ErrUnsupportedFormat = zerr.New("unsupported SBOM format")

	// ErrDocumentDecodeFailed is returned when an SBOM cannot be decoded.
	ErrDocumentDecodeFailed = zerr.New("failed to decode SBOM document")

	// ErrDocumentEncodeFailed is returned when an SBOM cannot be encoded.
	ErrDocumentEncodeFailed = zerr.New("failed to encode SBOM document")

	// ErrProvenanceReadFailed is returned when the build provenance file cannot be read.
	ErrProvenanceReadFailed = zerr.New("failed to read build provenance")

	// ErrProvenanceParseFailed is returned when the build provenance cannot be parsed.
	ErrProvenanceParseFailed = zerr.New("failed to parse build provenance")

	// ErrProvenanceInvalid is returned when the build provenance fails validation.
	ErrProvenanceInvalid = zerr.New("invalid build provenance")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrConfigNotFound is returned when no manifest can be found.
	ErrConfigNotFound = zerr.New("could not find " + ManifestFileName)

	// ErrInvalidJob is returned when a manifest job is incomplete.
	ErrInvalidJob = zerr.New("invalid job definition")

	// ErrInvalidJobName is returned when a job name contains characters outside [a-zA-Z0-9_.-].
	ErrInvalidJobName = zerr.New("invalid job name")

	// ErrUnsupportedManifestVersion is returned for a manifest version this build cannot read.
	ErrUnsupportedManifestVersion = zerr.New("unsupported manifest version")

	// ErrDuplicateJobName is returned when two jobs share a name.
	ErrDuplicateJobName = zerr.New("duplicate job name")

	// ErrJobNotFound is returned when a requested job is not declared in the manifest.
	ErrJobNotFound = zerr.New("job not found")

	// ErrJobFailed is returned when a single contextualization job fails.
	ErrJobFailed = zerr.New("contextualization job failed")

	// ErrRunFailed is returned when at least one job of a run failed.
	ErrRunFailed = zerr.New("contextualization run failed")

	// ErrFileReadFailed is returned when an input file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrStoreCreateFailed is returned when the record store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create record store directory")

	// ErrStoreReadFailed is returned when a record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read record")

	// ErrStoreUnmarshalFailed is returned when a record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal record")

	// ErrStoreMarshalFailed is returned when a record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal record")

	// ErrStoreWriteFailed is returned when a record cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write record")

	// ErrWatchFailed is returned when job inputs cannot be watched for changes.
	ErrWatchFailed = zerr.New("failed to watch job inputs")

	// ErrInvalidLogFormat is returned for an unknown --log-format value.
	ErrInvalidLogFormat = zerr.New("invalid log format")

	// ErrInvalidOutputMode is returned for an unknown --output-mode value.
	ErrInvalidOutputMode = zerr.New("invalid output mode")
)

// structuralErrors are the invalid-document conditions that abort one image's contextualization.
var structuralErrors = []error{
	ErrDanglingRelationship,
	ErrRelationshipTargetNotFound,
	ErrMissingBuilderAnnotation,
	ErrMissingContainsRelationship,
	ErrAmbiguousContainsRelationship,
	ErrImageNotFound,
	ErrMissingParentReference,
	ErrMissingRoot,
	ErrPackageNotFound,
	ErrRelationshipNotFound,
	ErrDuplicatePackage,
}

// IsStructural reports whether err describes a structurally invalid document.
func IsStructural(err error) bool {
	for _, target := range structuralErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
