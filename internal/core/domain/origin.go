package domain

// OriginKind classifies where a package truly came from in a multi-stage build.
type OriginKind string

const (
	// OriginBuilder marks content copied from a builder stage image.
	OriginBuilder OriginKind = "builder"
	// OriginIntermediate marks content produced inside a builder stage with no image of its own.
	OriginIntermediate OriginKind = "intermediate"
)

// Origin names the true-origin image of a package.
type Origin struct {
	Pullspec string
	Kind     OriginKind
}

// OriginAssignment binds a package id to its true origin.
type OriginAssignment struct {
	PackageID string
	Origin    Origin
}

// ProvenanceItem is one package entry of externally supplied build provenance.
type ProvenanceItem struct {
	Purl      string
	Checksums []string
	// DependencyOfPurl disambiguates packages sharing a purl. Empty when absent.
	DependencyOfPurl string
	OriginType       OriginKind
	Pullspec         string
}

// Provenance is the build-provenance metadata describing where packages originated.
type Provenance struct {
	Packages []ProvenanceItem
}
