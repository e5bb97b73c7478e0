// Package domain contains the core domain models for SBOM contextualization.
package domain

import (
	"slices"
	"strings"
)

const (
	// DocumentRootID is the pseudo-element that DESCRIBES the document's root packages.
	DocumentRootID = "SPDXRef-DOCUMENT"

	// ImageIDPrefix marks package ids that stand for container images.
	ImageIDPrefix = "SPDXRef-image"

	// PurlRefType is the external reference type carrying a package URL.
	PurlRefType = "purl"

	// ToolActorPrefix marks annotations authored by a tool rather than a person.
	ToolActorPrefix = "Tool:"
)

// RelationshipKind names the type of an edge between two document elements.
type RelationshipKind string

const (
	// RelationshipContains marks the source as the owner of the target.
	RelationshipContains RelationshipKind = "CONTAINS"
	// RelationshipDependencyOf marks the source as a dependency of the target.
	RelationshipDependencyOf RelationshipKind = "DEPENDENCY_OF"
	// RelationshipDescendantOf marks the source image as built on top of the target image.
	RelationshipDescendantOf RelationshipKind = "DESCENDANT_OF"
	// RelationshipBuildToolOf marks the source image as a build-time tool of the target.
	RelationshipBuildToolOf RelationshipKind = "BUILD_TOOL_OF"
	// RelationshipVariantOf marks the source as a variant of the target.
	RelationshipVariantOf RelationshipKind = "VARIANT_OF"
	// RelationshipDescribes links the document root pseudo-element to a root package.
	RelationshipDescribes RelationshipKind = "DESCRIBES"
)

// Checksum is a single digest of a package's content.
type Checksum struct {
	Algorithm string
	Value     string
}

// String returns the "ALGO:value" form used for comparisons.
func (c Checksum) String() string {
	return c.Algorithm + ":" + c.Value
}

// ExternalRef is an external identifier attached to a package.
type ExternalRef struct {
	Category string
	Type     string
	Locator  string
}

// Package is a single entry of an SBOM.
type Package struct {
	ID               string
	Name             string
	Version          string
	Checksums        []Checksum
	VerificationCode string
	ExternalRefs     []ExternalRef
}

// Purl returns the package URL of the package, or an empty string.
func (p *Package) Purl() string {
	for _, ref := range p.ExternalRefs {
		if ref.Type == PurlRefType {
			return ref.Locator
		}
	}
	return ""
}

// ChecksumSet returns the sorted "ALGO:value" strings of the package checksums.
func (p *Package) ChecksumSet() []string {
	set := make([]string, 0, len(p.Checksums))
	for _, c := range p.Checksums {
		set = append(set, c.String())
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// IsImage reports whether the package stands for a container image.
func (p *Package) IsImage() bool {
	return strings.HasPrefix(p.ID, ImageIDPrefix)
}

// Relationship is a typed edge between two document elements.
// Source is the owning side.
type Relationship struct {
	Source string
	Kind   RelationshipKind
	Target string
}

// Annotation is a free-text comment attached to a package.
type Annotation struct {
	Target    string
	Comment   string
	Annotator string
	// Date is the RFC 3339 creation time. Codecs stamp it when empty.
	Date string
}

// IsTool reports whether the annotation was authored by a tool.
func (a Annotation) IsTool() bool {
	return strings.HasPrefix(a.Annotator, ToolActorPrefix)
}

// Document is the format-neutral graph of an SBOM.
// Codecs translate concrete formats to and from it.
type Document struct {
	Name          string
	Namespace     string
	Format        Format
	Packages      []Package
	Relationships []Relationship
	Annotations   []Annotation

	// Raw is format-specific content the model does not cover. Only the
	// codec that decoded the document reads it back when encoding.
	Raw any `json:"-"`
}
