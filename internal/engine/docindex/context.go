package docindex

import (
	"slices"

	"go.trai.ch/ancestry/internal/core/domain"
)

// PackageContext is a package together with the edges it owns and the
// annotations that target it.
type PackageContext struct {
	id          string
	slot        int
	edges       []EdgeRef
	annotations []int
	ix          *Index
}

// ID returns the package id.
func (c *PackageContext) ID() string {
	return c.id
}

// Package returns a copy of the package.
func (c *PackageContext) Package() domain.Package {
	return c.ix.doc.Packages[c.slot]
}

// Edges returns the edges whose source is this package.
func (c *PackageContext) Edges() []EdgeRef {
	return slices.Clone(c.edges)
}

// EdgesOfKind returns the owned edges of one kind.
func (c *PackageContext) EdgesOfKind(kind domain.RelationshipKind) []EdgeRef {
	var refs []EdgeRef
	for _, ref := range c.edges {
		if c.ix.doc.Relationships[ref].Kind == kind {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Relationships returns the edges whose source is this package.
func (c *PackageContext) Relationships() []domain.Relationship {
	rels := make([]domain.Relationship, 0, len(c.edges))
	for _, ref := range c.edges {
		rels = append(rels, c.ix.doc.Relationships[ref])
	}
	return rels
}

// Annotations returns the annotations targeting this package.
func (c *PackageContext) Annotations() []domain.Annotation {
	anns := make([]domain.Annotation, 0, len(c.annotations))
	for _, i := range c.annotations {
		anns = append(anns, c.ix.doc.Annotations[i])
	}
	return anns
}
