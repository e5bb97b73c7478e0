package docindex

import (
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/engine/marker"
	"go.trai.ch/zerr"
)

// IntermediateSuffix is appended to a builder's id and name to name its intermediate stage.
const IntermediateSuffix = "-intermediate"

// ImageByPullspec returns the first builder image whose purl resolves to pullspec.
// The comparison is an exact match on "repository_url@version".
func (ix *Index) ImageByPullspec(pullspec string) (*PackageContext, bool) {
	return ix.imageByPullspec(pullspec, true)
}

// AnyImageByPullspec is ImageByPullspec without the builder marker requirement.
func (ix *Index) AnyImageByPullspec(pullspec string) (*PackageContext, bool) {
	return ix.imageByPullspec(pullspec, false)
}

func (ix *Index) imageByPullspec(pullspec string, builderOnly bool) (*PackageContext, bool) {
	for _, img := range ix.images {
		if builderOnly && !marker.Has(img.Annotations(), marker.RoleBuilderImage) {
			continue
		}
		pkg := img.Package()
		if spec, ok := domain.ImagePullspec(pkg.Purl()); ok && spec == pullspec {
			return img, true
		}
	}
	return nil, false
}

// EnsureIntermediateImage returns the synthetic intermediate image that
// descends from builder, creating it on first use.
//
// The new package inherits the builder's stage index, so a builder without
// a builder marker fails with domain.ErrMissingBuilderAnnotation.
func (ix *Index) EnsureIntermediateImage(builder *PackageContext) (*PackageContext, error) {
	if existing, ok := ix.intermediateOf(builder.id); ok {
		return existing, nil
	}

	m, ok := marker.Find(builder.Annotations(), marker.RoleBuilderImage)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingBuilderAnnotation, "cannot synthesize intermediate image"), "builder_id", builder.id)
	}
	stage, err := m.Stage()
	if err != nil {
		return nil, zerr.With(err, "builder_id", builder.id)
	}

	id := builder.id + IntermediateSuffix
	if _, exists := ix.byID[id]; exists {
		return nil, zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, "intermediate image id is taken"), "package_id", id)
	}

	parent := builder.Package()
	ix.doc.Packages = append(ix.doc.Packages, domain.Package{
		ID:   id,
		Name: parent.Name + IntermediateSuffix,
	})
	ctx := ix.register(len(ix.doc.Packages) - 1)
	ix.appendRelationship(domain.Relationship{
		Source: id,
		Kind:   domain.RelationshipDescendantOf,
		Target: builder.id,
	})
	ix.appendAnnotation(marker.Intermediate(stage).Annotation(id))

	return ctx, nil
}

func (ix *Index) intermediateOf(builderID string) (*PackageContext, bool) {
	for _, img := range ix.images {
		if !marker.Has(img.Annotations(), marker.RoleIntermediateImage) {
			continue
		}
		for _, ref := range img.EdgesOfKind(domain.RelationshipDescendantOf) {
			if ix.doc.Relationships[ref].Target == builderID {
				return img, true
			}
		}
	}
	return nil, false
}
