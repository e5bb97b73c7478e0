// Package origins attributes packages to their true origin image using build
// provenance reported by the image build.
package origins

import (
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/docindex"
	"go.trai.ch/zerr"
)

// GenerateOrigins maps provenance items to the packages they describe.
//
// An item whose purl is carried by several packages is only attributed when
// its dependency-of purl singles one out through the candidates' DEPENDENCY_OF
// edges. Items that cannot be attributed are reported to stats and skipped.
func GenerateOrigins(
	ix *docindex.Index,
	items []domain.ProvenanceItem,
	stats ports.StatsSink,
) ([]domain.OriginAssignment, error) {
	assignments := make([]domain.OriginAssignment, 0, len(items))

	for _, item := range items {
		candidates := ix.ByPurl(item.Purl)

		var target *docindex.PackageContext
		switch len(candidates) {
		case 0:
			stats.RecordSkippedItem(domain.SkipNotFound, item.Purl)
			continue
		case 1:
			target = candidates[0]
		default:
			if item.DependencyOfPurl == "" {
				stats.RecordSkippedItem(domain.SkipAmbiguous, item.Purl)
				continue
			}
			found, err := resolveByDependency(ix, candidates, item.DependencyOfPurl)
			if err != nil {
				return nil, zerr.With(err, "purl", item.Purl)
			}
			if found == nil {
				stats.RecordSkippedItem(domain.SkipUnresolved, item.Purl)
				continue
			}
			target = found
		}

		assignments = append(assignments, domain.OriginAssignment{
			PackageID: target.ID(),
			Origin: domain.Origin{
				Pullspec: item.Pullspec,
				Kind:     item.OriginType,
			},
		})
	}

	return assignments, nil
}

// resolveByDependency returns the first candidate that is a DEPENDENCY_OF a
// package with the given purl, or nil if none is.
func resolveByDependency(
	ix *docindex.Index,
	candidates []*docindex.PackageContext,
	dependencyOfPurl string,
) (*docindex.PackageContext, error) {
	for _, candidate := range candidates {
		for _, ref := range candidate.EdgesOfKind(domain.RelationshipDependencyOf) {
			rel := ix.Relationship(ref)
			dependent, ok := ix.Lookup(rel.Target)
			if !ok {
				err := zerr.Wrap(domain.ErrRelationshipTargetNotFound, "DEPENDENCY_OF target is not a package")
				return nil, zerr.With(zerr.With(err, "source", rel.Source), "target", rel.Target)
			}
			pkg := dependent.Package()
			if domain.SamePurl(pkg.Purl(), dependencyOfPurl) {
				return candidate, nil
			}
		}
	}
	return nil, nil
}

// ResolveOrigins moves the CONTAINS edge of every assigned package to its
// origin image. Intermediate origins are attributed to a synthetic
// intermediate image descending from the builder.
func ResolveOrigins(ix *docindex.Index, assignments []domain.OriginAssignment, stats ports.StatsSink) error {
	for _, a := range assignments {
		edge, err := containsEdge(ix, a.PackageID)
		if err != nil {
			return err
		}

		image, ok := ix.ImageByPullspec(a.Origin.Pullspec)
		if !ok && a.Origin.Kind == domain.OriginIntermediate {
			// An unmarked builder is reported by EnsureIntermediateImage.
			image, ok = ix.AnyImageByPullspec(a.Origin.Pullspec)
		}
		if !ok {
			err := zerr.Wrap(domain.ErrImageNotFound, "origin image")
			return zerr.With(zerr.With(err, "pullspec", a.Origin.Pullspec), "package_id", a.PackageID)
		}

		source := image
		if a.Origin.Kind == domain.OriginIntermediate {
			source, err = ix.EnsureIntermediateImage(image)
			if err != nil {
				return zerr.With(err, "package_id", a.PackageID)
			}
		}

		if err := ix.Reparent(edge, source.ID()); err != nil {
			return zerr.With(err, "package_id", a.PackageID)
		}
		stats.RecordOrigin(a.Origin.Kind)
	}
	return nil
}

// containsEdge finds the single CONTAINS edge from an image package to id.
// Several owners are reported rather than resolved by iteration order.
func containsEdge(ix *docindex.Index, id string) (docindex.EdgeRef, error) {
	var found []docindex.EdgeRef
	for _, ref := range ix.IncomingEdges(id, domain.RelationshipContains) {
		source, ok := ix.Lookup(ix.Relationship(ref).Source)
		if !ok {
			continue
		}
		pkg := source.Package()
		if pkg.IsImage() {
			found = append(found, ref)
		}
	}

	switch len(found) {
	case 0:
		return 0, zerr.With(zerr.Wrap(domain.ErrMissingContainsRelationship, "resolve origin"), "package_id", id)
	case 1:
		return found[0], nil
	default:
		err := zerr.Wrap(domain.ErrAmbiguousContainsRelationship, "resolve origin")
		return 0, zerr.With(zerr.With(err, "package_id", id), "owners", len(found))
	}
}
