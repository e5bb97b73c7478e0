// Package contextualizer rewrites one component SBOM so inherited and
// build-stage content is attributed to the image it came from.
package contextualizer

import (
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/docindex"
	"go.trai.ch/ancestry/internal/engine/origins"
	"go.trai.ch/ancestry/internal/engine/relationships"
	"go.trai.ch/zerr"
)

// Input holds the documents of one image. Parent and Provenance are optional.
type Input struct {
	Component  *domain.Document
	Parent     *domain.Document
	Provenance *domain.Provenance
}

// Contextualize rewrites in.Component in place.
//
// With a parent, the parent's ancestor images are copied into the component
// and matched content is attributed to the parent or the ancestor it came
// from. Builder and intermediate images of the parent that own matched
// content are copied in as well. With provenance, the listed packages are attributed to their builder
// or intermediate stage afterwards.
func Contextualize(in Input, stats ports.StatsSink) (domain.Summary, error) {
	var summary domain.Summary

	component := docindex.New(in.Component)
	if err := component.Validate(); err != nil {
		return summary, zerr.With(err, "document", "component")
	}

	if in.Parent != nil {
		parent := docindex.New(in.Parent)
		if err := parent.Validate(); err != nil {
			return summary, zerr.With(err, "document", "parent")
		}

		resolver := relationships.NewResolver(relationships.Candidates(component), parent, component, stats)

		if _, err := resolver.SupplyAncestors(relationships.CollectAncestors(parent)); err != nil {
			return summary, err
		}

		matched, err := resolver.ResolveComponentRelationships()
		summary.AncestorsSupplied = resolver.Supplied()
		summary.Matched = matched
		if err != nil {
			return summary, err
		}
	}

	if in.Provenance != nil {
		assignments, err := origins.GenerateOrigins(component, in.Provenance.Packages, stats)
		if err != nil {
			return summary, err
		}
		if err := origins.ResolveOrigins(component, assignments, stats); err != nil {
			return summary, err
		}
		summary.Origins = len(assignments)
	}

	return summary, nil
}
