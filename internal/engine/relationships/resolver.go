// Package relationships attributes the packages of a component image to the
// parent or ancestor image they were inherited from, by matching the content
// of the component SBOM against the parent SBOM.
package relationships

import (
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/docindex"
	"go.trai.ch/ancestry/internal/engine/marker"
	"go.trai.ch/ancestry/internal/engine/matcher"
	"go.trai.ch/zerr"
)

// AncestorItem is an ancestor image of the parent with the edge and marker
// that place it in the ancestry chain.
type AncestorItem struct {
	Package      domain.Package
	Relationship domain.Relationship
	Annotation   domain.Annotation
}

// Resolver rewrites ownership edges of a component document after matching
// its packages against the parent document.
type Resolver struct {
	candidates []matcher.Candidate
	parent     *docindex.Index
	component  *docindex.Index
	stats      ports.StatsSink
	matched    map[string]struct{}
	supplied   int
}

// NewResolver creates a Resolver over the component packages and their owning edges.
func NewResolver(
	candidates []matcher.Candidate,
	parent *docindex.Index,
	component *docindex.Index,
	stats ports.StatsSink,
) *Resolver {
	return &Resolver{
		candidates: candidates,
		parent:     parent,
		component:  component,
		stats:      stats,
		matched:    make(map[string]struct{}),
	}
}

// ResolveComponentRelationships matches every parent package against the
// component packages and moves each matched component edge to the image the
// content really came from. It returns the number of reattributed packages.
//
// Content owned by a parent root is attributed to the id the component uses
// for its parent image. Content the parent already attributed further back
// keeps that attribution.
func (r *Resolver) ResolveComponentRelationships() (int, error) {
	parentRef, err := ParentReference(r.component)
	if err != nil {
		return 0, err
	}

	idx := matcher.NewIdentifierIndex(r.candidates, r.stats)
	count := 0

	for parentCtx := range r.parent.PackageContexts() {
		parentEdge, ok := owningEdge(r.parent, parentCtx.ID())
		if !ok {
			continue
		}

		pkg := parentCtx.Package()
		for _, candidate := range idx.FindCandidates(&pkg) {
			if _, done := r.matched[candidate.Context.ID()]; done {
				continue
			}

			result := matcher.Match(parentCtx, candidate.Context)
			r.stats.RecordMatch(result)
			if !result.Matched {
				continue
			}

			source := r.parent.Relationship(parentEdge).Source
			if r.parent.IsRoot(source) {
				source = parentRef
			} else if err := r.supplySource(source, parentRef); err != nil {
				err = zerr.With(err, "component_package", candidate.Context.ID())
				return count, zerr.With(err, "parent_package", parentCtx.ID())
			}
			if err := r.component.Reparent(candidate.Edge, source); err != nil {
				err = zerr.With(err, "component_package", candidate.Context.ID())
				return count, zerr.With(err, "parent_package", parentCtx.ID())
			}

			r.matched[candidate.Context.ID()] = struct{}{}
			count++
		}
	}

	return count, nil
}

// SupplyAncestors copies the parent's ancestor images into the component
// document. Base image markers become ancestor markers, and edges that
// started at a parent root start at the component's parent image instead.
// Images the component already lists are left alone. It returns the number
// of images added. Nothing is added unless every copied edge resolves.
func (r *Resolver) SupplyAncestors(items []AncestorItem) (int, error) {
	parentRef, err := ParentReference(r.component)
	if err != nil {
		return 0, err
	}

	var batch supplyBatch
	for _, item := range items {
		if r.resolves(item.Package.ID, &batch) {
			continue
		}
		rel := item.Relationship
		if r.parent.IsRoot(rel.Source) {
			rel.Source = parentRef
		}
		batch.add(item.Package)
		batch.relationships = append(batch.relationships, rel)
		batch.annotations = append(batch.annotations, marker.AsAncestor(item.Annotation))
	}

	if err := r.commit(&batch); err != nil {
		return 0, err
	}
	return len(batch.packages), nil
}

// Supplied returns how many parent images were copied into the component,
// by SupplyAncestors or because matched content was owned by them.
func (r *Resolver) Supplied() int {
	return r.supplied
}

// supplyBatch is a set of parent images to copy into the component at once.
type supplyBatch struct {
	packages      []domain.Package
	relationships []domain.Relationship
	annotations   []domain.Annotation
	ids           map[string]struct{}
}

func (b *supplyBatch) add(pkg domain.Package) {
	if b.ids == nil {
		b.ids = make(map[string]struct{})
	}
	b.ids[pkg.ID] = struct{}{}
	b.packages = append(b.packages, pkg)
}

// resolves reports whether id names a component package or one already in batch.
func (r *Resolver) resolves(id string, batch *supplyBatch) bool {
	if id == domain.DocumentRootID {
		return true
	}
	if _, ok := r.component.Lookup(id); ok {
		return true
	}
	_, ok := batch.ids[id]
	return ok
}

// supplySource makes a parent image that owns matched content available in
// the component. Builder and intermediate images the parent was attributed
// to by its own contextualization are copied with their markers, following
// their BUILD_TOOL_OF and DESCENDANT_OF edges up to the parent root.
func (r *Resolver) supplySource(id, parentRef string) error {
	var batch supplyBatch
	if err := r.planSource(id, parentRef, &batch); err != nil {
		return err
	}
	return r.commit(&batch)
}

func (r *Resolver) planSource(id, parentRef string, batch *supplyBatch) error {
	if r.resolves(id, batch) {
		return nil
	}
	img, err := r.parent.ByID(id)
	if err != nil {
		return zerr.With(err, "document", "parent")
	}

	batch.add(img.Package())
	for _, a := range img.Annotations() {
		if _, ok := marker.Decode(a); ok {
			batch.annotations = append(batch.annotations, a)
		}
	}

	for _, ref := range img.Edges() {
		rel := r.parent.Relationship(ref)
		if rel.Kind != domain.RelationshipDescendantOf && rel.Kind != domain.RelationshipBuildToolOf {
			continue
		}
		if r.parent.IsRoot(rel.Target) {
			rel.Target = parentRef
		} else if err := r.planSource(rel.Target, parentRef, batch); err != nil {
			return err
		}
		batch.relationships = append(batch.relationships, rel)
	}
	return nil
}

// commit checks every edge and annotation of batch against the component
// and the batch itself, then adds them. A batch that does not resolve leaves
// the component untouched.
func (r *Resolver) commit(batch *supplyBatch) error {
	for _, rel := range batch.relationships {
		for _, id := range []string{rel.Source, rel.Target} {
			if _, ok := batch.ids[id]; ok {
				continue
			}
			if id != domain.DocumentRootID {
				if _, ok := r.component.Lookup(id); !ok {
					err := zerr.With(zerr.Wrap(domain.ErrDanglingRelationship, "supply image"), "missing_id", id)
					return zerr.With(err, "relationship", string(rel.Kind))
				}
			}
		}
	}

	for _, pkg := range batch.packages {
		if _, err := r.component.AddPackage(pkg); err != nil {
			return err
		}
	}
	for _, rel := range batch.relationships {
		if _, err := r.component.AddRelationship(rel); err != nil {
			return err
		}
	}
	for _, a := range batch.annotations {
		if err := r.component.AddAnnotation(a); err != nil {
			return zerr.With(err, "image", a.Target)
		}
	}
	r.supplied += len(batch.packages)
	return nil
}

// ParentReference returns the id the component document uses for its parent
// image: the target of the DESCENDANT_OF edge leaving its root.
func ParentReference(component *docindex.Index) (string, error) {
	roots := component.Roots()
	if len(roots) == 0 {
		return "", zerr.Wrap(domain.ErrMissingRoot, "component document")
	}
	for _, root := range roots {
		if refs := root.EdgesOfKind(domain.RelationshipDescendantOf); len(refs) > 0 {
			return component.Relationship(refs[0]).Target, nil
		}
	}
	return "", zerr.With(zerr.Wrap(domain.ErrMissingParentReference, "cannot join with parent"), "root", roots[0].ID())
}

// CollectAncestors returns the images of the parent document marked as base
// or ancestor images, each with the DESCENDANT_OF edge pointing at it.
func CollectAncestors(parent *docindex.Index) []AncestorItem {
	var items []AncestorItem
	for _, img := range parent.ImagePackages() {
		ann, ok := ancestryAnnotation(img.Annotations())
		if !ok {
			continue
		}
		refs := parent.IncomingEdges(img.ID(), domain.RelationshipDescendantOf)
		if len(refs) == 0 {
			continue
		}
		items = append(items, AncestorItem{
			Package:      img.Package(),
			Relationship: parent.Relationship(refs[0]),
			Annotation:   ann,
		})
	}
	return items
}

// Candidates returns the component packages owned by a component root,
// paired with the owning CONTAINS edge.
func Candidates(component *docindex.Index) []matcher.Candidate {
	var candidates []matcher.Candidate
	for _, root := range component.Roots() {
		for _, ref := range root.EdgesOfKind(domain.RelationshipContains) {
			ctx, ok := component.Lookup(component.Relationship(ref).Target)
			if !ok {
				continue
			}
			candidates = append(candidates, matcher.Candidate{Context: ctx, Edge: ref})
		}
	}
	return candidates
}

func ancestryAnnotation(annotations []domain.Annotation) (domain.Annotation, bool) {
	for _, a := range annotations {
		m, ok := marker.Decode(a)
		if ok && (m.Name == marker.RoleBaseImage || m.Name == marker.RoleAncestorImage) {
			return a, true
		}
	}
	return domain.Annotation{}, false
}

func owningEdge(ix *docindex.Index, id string) (docindex.EdgeRef, bool) {
	refs := ix.IncomingEdges(id, domain.RelationshipContains)
	if len(refs) == 0 {
		return 0, false
	}
	return refs[0], true
}
