// Package docindex builds lookup structures over one SBOM document and is the
// only surface through which the document graph is mutated.
//
// Packages live in the document's package slice and are addressed by a
// stable id; edges are plain values in the relationship slice addressed by
// EdgeRef. Moving an edge to another owner is an index update, never pointer
// surgery, so the index and the document cannot drift apart.
package docindex

import (
	"iter"
	"slices"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

// EdgeRef addresses a relationship in the indexed document.
type EdgeRef int

// Index is the lookup structure over one document for one contextualization pass.
// It must not be shared between concurrent passes.
type Index struct {
	doc        *domain.Document
	byID       map[string]*PackageContext
	byPurl     map[string][]*PackageContext
	images     []*PackageContext
	ordered    []*PackageContext
	incoming   map[string][]EdgeRef
	roots      []string
	duplicates []string
}

// New indexes doc. The index takes ownership of doc for the rest of the pass.
func New(doc *domain.Document) *Index {
	ix := &Index{
		doc:      doc,
		byID:     make(map[string]*PackageContext, len(doc.Packages)),
		byPurl:   make(map[string][]*PackageContext),
		incoming: make(map[string][]EdgeRef),
	}

	for slot := range doc.Packages {
		ix.register(slot)
	}

	for i := range doc.Relationships {
		ix.attach(EdgeRef(i))
	}

	for i := range doc.Annotations {
		if ctx, ok := ix.byID[doc.Annotations[i].Target]; ok {
			ctx.annotations = append(ctx.annotations, i)
		}
	}

	return ix
}

func (ix *Index) register(slot int) *PackageContext {
	pkg := &ix.doc.Packages[slot]
	if _, exists := ix.byID[pkg.ID]; exists {
		ix.duplicates = append(ix.duplicates, pkg.ID)
		return nil
	}

	ctx := &PackageContext{id: pkg.ID, slot: slot, ix: ix}
	ix.byID[pkg.ID] = ctx
	ix.ordered = append(ix.ordered, ctx)

	if purl := pkg.Purl(); purl != "" {
		ix.byPurl[purl] = append(ix.byPurl[purl], ctx)
	}
	if pkg.IsImage() {
		ix.images = append(ix.images, ctx)
	}
	return ctx
}

func (ix *Index) attach(ref EdgeRef) {
	rel := ix.doc.Relationships[ref]
	ix.incoming[rel.Target] = append(ix.incoming[rel.Target], ref)

	if rel.Source == domain.DocumentRootID {
		if rel.Kind == domain.RelationshipDescribes {
			ix.roots = append(ix.roots, rel.Target)
		}
		return
	}
	if ctx, ok := ix.byID[rel.Source]; ok {
		ctx.edges = append(ctx.edges, ref)
	}
}

// Document returns the indexed document.
func (ix *Index) Document() *domain.Document {
	return ix.doc
}

// Validate checks that package ids are unique and every relationship endpoint resolves.
func (ix *Index) Validate() error {
	if len(ix.duplicates) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, "document lists a package twice"), "package_id", ix.duplicates[0])
	}
	for i, rel := range ix.doc.Relationships {
		if rel.Source != domain.DocumentRootID {
			if _, ok := ix.byID[rel.Source]; !ok {
				return danglingError(i, rel, rel.Source)
			}
		}
		if _, ok := ix.byID[rel.Target]; !ok {
			return danglingError(i, rel, rel.Target)
		}
	}
	return nil
}

func danglingError(i int, rel domain.Relationship, missing string) error {
	err := zerr.Wrap(domain.ErrDanglingRelationship, "relationship endpoint does not resolve")
	err = zerr.With(err, "relationship", i)
	err = zerr.With(err, "kind", string(rel.Kind))
	return zerr.With(err, "missing_id", missing)
}

// ByID returns the context of the package with the given id.
func (ix *Index) ByID(id string) (*PackageContext, error) {
	ctx, ok := ix.byID[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "lookup by id"), "package_id", id)
	}
	return ctx, nil
}

// Lookup returns the context of the package with the given id, if any.
func (ix *Index) Lookup(id string) (*PackageContext, bool) {
	ctx, ok := ix.byID[id]
	return ctx, ok
}

// ByPurl returns every package carrying exactly this purl, in document order.
func (ix *Index) ByPurl(purl string) []*PackageContext {
	return slices.Clone(ix.byPurl[purl])
}

// ImagePackages returns the packages whose id carries the image prefix.
func (ix *Index) ImagePackages() []*PackageContext {
	return slices.Clone(ix.images)
}

// Roots returns the packages the document DESCRIBES.
func (ix *Index) Roots() []*PackageContext {
	roots := make([]*PackageContext, 0, len(ix.roots))
	for _, id := range ix.roots {
		if ctx, ok := ix.byID[id]; ok {
			roots = append(roots, ctx)
		}
	}
	return roots
}

// IsRoot reports whether id is a package the document DESCRIBES.
func (ix *Index) IsRoot(id string) bool {
	return slices.Contains(ix.roots, id)
}

// PackageContexts iterates the packages in document order.
// Packages added while iterating are not visited.
func (ix *Index) PackageContexts() iter.Seq[*PackageContext] {
	return func(yield func(*PackageContext) bool) {
		snapshot := ix.ordered[:len(ix.ordered):len(ix.ordered)]
		for _, ctx := range snapshot {
			if !yield(ctx) {
				return
			}
		}
	}
}

// Relationship returns the edge addressed by ref.
func (ix *Index) Relationship(ref EdgeRef) domain.Relationship {
	return ix.doc.Relationships[ref]
}

// IncomingEdges returns the edges of the given kind whose target is id.
func (ix *Index) IncomingEdges(id string, kind domain.RelationshipKind) []EdgeRef {
	var refs []EdgeRef
	for _, ref := range ix.incoming[id] {
		if ix.doc.Relationships[ref].Kind == kind {
			refs = append(refs, ref)
		}
	}
	return refs
}

// AddPackage appends a package to the document.
func (ix *Index) AddPackage(pkg domain.Package) (*PackageContext, error) {
	if _, exists := ix.byID[pkg.ID]; exists {
		return nil, zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, "add package"), "package_id", pkg.ID)
	}
	ix.doc.Packages = append(ix.doc.Packages, pkg)
	return ix.register(len(ix.doc.Packages) - 1), nil
}

// AddRelationship appends an edge to the document. Both endpoints must resolve.
func (ix *Index) AddRelationship(rel domain.Relationship) (EdgeRef, error) {
	if err := ix.checkEndpoints(rel); err != nil {
		return 0, err
	}
	return ix.appendRelationship(rel), nil
}

// AddAnnotation appends an annotation to the document. Its target must resolve.
func (ix *Index) AddAnnotation(a domain.Annotation) error {
	if _, ok := ix.byID[a.Target]; !ok {
		return zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "annotation target"), "package_id", a.Target)
	}
	ix.appendAnnotation(a)
	return nil
}

func (ix *Index) checkEndpoints(rel domain.Relationship) error {
	if rel.Source != domain.DocumentRootID {
		if _, ok := ix.byID[rel.Source]; !ok {
			return zerr.With(zerr.Wrap(domain.ErrDanglingRelationship, "relationship source"), "missing_id", rel.Source)
		}
	}
	if _, ok := ix.byID[rel.Target]; !ok {
		return zerr.With(zerr.Wrap(domain.ErrDanglingRelationship, "relationship target"), "missing_id", rel.Target)
	}
	return nil
}

func (ix *Index) appendRelationship(rel domain.Relationship) EdgeRef {
	ix.doc.Relationships = append(ix.doc.Relationships, rel)
	ref := EdgeRef(len(ix.doc.Relationships) - 1)
	ix.attach(ref)
	return ref
}

func (ix *Index) appendAnnotation(a domain.Annotation) {
	ix.doc.Annotations = append(ix.doc.Annotations, a)
	ctx := ix.byID[a.Target]
	ctx.annotations = append(ctx.annotations, len(ix.doc.Annotations)-1)
}

// Reparent moves the edge addressed by ref to a new source package.
// Both the current and the new source are verified before anything is
// mutated, so a failed reparent leaves the document untouched.
func (ix *Index) Reparent(ref EdgeRef, newSource string) error {
	if int(ref) < 0 || int(ref) >= len(ix.doc.Relationships) {
		return zerr.With(zerr.Wrap(domain.ErrRelationshipNotFound, "reparent"), "relationship", int(ref))
	}
	rel := ix.doc.Relationships[ref]

	current, ok := ix.byID[rel.Source]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "reparent: current source"), "package_id", rel.Source)
	}
	pos := slices.Index(current.edges, ref)
	if pos < 0 {
		err := zerr.Wrap(domain.ErrRelationshipNotFound, "reparent: edge not owned by its source")
		return zerr.With(zerr.With(err, "package_id", rel.Source), "target", rel.Target)
	}
	next, ok := ix.byID[newSource]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "reparent: new source"), "package_id", newSource)
	}
	if next == current {
		return nil
	}

	current.edges = slices.Delete(current.edges, pos, pos+1)
	next.edges = append(next.edges, ref)
	ix.doc.Relationships[ref].Source = newSource
	return nil
}
