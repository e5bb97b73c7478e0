// Package cyclonedx reads and writes CycloneDX JSON documents.
//
// CycloneDX has no general relationship list, so the edges ancestry needs are
// carried in component properties. A component without an
// ancestry:contained-by property is owned by the metadata component, unless it
// is itself a container image.
package cyclonedx

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// PropertyPrefix namespaces the component properties written by ancestry.
	PropertyPrefix = "ancestry:"
	// PropertyContainedBy names the bom-ref of the component owning this one.
	PropertyContainedBy = PropertyPrefix + "contained-by"
	// PropertyDescendantOf names the bom-ref of the image this one is built on.
	PropertyDescendantOf = PropertyPrefix + "descendant-of"
	// PropertyAnnotation holds one JSON encoded annotation.
	PropertyAnnotation = PropertyPrefix + "annotation"
	// PropertyRelationship holds any other outgoing edge as "KIND bom-ref".
	PropertyRelationship = PropertyPrefix + "relationship"

	purlCategory = "PACKAGE-MANAGER"
)

// hashNames maps CycloneDX hash algorithm names to their SPDX spelling.
var hashNames = map[cdx.HashAlgorithm]string{
	cdx.HashAlgoSHA1:   "SHA1",
	cdx.HashAlgoSHA256: "SHA256",
	cdx.HashAlgoSHA384: "SHA384",
	cdx.HashAlgoSHA512: "SHA512",
}

type annotationProperty struct {
	Annotator string `json:"annotator"`
	Date      string `json:"date,omitempty"`
	Comment   string `json:"comment"`
}

// raw is what the decoder keeps for the encoder.
type raw struct {
	bom        *cdx.BOM
	components map[string]cdx.Component
}

// Codec implements ports.DocumentCodec for CycloneDX JSON.
type Codec struct {
	now func() time.Time
}

// New creates a Codec.
func New() *Codec {
	return &Codec{now: time.Now}
}

// Format returns domain.FormatCycloneDX.
func (c *Codec) Format() domain.Format {
	return domain.FormatCycloneDX
}

// Decode reads a CycloneDX JSON BOM.
func (c *Codec) Decode(r io.Reader) (*domain.Document, error) {
	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(r, cdx.BOMFileFormatJSON).Decode(bom); err != nil {
		return nil, zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error())
	}

	d := &decoder{
		doc: &domain.Document{
			Namespace: bom.SerialNumber,
			Format:    domain.FormatCycloneDX,
		},
		raw:   &raw{bom: bom, components: make(map[string]cdx.Component)},
		known: make(map[string]bool),
	}
	d.doc.Raw = d.raw

	if bom.Metadata != nil && bom.Metadata.Component != nil {
		root := *bom.Metadata.Component
		d.rootID = d.add(&root, "")
		d.doc.Name = root.Name
		d.doc.Relationships = append(d.doc.Relationships, domain.Relationship{
			Source: domain.DocumentRootID,
			Kind:   domain.RelationshipDescribes,
			Target: d.rootID,
		})
		if root.Components != nil {
			for i := range *root.Components {
				d.add(&(*root.Components)[i], d.rootID)
			}
		}
	}
	if bom.Components != nil {
		for i := range *bom.Components {
			d.add(&(*bom.Components)[i], d.rootID)
		}
	}

	if bom.Dependencies != nil {
		for _, dep := range *bom.Dependencies {
			if dep.Dependencies == nil {
				continue
			}
			for _, ref := range *dep.Dependencies {
				d.doc.Relationships = append(d.doc.Relationships, domain.Relationship{
					Source: ref,
					Kind:   domain.RelationshipDependencyOf,
					Target: dep.Ref,
				})
			}
		}
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d.doc, nil
}

type decoder struct {
	doc    *domain.Document
	raw    *raw
	rootID string
	known  map[string]bool
	err    error
}

// add records component c and its nested components. owner is the bom-ref
// that owns c when it carries no explicit ancestry:contained-by property.
func (d *decoder) add(c *cdx.Component, owner string) string {
	id := c.BOMRef
	if id == "" {
		id = "ancestry-" + uuid.NewString()
	}
	d.known[id] = true
	d.raw.components[id] = *c
	d.doc.Packages = append(d.doc.Packages, toPackage(id, c))

	containedBy, explicit := "", false
	if c.Properties != nil {
		for _, p := range *c.Properties {
			switch p.Name {
			case PropertyContainedBy:
				containedBy, explicit = p.Value, true
			case PropertyDescendantOf:
				d.edge(id, domain.RelationshipDescendantOf, p.Value)
			case PropertyRelationship:
				kind, target, ok := strings.Cut(p.Value, " ")
				if !ok && d.err == nil {
					d.err = zerr.With(zerr.Wrap(domain.ErrDocumentDecodeFailed, "malformed relationship property"), "value", p.Value)
				}
				d.edge(id, domain.RelationshipKind(kind), target)
			case PropertyAnnotation:
				var a annotationProperty
				if err := json.Unmarshal([]byte(p.Value), &a); err != nil {
					if d.err == nil {
						d.err = zerr.With(zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error()), "bom-ref", id)
					}
					continue
				}
				d.doc.Annotations = append(d.doc.Annotations, domain.Annotation{
					Target:    id,
					Comment:   a.Comment,
					Annotator: a.Annotator,
					Date:      a.Date,
				})
			}
		}
	}

	switch {
	case explicit && containedBy != "":
		d.edge(containedBy, domain.RelationshipContains, id)
	case !explicit && owner != "" && c.Type != cdx.ComponentTypeContainer:
		d.edge(owner, domain.RelationshipContains, id)
	}

	if c.Components != nil {
		for i := range *c.Components {
			d.add(&(*c.Components)[i], id)
		}
	}
	return id
}

func (d *decoder) edge(source string, kind domain.RelationshipKind, target string) {
	d.doc.Relationships = append(d.doc.Relationships, domain.Relationship{Source: source, Kind: kind, Target: target})
}

func (d *decoder) validate() error {
	if d.err != nil {
		return d.err
	}
	for i, rel := range d.doc.Relationships {
		for _, id := range []string{rel.Source, rel.Target} {
			if id == domain.DocumentRootID && rel.Kind == domain.RelationshipDescribes {
				continue
			}
			if !d.known[id] {
				err := zerr.Wrap(domain.ErrDanglingRelationship, "relationship endpoint does not resolve")
				err = zerr.With(err, "relationship", i)
				return zerr.With(err, "missing_id", id)
			}
		}
	}
	return nil
}

func toPackage(id string, c *cdx.Component) domain.Package {
	pkg := domain.Package{
		ID:      id,
		Name:    c.Name,
		Version: c.Version,
	}
	if c.Hashes != nil {
		for _, h := range *c.Hashes {
			alg, ok := hashNames[h.Algorithm]
			if !ok {
				alg = string(h.Algorithm)
			}
			pkg.Checksums = append(pkg.Checksums, domain.Checksum{Algorithm: alg, Value: h.Value})
		}
	}
	if c.PackageURL != "" {
		pkg.ExternalRefs = append(pkg.ExternalRefs, domain.ExternalRef{
			Category: purlCategory,
			Type:     domain.PurlRefType,
			Locator:  c.PackageURL,
		})
	}
	return pkg
}

// Encode writes doc as indented CycloneDX JSON. Components Decode saw keep
// their unmodeled fields; nested components are written flat.
func (c *Codec) Encode(w io.Writer, doc *domain.Document) error {
	state, _ := doc.Raw.(*raw)

	var bom cdx.BOM
	if state != nil {
		bom = *state.bom
	} else {
		bom = *cdx.NewBOM()
		bom.SerialNumber = "urn:uuid:" + uuid.NewString()
	}
	if doc.Namespace != "" {
		bom.SerialNumber = doc.Namespace
	}

	var metadata cdx.Metadata
	if bom.Metadata != nil {
		metadata = *bom.Metadata
	}
	if metadata.Timestamp == "" {
		metadata.Timestamp = c.now().UTC().Format(time.RFC3339)
	}
	metadata.Component = nil
	bom.Metadata = &metadata

	rootID := ""
	for _, rel := range doc.Relationships {
		if rel.Source == domain.DocumentRootID && rel.Kind == domain.RelationshipDescribes {
			rootID = rel.Target
			break
		}
	}

	props := c.properties(doc, rootID)
	components := make([]cdx.Component, 0, len(doc.Packages))
	for i := range doc.Packages {
		p := &doc.Packages[i]
		var base cdx.Component
		if state != nil {
			base = state.components[p.ID]
		}
		comp := toComponent(p, base, props[p.ID])
		if p.ID == rootID {
			metadata.Component = &comp
			continue
		}
		components = append(components, comp)
	}
	bom.Components = nil
	if len(components) > 0 {
		bom.Components = &components
	}

	bom.Dependencies = dependencies(doc)

	if err := cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON).SetPretty(true).Encode(&bom); err != nil {
		return zerr.Wrap(domain.ErrDocumentEncodeFailed, err.Error())
	}
	return nil
}

// properties returns the ancestry properties of every package, keyed by id.
func (c *Codec) properties(doc *domain.Document, rootID string) map[string][]cdx.Property {
	props := make(map[string][]cdx.Property)
	owned := make(map[string]bool)
	for _, rel := range doc.Relationships {
		switch rel.Kind {
		case domain.RelationshipDescribes, domain.RelationshipDependencyOf:
		case domain.RelationshipContains:
			owned[rel.Target] = true
			props[rel.Target] = append(props[rel.Target], cdx.Property{Name: PropertyContainedBy, Value: rel.Source})
		case domain.RelationshipDescendantOf:
			props[rel.Source] = append(props[rel.Source], cdx.Property{Name: PropertyDescendantOf, Value: rel.Target})
		default:
			props[rel.Source] = append(props[rel.Source], cdx.Property{
				Name:  PropertyRelationship,
				Value: string(rel.Kind) + " " + rel.Target,
			})
		}
	}

	// A package nobody owns must not fall back to the root on decode.
	for i := range doc.Packages {
		id := doc.Packages[i].ID
		if id != rootID && !owned[id] {
			props[id] = append(props[id], cdx.Property{Name: PropertyContainedBy, Value: ""})
		}
	}

	for _, a := range doc.Annotations {
		date := a.Date
		if date == "" {
			date = c.now().UTC().Format(time.RFC3339)
		}
		// Marshaling a struct of strings cannot fail.
		value, _ := json.Marshal(annotationProperty{Annotator: a.Annotator, Date: date, Comment: a.Comment})
		props[a.Target] = append(props[a.Target], cdx.Property{Name: PropertyAnnotation, Value: string(value)})
	}
	return props
}

func toComponent(p *domain.Package, base cdx.Component, props []cdx.Property) cdx.Component {
	comp := base
	comp.BOMRef = p.ID
	comp.Name = p.Name
	comp.Version = p.Version
	comp.PackageURL = p.Purl()
	comp.Components = nil
	if comp.Type == "" {
		comp.Type = cdx.ComponentTypeLibrary
		if p.IsImage() {
			comp.Type = cdx.ComponentTypeContainer
		}
	}

	comp.Hashes = nil
	if len(p.Checksums) > 0 {
		hashes := make([]cdx.Hash, 0, len(p.Checksums))
		for _, cs := range p.Checksums {
			hashes = append(hashes, cdx.Hash{Algorithm: hashAlgorithm(cs.Algorithm), Value: cs.Value})
		}
		comp.Hashes = &hashes
	}

	var kept []cdx.Property
	if base.Properties != nil {
		for _, prop := range *base.Properties {
			if !strings.HasPrefix(prop.Name, PropertyPrefix) {
				kept = append(kept, prop)
			}
		}
	}
	kept = append(kept, props...)
	comp.Properties = nil
	if len(kept) > 0 {
		comp.Properties = &kept
	}
	return comp
}

func hashAlgorithm(name string) cdx.HashAlgorithm {
	for alg, spdxName := range hashNames {
		if spdxName == name {
			return alg
		}
	}
	return cdx.HashAlgorithm(name)
}

// dependencies groups DEPENDENCY_OF edges by the depending component.
func dependencies(doc *domain.Document) *[]cdx.Dependency {
	byRef := make(map[string][]string)
	var order []string
	for _, rel := range doc.Relationships {
		if rel.Kind != domain.RelationshipDependencyOf {
			continue
		}
		if _, ok := byRef[rel.Target]; !ok {
			order = append(order, rel.Target)
		}
		if !slices.Contains(byRef[rel.Target], rel.Source) {
			byRef[rel.Target] = append(byRef[rel.Target], rel.Source)
		}
	}
	if len(order) == 0 {
		return nil
	}

	deps := make([]cdx.Dependency, 0, len(order))
	for _, ref := range order {
		refs := byRef[ref]
		deps = append(deps, cdx.Dependency{Ref: ref, Dependencies: &refs})
	}
	return &deps
}
