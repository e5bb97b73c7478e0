// Package spdx reads and writes SPDX 2.3 JSON documents.
package spdx

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// Version is the SPDX version written into new documents.
	Version = "SPDX-2.3"
	// DataLicense is the license of SPDX document metadata.
	DataLicense = "CC0-1.0"
	// NamespacePrefix prefixes generated document namespaces.
	NamespacePrefix = "https://ancestry.trai.ch/spdx/"
	// Creator names this tool in creationInfo.
	Creator = domain.ToolActorPrefix + " ancestry"

	noAssertion = "NOASSERTION"
	none        = "NONE"
	otherType   = "OTHER"
)

// Codec implements ports.DocumentCodec for SPDX JSON.
type Codec struct {
	now func() time.Time
}

// New creates a Codec.
func New() *Codec {
	return &Codec{now: time.Now}
}

// Format returns domain.FormatSPDX.
func (c *Codec) Format() domain.Format {
	return domain.FormatSPDX
}

// Decode reads an SPDX JSON document.
// Relationships between packages become model edges; those touching files,
// snippets or NONE/NOASSERTION are kept aside and written back unchanged.
func (c *Codec) Decode(r io.Reader) (*domain.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error())
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error())
	}
	var in document
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error())
	}

	state := &raw{
		rootID:   in.SPDXID,
		top:      top,
		packages: make(map[string]map[string]json.RawMessage, len(in.Packages)),
	}
	if state.rootID == "" {
		state.rootID = domain.DocumentRootID
	}

	doc := &domain.Document{
		Name:      in.Name,
		Namespace: in.DocumentNamespace,
		Format:    domain.FormatSPDX,
		Packages:  make([]domain.Package, 0, len(in.Packages)),
		Raw:       state,
	}

	for i, msg := range in.Packages {
		var p spdxPackage
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error()), "package", i)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(msg, &fields); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrDocumentDecodeFailed, err.Error()), "package", i)
		}
		state.packages[p.SPDXID] = fields

		doc.Packages = append(doc.Packages, toPackage(p))
		for _, a := range p.Annotations {
			doc.Annotations = append(doc.Annotations, domain.Annotation{
				Target:    p.SPDXID,
				Comment:   a.Comment,
				Annotator: a.Annotator,
				Date:      a.AnnotationDate,
			})
		}
	}

	packages := make(map[string]bool, len(doc.Packages))
	for _, p := range doc.Packages {
		packages[p.ID] = true
	}
	others := map[string]bool{state.rootID: true, noAssertion: true, none: true}
	for _, e := range in.Files {
		others[e.SPDXID] = true
	}
	for _, e := range in.Snippets {
		others[e.SPDXID] = true
	}

	for i, rel := range in.Relationships {
		source := rel.SpdxElementID
		if source == state.rootID {
			source = domain.DocumentRootID
		}
		if (packages[source] || source == domain.DocumentRootID) && packages[rel.RelatedSpdxElement] {
			doc.Relationships = append(doc.Relationships, domain.Relationship{
				Source: source,
				Kind:   domain.RelationshipKind(rel.RelationshipType),
				Target: rel.RelatedSpdxElement,
			})
			continue
		}
		for _, id := range []string{rel.SpdxElementID, rel.RelatedSpdxElement} {
			if !packages[id] && !others[id] && !strings.HasPrefix(id, "DocumentRef-") {
				err := zerr.Wrap(domain.ErrDanglingRelationship, "relationship endpoint does not resolve")
				err = zerr.With(err, "relationship", i)
				return nil, zerr.With(err, "missing_id", id)
			}
		}
		state.foreign = append(state.foreign, rel)
	}

	return doc, nil
}

func toPackage(p spdxPackage) domain.Package {
	pkg := domain.Package{
		ID:      p.SPDXID,
		Name:    p.Name,
		Version: p.VersionInfo,
	}
	for _, cs := range p.Checksums {
		pkg.Checksums = append(pkg.Checksums, domain.Checksum{Algorithm: cs.Algorithm, Value: cs.ChecksumValue})
	}
	if p.PackageVerificationCode != nil {
		pkg.VerificationCode = p.PackageVerificationCode.Value
	}
	for _, ref := range p.ExternalRefs {
		pkg.ExternalRefs = append(pkg.ExternalRefs, domain.ExternalRef{
			Category: ref.ReferenceCategory,
			Type:     ref.ReferenceType,
			Locator:  ref.ReferenceLocator,
		})
	}
	return pkg
}

// Encode writes doc as indented SPDX JSON. Content kept by Decode is merged
// back; documents built from scratch get fresh creation metadata.
func (c *Codec) Encode(w io.Writer, doc *domain.Document) error {
	state, _ := doc.Raw.(*raw)
	if state == nil {
		state = &raw{rootID: domain.DocumentRootID}
	}

	out := make(map[string]any, len(state.top)+8)
	for k, v := range state.top {
		out[k] = v
	}
	if state.top == nil {
		c.fillHeader(out, doc)
	}
	if doc.Name != "" {
		out["name"] = doc.Name
	}
	if doc.Namespace != "" {
		out["documentNamespace"] = doc.Namespace
	}

	byTarget := make(map[string][]annotation)
	for _, a := range doc.Annotations {
		date := a.Date
		if date == "" {
			date = c.now().UTC().Format(time.RFC3339)
		}
		byTarget[a.Target] = append(byTarget[a.Target], annotation{
			Annotator:      a.Annotator,
			AnnotationDate: date,
			AnnotationType: otherType,
			Comment:        a.Comment,
		})
	}

	packages := make([]map[string]any, 0, len(doc.Packages))
	for i := range doc.Packages {
		p := &doc.Packages[i]
		packages = append(packages, encodePackage(p, state.packages[p.ID], byTarget[p.ID]))
	}
	out["packages"] = packages

	rels := make([]relationship, 0, len(doc.Relationships)+len(state.foreign))
	for _, rel := range doc.Relationships {
		source := rel.Source
		if source == domain.DocumentRootID {
			source = state.rootID
		}
		rels = append(rels, relationship{
			SpdxElementID:      source,
			RelationshipType:   string(rel.Kind),
			RelatedSpdxElement: rel.Target,
		})
	}
	out["relationships"] = append(rels, state.foreign...)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return zerr.Wrap(domain.ErrDocumentEncodeFailed, err.Error())
	}
	return nil
}

func (c *Codec) fillHeader(out map[string]any, doc *domain.Document) {
	name := doc.Name
	if name == "" {
		name = "ancestry"
	}
	out["spdxVersion"] = Version
	out["dataLicense"] = DataLicense
	out["SPDXID"] = domain.DocumentRootID
	out["name"] = name
	out["documentNamespace"] = NamespacePrefix + name + "-" + uuid.NewString()
	out["creationInfo"] = creationInfo{
		Created:  c.now().UTC().Format(time.RFC3339),
		Creators: []string{Creator},
	}
}

// encodePackage overlays the model fields of p on the fields Decode kept.
func encodePackage(p *domain.Package, kept map[string]json.RawMessage, anns []annotation) map[string]any {
	out := make(map[string]any, len(kept)+8)
	for k, v := range kept {
		out[k] = v
	}
	if kept == nil {
		out["downloadLocation"] = noAssertion
		out["filesAnalyzed"] = false
	}

	out["SPDXID"] = p.ID
	out["name"] = p.Name
	setOrDelete(out, "versionInfo", p.Version, p.Version != "")

	checksums := make([]checksum, 0, len(p.Checksums))
	for _, cs := range p.Checksums {
		checksums = append(checksums, checksum{Algorithm: cs.Algorithm, ChecksumValue: cs.Value})
	}
	setOrDelete(out, "checksums", checksums, len(checksums) > 0)

	if p.VerificationCode == "" {
		delete(out, "packageVerificationCode")
	} else {
		var code verificationCode
		if msg, ok := kept["packageVerificationCode"]; ok {
			_ = json.Unmarshal(msg, &code)
		}
		code.Value = p.VerificationCode
		out["packageVerificationCode"] = code
	}

	refs := make([]externalRef, 0, len(p.ExternalRefs))
	for _, ref := range p.ExternalRefs {
		refs = append(refs, externalRef{
			ReferenceCategory: ref.Category,
			ReferenceType:     ref.Type,
			ReferenceLocator:  ref.Locator,
		})
	}
	setOrDelete(out, "externalRefs", refs, len(refs) > 0)
	setOrDelete(out, "annotations", anns, len(anns) > 0)

	return out
}

func setOrDelete(m map[string]any, key string, value any, set bool) {
	if set {
		m[key] = value
		return
	}
	delete(m, key)
}
