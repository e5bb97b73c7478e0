// Package marker encodes and decodes the JSON sidecar markers that tag image
// packages with their role in a multi-stage build.
package marker

import (
	"encoding/json"
	"strconv"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

// ToolActor is the annotator identity of every marker written by ancestry.
const ToolActor = domain.ToolActorPrefix + " ancestry:jsonencoded"

// Role names a marker.
type Role string

const (
	// RoleBaseImage marks the starting image of a build stage.
	RoleBaseImage Role = "is_base_image"
	// RoleAncestorImage marks an image further back in the ancestry chain.
	RoleAncestorImage Role = "is_ancestor_image"
	// RoleBuilderImage marks a builder stage image; the value is the stage index.
	RoleBuilderImage Role = "is_builder_image:for_stage"
	// RoleIntermediateImage marks a synthetic intermediate stage; the value is the stage index.
	RoleIntermediateImage Role = "is_intermediate_image:for_stage"
)

const trueValue = "true"

// Marker is the decoded comment of a sidecar annotation.
type Marker struct {
	Name  Role   `json:"name"`
	Value string `json:"value"`
}

// Base returns the base image marker.
func Base() Marker {
	return Marker{Name: RoleBaseImage, Value: trueValue}
}

// Ancestor returns the ancestor image marker.
func Ancestor() Marker {
	return Marker{Name: RoleAncestorImage, Value: trueValue}
}

// Builder returns the builder marker for a stage.
func Builder(stage int) Marker {
	return Marker{Name: RoleBuilderImage, Value: strconv.Itoa(stage)}
}

// Intermediate returns the intermediate marker for a stage.
func Intermediate(stage int) Marker {
	return Marker{Name: RoleIntermediateImage, Value: strconv.Itoa(stage)}
}

// Stage returns the stage index carried by a builder or intermediate marker.
func (m Marker) Stage() (int, error) {
	stage, err := strconv.Atoi(m.Value)
	if err != nil || stage < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrInvalidMarker, "stage is not a non-negative integer"), "value", m.Value)
	}
	return stage, nil
}

// Annotation encodes the marker as an annotation on target.
func (m Marker) Annotation(target string) domain.Annotation {
	// Marshaling a struct of two strings cannot fail.
	comment, _ := json.Marshal(m)
	return domain.Annotation{
		Target:    target,
		Comment:   string(comment),
		Annotator: ToolActor,
	}
}

// Decode parses an annotation comment as a marker.
// It reports false for annotations that are not tool-authored markers.
func Decode(a domain.Annotation) (Marker, bool) {
	if !a.IsTool() {
		return Marker{}, false
	}
	var m Marker
	if err := json.Unmarshal([]byte(a.Comment), &m); err != nil {
		return Marker{}, false
	}
	if m.Name == "" {
		return Marker{}, false
	}
	return m, true
}

// Find returns the first marker with the given role among annotations.
func Find(annotations []domain.Annotation, role Role) (Marker, bool) {
	for _, a := range annotations {
		if m, ok := Decode(a); ok && m.Name == role {
			return m, true
		}
	}
	return Marker{}, false
}

// Has reports whether annotations carry a marker with the given role.
func Has(annotations []domain.Annotation, role Role) bool {
	_, ok := Find(annotations, role)
	return ok
}

// AsAncestor rewrites a base image marker into an ancestor marker.
// Seen from one generation further out, a stage's starting image is merely an ancestor.
// Any other annotation is returned unchanged.
func AsAncestor(a domain.Annotation) domain.Annotation {
	m, ok := Decode(a)
	if !ok || m.Name != RoleBaseImage {
		return a
	}
	out := Ancestor().Annotation(a.Target)
	out.Annotator = a.Annotator
	return out
}
