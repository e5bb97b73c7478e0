// Package provenance reads build provenance documents.
package provenance

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/package-url/packageurl-go"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/zerr"
)

// Document is the wire shape of a provenance file.
type Document struct {
	Packages []Item `json:"packages" validate:"dive"`
}

// Item is one provenance entry. A null dependency_of_purl decodes as empty.
type Item struct {
	Purl             string   `json:"purl" validate:"required,purl"`
	Checksums        []string `json:"checksums,omitempty" validate:"dive,required"`
	DependencyOfPurl string   `json:"dependency_of_purl" validate:"omitempty,purl"`
	OriginType       string   `json:"origin_type" validate:"required,oneof=builder intermediate"`
	Pullspec         string   `json:"pullspec" validate:"required"`
}

// Loader implements ports.ProvenanceLoader.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a Loader with its validation rules registered.
func NewLoader() *Loader {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("purl", validatePurl)
	return &Loader{validate: v}
}

// validatePurl accepts strings that parse as package URLs.
func validatePurl(fl validator.FieldLevel) bool {
	_, err := packageurl.FromString(fl.Field().String())
	return err == nil
}

// Load reads, parses and validates the provenance file at path.
func (l *Loader) Load(path string) (*domain.Provenance, error) {
	//nolint:gosec // Path comes from the job definition
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProvenanceReadFailed, err.Error()), "file", path)
	}

	prov, err := l.Parse(data)
	if err != nil {
		return nil, zerr.With(err, "file", path)
	}
	return prov, nil
}

// Parse decodes and validates provenance JSON.
func (l *Loader) Parse(data []byte) (*domain.Provenance, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, zerr.Wrap(domain.ErrProvenanceParseFailed, err.Error())
	}

	if err := l.validate.Struct(&doc); err != nil {
		return nil, invalid(err)
	}

	prov := &domain.Provenance{Packages: make([]domain.ProvenanceItem, 0, len(doc.Packages))}
	for _, item := range doc.Packages {
		prov.Packages = append(prov.Packages, domain.ProvenanceItem{
			Purl:             item.Purl,
			Checksums:        item.Checksums,
			DependencyOfPurl: item.DependencyOfPurl,
			OriginType:       domain.OriginKind(item.OriginType),
			Pullspec:         item.Pullspec,
		})
	}
	return prov, nil
}

// invalid turns validator failures into one ErrProvenanceInvalid naming every failed field.
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return zerr.Wrap(domain.ErrProvenanceInvalid, err.Error())
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return zerr.With(zerr.Wrap(domain.ErrProvenanceInvalid, "invalid fields"), "fields", strings.Join(fields, ", "))
}
