package spdx

import "encoding/json"

// document is the part of an SPDX 2.3 JSON document the codec interprets.
// Everything else is carried through untouched.
type document struct {
	SPDXID            string            `json:"SPDXID"`
	Name              string            `json:"name"`
	DocumentNamespace string            `json:"documentNamespace"`
	Packages          []json.RawMessage `json:"packages"`
	Files             []element         `json:"files"`
	Snippets          []element         `json:"snippets"`
	Relationships     []relationship    `json:"relationships"`
}

type element struct {
	SPDXID string `json:"SPDXID"`
}

type spdxPackage struct {
	SPDXID                  string            `json:"SPDXID"`
	Name                    string            `json:"name"`
	VersionInfo             string            `json:"versionInfo,omitempty"`
	Checksums               []checksum        `json:"checksums,omitempty"`
	PackageVerificationCode *verificationCode `json:"packageVerificationCode,omitempty"`
	ExternalRefs            []externalRef     `json:"externalRefs,omitempty"`
	Annotations             []annotation      `json:"annotations,omitempty"`
}

type checksum struct {
	Algorithm     string `json:"algorithm"`
	ChecksumValue string `json:"checksumValue"`
}

type verificationCode struct {
	Value         string   `json:"packageVerificationCodeValue"`
	ExcludedFiles []string `json:"packageVerificationCodeExcludedFiles,omitempty"`
}

type externalRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

type relationship struct {
	SpdxElementID      string `json:"spdxElementId"`
	RelationshipType   string `json:"relationshipType"`
	RelatedSpdxElement string `json:"relatedSpdxElement"`
	Comment            string `json:"comment,omitempty"`
}

type annotation struct {
	Annotator      string `json:"annotator"`
	AnnotationDate string `json:"annotationDate"`
	AnnotationType string `json:"annotationType"`
	Comment        string `json:"comment"`
}

type creationInfo struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

// raw is what the decoder keeps for the encoder.
type raw struct {
	rootID   string
	top      map[string]json.RawMessage
	packages map[string]map[string]json.RawMessage
	// foreign are relationships touching files, snippets or special elements.
	foreign []relationship
}
