// Package matcher decides which packages of two SBOM documents describe the
// same content.
package matcher

import (
	"slices"

	"go.trai.ch/ancestry/internal/core/domain"
)

// dependencyToolMarkers are the exact annotation comments dependency-resolution
// tools leave on the packages they report.
var dependencyToolMarkers = []string{
	`{"name": "cachi2:found_by", "value": "cachi2"}`,
	`{"name": "hermeto:found_by", "value": "hermeto"}`,
	`{"name":"cachi2:found_by","value":"cachi2"}`,
	`{"name":"hermeto:found_by","value":"hermeto"}`,
}

// IsDependencyToolGenerated reports whether any tool annotation carries a
// dependency-tool marker.
func IsDependencyToolGenerated(annotations []domain.Annotation) bool {
	for _, a := range annotations {
		if a.IsTool() && slices.Contains(dependencyToolMarkers, a.Comment) {
			return true
		}
	}
	return false
}

// ProducerOf classifies a package by the annotations attached to it.
func ProducerOf(annotations []domain.Annotation) domain.Producer {
	if IsDependencyToolGenerated(annotations) {
		return domain.ProducerDependencyTool
	}
	return domain.ProducerGenericScanner
}
