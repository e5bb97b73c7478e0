package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Format identifies the serialization of an SBOM.
type Format string

const (
	// FormatSPDX is SPDX 2.3 JSON.
	FormatSPDX Format = "spdx"
	// FormatCycloneDX is CycloneDX JSON.
	FormatCycloneDX Format = "cyclonedx"
)

// ParseFormat parses a format name. An empty name yields fallback.
func ParseFormat(name string, fallback Format) (Format, error) {
	switch strings.ToLower(name) {
	case "":
		return fallback, nil
	case string(FormatSPDX):
		return FormatSPDX, nil
	case string(FormatCycloneDX):
		return FormatCycloneDX, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedFormat, "unknown format"), "format", name)
	}
}
