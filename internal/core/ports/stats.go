package ports

import "go.trai.ch/ancestry/internal/core/domain"

// StatsSink receives observations from the resolution engine.
// It is a side-effect sink; the engine never reads from it.
//
//go:generate go run go.uber.org/mock/mockgen -source=stats.go -destination=mocks/mock_stats.go -package=mocks
type StatsSink interface {
	// RecordMatch records the outcome of one parent/component comparison.
	RecordMatch(result domain.MatchResult)

	// RecordNoIdentifier records a package that carries no checksum, verification code or versioned purl.
	RecordNoIdentifier(side domain.Side, packageID string)

	// RecordSkippedItem records a provenance item that was not attributed.
	RecordSkippedItem(reason domain.SkipReason, purl string)

	// RecordOrigin records an origin assignment that was applied.
	RecordOrigin(kind domain.OriginKind)
}
