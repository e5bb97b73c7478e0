package matcher

import (
	"slices"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/engine/docindex"
)

// Match compares a parent package with a component package.
//
// Packages reported by the dependency tool are only comparable by purl.
// For everything else the first identifier both sides carry decides:
// checksum sets, then verification codes, then versioned purls.
func Match(parent, component *docindex.PackageContext) domain.MatchResult {
	result := domain.MatchResult{
		Tier:              domain.MatchByNone,
		ParentProducer:    ProducerOf(parent.Annotations()),
		ComponentProducer: ProducerOf(component.Annotations()),
	}

	p := parent.Package()
	c := component.Package()

	if result.ParentProducer == domain.ProducerDependencyTool {
		result.Tier = domain.MatchByPurl
		result.Matched = domain.SamePurl(p.Purl(), c.Purl())
		return result
	}

	switch {
	case len(p.Checksums) > 0 && len(c.Checksums) > 0:
		result.Tier = domain.MatchByChecksum
		result.Matched = slices.Equal(p.ChecksumSet(), c.ChecksumSet())
	case p.VerificationCode != "" && c.VerificationCode != "":
		result.Tier = domain.MatchByVerificationCode
		result.Matched = p.VerificationCode == c.VerificationCode
	default:
		result.Tier = domain.MatchByPurl
		result.Matched = domain.SamePurl(p.Purl(), c.Purl())
	}
	return result
}
