package matcher

import (
	"strings"

	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/ancestry/internal/engine/docindex"
)

const checksumKeySeparator = ","

// Candidate is a component package together with the edge that owns it.
type Candidate struct {
	Context *docindex.PackageContext
	Edge    docindex.EdgeRef
}

// IdentifierIndex indexes component packages by their identifiers for one matching pass.
type IdentifierIndex struct {
	byChecksum         map[string][]Candidate
	byVerificationCode map[string][]Candidate
	byPurl             map[string][]Candidate
	stats              ports.StatsSink
}

// NewIdentifierIndex indexes candidates by checksum set, verification code and versioned purl.
// A candidate with none of the three is reported to stats and left out.
func NewIdentifierIndex(candidates []Candidate, stats ports.StatsSink) *IdentifierIndex {
	ix := &IdentifierIndex{
		byChecksum:         make(map[string][]Candidate),
		byVerificationCode: make(map[string][]Candidate),
		byPurl:             make(map[string][]Candidate),
		stats:              stats,
	}

	for _, c := range candidates {
		pkg := c.Context.Package()
		indexed := false

		if key, ok := checksumKey(&pkg); ok {
			ix.byChecksum[key] = append(ix.byChecksum[key], c)
			indexed = true
		}
		if pkg.VerificationCode != "" {
			ix.byVerificationCode[pkg.VerificationCode] = append(ix.byVerificationCode[pkg.VerificationCode], c)
			indexed = true
		}
		if key, ok := purlKey(&pkg); ok {
			ix.byPurl[key] = append(ix.byPurl[key], c)
			indexed = true
		}

		if !indexed {
			ix.stats.RecordNoIdentifier(domain.SideComponent, pkg.ID)
		}
	}

	return ix
}

// FindCandidates returns the component packages that may match parent.
// The lookup cascades: checksum, then verification code, then purl. The
// first tier the parent has an identifier for answers, even with an empty
// result.
func (ix *IdentifierIndex) FindCandidates(parent *domain.Package) []Candidate {
	if key, ok := checksumKey(parent); ok {
		return ix.byChecksum[key]
	}
	if parent.VerificationCode != "" {
		return ix.byVerificationCode[parent.VerificationCode]
	}
	if key, ok := purlKey(parent); ok {
		return ix.byPurl[key]
	}
	ix.stats.RecordNoIdentifier(domain.SideParent, parent.ID)
	return nil
}

func checksumKey(pkg *domain.Package) (string, bool) {
	set := pkg.ChecksumSet()
	if len(set) == 0 {
		return "", false
	}
	return strings.Join(set, checksumKeySeparator), true
}

func purlKey(pkg *domain.Package) (string, bool) {
	p, ok := domain.ParseVersionedPurl(pkg.Purl())
	if !ok {
		return "", false
	}
	return domain.PurlKey(p), true
}
