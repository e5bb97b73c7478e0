package domain

// MatchTier names the identifier that decided a package match.
type MatchTier string

const (
	// MatchByNone means no shared identifier was available.
	MatchByNone MatchTier = "none"
	// MatchByChecksum means the checksum sets decided the match.
	MatchByChecksum MatchTier = "checksum"
	// MatchByVerificationCode means the verification codes decided the match.
	MatchByVerificationCode MatchTier = "verification_code"
	// MatchByPurl means the versioned purls decided the match.
	MatchByPurl MatchTier = "purl"
)

// Producer classifies which generation strategy created a package entry.
type Producer string

const (
	// ProducerDependencyTool marks packages reported by a dependency-resolution tool.
	ProducerDependencyTool Producer = "dependency_tool"
	// ProducerGenericScanner marks packages reported by a generic content scanner.
	ProducerGenericScanner Producer = "generic_scanner"
)

// MatchResult is the outcome of comparing a parent package with a component package.
type MatchResult struct {
	Matched           bool
	Tier              MatchTier
	ParentProducer    Producer
	ComponentProducer Producer
}

// Anomalous reports whether the producer pair should never have matched.
// Content synthesized by the dependency tool is never expected to reappear
// as pre-existing content in a component image.
func (r MatchResult) Anomalous() bool {
	return r.Matched && r.ComponentProducer == ProducerDependencyTool
}

// Side names which document of a matching pass an observation belongs to.
type Side string

const (
	// SideParent is the parent image document.
	SideParent Side = "parent"
	// SideComponent is the component image document.
	SideComponent Side = "component"
)

// SkipReason explains why a provenance item was not attributed.
type SkipReason string

const (
	// SkipNotFound means no package carries the item's purl.
	SkipNotFound SkipReason = "not_found"
	// SkipAmbiguous means several packages carry the purl and no dependency hint was given.
	SkipAmbiguous SkipReason = "ambiguous"
	// SkipUnresolved means the dependency hint matched none of the candidates.
	SkipUnresolved SkipReason = "unresolved"
)
