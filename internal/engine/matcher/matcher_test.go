package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports/mocks"
	"go.trai.ch/ancestry/internal/engine/docindex"
	"go.trai.ch/ancestry/internal/engine/matcher"
	"go.uber.org/mock/gomock"
)

const hermetoComment = `{"name": "hermeto:found_by", "value": "hermeto"}`

func sha(values ...string) []domain.Checksum {
	out := make([]domain.Checksum, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Checksum{Algorithm: "SHA256", Value: v})
	}
	return out
}

func purl(p string) []domain.ExternalRef {
	return []domain.ExternalRef{{Category: "PACKAGE-MANAGER", Type: domain.PurlRefType, Locator: p}}
}

// pair indexes two single-package documents and returns their contexts.
func pair(t *testing.T, parent, component domain.Package, parentAnns, componentAnns []domain.Annotation) (*docindex.PackageContext, *docindex.PackageContext) {
	t.Helper()
	for i := range parentAnns {
		parentAnns[i].Target = parent.ID
	}
	for i := range componentAnns {
		componentAnns[i].Target = component.ID
	}
	p := docindex.New(&domain.Document{Packages: []domain.Package{parent}, Annotations: parentAnns})
	c := docindex.New(&domain.Document{Packages: []domain.Package{component}, Annotations: componentAnns})

	pc, err := p.ByID(parent.ID)
	require.NoError(t, err)
	cc, err := c.ByID(component.ID)
	require.NoError(t, err)
	return pc, cc
}

func TestMatch(t *testing.T) {
	hermeto := []domain.Annotation{{Comment: hermetoComment, Annotator: "Tool: hermeto"}}

	tests := []struct {
		name          string
		parent        domain.Package
		component     domain.Package
		parentAnns    []domain.Annotation
		componentAnns []domain.Annotation
		wantMatched   bool
		wantTier      domain.MatchTier
		wantAnomalous bool
	}{
		{
			name:        "checksum sets equal in any order",
			parent:      domain.Package{ID: "p", Checksums: sha("a", "b")},
			component:   domain.Package{ID: "c", Checksums: sha("b", "a")},
			wantMatched: true,
			wantTier:    domain.MatchByChecksum,
		},
		{
			name:        "checksum subset is not a match",
			parent:      domain.Package{ID: "p", Checksums: sha("a")},
			component:   domain.Package{ID: "c", Checksums: sha("a", "b")},
			wantMatched: false,
			wantTier:    domain.MatchByChecksum,
		},
		{
			name:        "checksums decide over agreeing purls",
			parent:      domain.Package{ID: "p", Checksums: sha("a"), ExternalRefs: purl("pkg:npm/x@1")},
			component:   domain.Package{ID: "c", Checksums: sha("z"), ExternalRefs: purl("pkg:npm/x@1")},
			wantMatched: false,
			wantTier:    domain.MatchByChecksum,
		},
		{
			name:        "verification code when checksums are one-sided",
			parent:      domain.Package{ID: "p", Checksums: sha("a"), VerificationCode: "vc1"},
			component:   domain.Package{ID: "c", VerificationCode: "vc1"},
			wantMatched: true,
			wantTier:    domain.MatchByVerificationCode,
		},
		{
			name:        "purl fallback ignores qualifiers",
			parent:      domain.Package{ID: "p", ExternalRefs: purl("pkg:rpm/redhat/bash@5.1?arch=x86_64")},
			component:   domain.Package{ID: "c", ExternalRefs: purl("pkg:rpm/redhat/bash@5.1")},
			wantMatched: true,
			wantTier:    domain.MatchByPurl,
		},
		{
			name:        "unversioned purls never match",
			parent:      domain.Package{ID: "p", ExternalRefs: purl("pkg:rpm/redhat/bash")},
			component:   domain.Package{ID: "c", ExternalRefs: purl("pkg:rpm/redhat/bash")},
			wantMatched: false,
			wantTier:    domain.MatchByPurl,
		},
		{
			name:        "dependency tool parent compares purls only",
			parent:      domain.Package{ID: "p", Checksums: sha("a"), ExternalRefs: purl("pkg:golang/x@1")},
			component:   domain.Package{ID: "c", Checksums: sha("z"), ExternalRefs: purl("pkg:golang/x@1")},
			parentAnns:  hermeto,
			wantMatched: true,
			wantTier:    domain.MatchByPurl,
		},
		{
			name:          "dependency tool component is anomalous",
			parent:        domain.Package{ID: "p", Checksums: sha("a")},
			component:     domain.Package{ID: "c", Checksums: sha("a")},
			componentAnns: []domain.Annotation{{Comment: `{"name":"cachi2:found_by","value":"cachi2"}`, Annotator: "Tool: cachi2"}},
			wantMatched:   true,
			wantTier:      domain.MatchByChecksum,
			wantAnomalous: true,
		},
		{
			name:          "dependency tool on both sides is anomalous",
			parent:        domain.Package{ID: "p", ExternalRefs: purl("pkg:golang/x@1")},
			component:     domain.Package{ID: "c", ExternalRefs: purl("pkg:golang/x@1?type=module")},
			parentAnns:    hermeto,
			componentAnns: hermeto,
			wantMatched:   true,
			wantTier:      domain.MatchByPurl,
			wantAnomalous: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c := pair(t, tt.parent, tt.component, clone(tt.parentAnns), clone(tt.componentAnns))
			got := matcher.Match(p, c)
			assert.Equal(t, tt.wantMatched, got.Matched)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantAnomalous, got.Anomalous())
		})
	}
}

func clone(anns []domain.Annotation) []domain.Annotation {
	return append([]domain.Annotation(nil), anns...)
}

func TestProducerOf(t *testing.T) {
	tests := []struct {
		name string
		anns []domain.Annotation
		want domain.Producer
	}{
		{
			name: "none",
			want: domain.ProducerGenericScanner,
		},
		{
			name: "hermeto",
			anns: []domain.Annotation{{Comment: hermetoComment, Annotator: "Tool: hermeto"}},
			want: domain.ProducerDependencyTool,
		},
		{
			name: "marker from a person",
			anns: []domain.Annotation{{Comment: hermetoComment, Annotator: "Person: alice"}},
			want: domain.ProducerGenericScanner,
		},
		{
			name: "near miss",
			anns: []domain.Annotation{{Comment: `{"name": "hermeto:found_by", "value": "syft"}`, Annotator: "Tool: x"}},
			want: domain.ProducerGenericScanner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.ProducerOf(tt.anns))
		})
	}
}

func TestIdentifierIndex_FindCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)

	doc := &domain.Document{
		Packages: []domain.Package{
			{ID: "root"},
			{ID: "by-sum", Checksums: sha("a")},
			{ID: "by-code", VerificationCode: "vc"},
			{ID: "by-purl", ExternalRefs: purl("pkg:npm/x@1?foo=bar")},
			{ID: "bare"},
		},
	}
	for _, id := range []string{"by-sum", "by-code", "by-purl", "bare"} {
		doc.Relationships = append(doc.Relationships, domain.Relationship{Source: "root", Kind: domain.RelationshipContains, Target: id})
	}
	ix := docindex.New(doc)
	root, err := ix.ByID("root")
	require.NoError(t, err)

	var candidates []matcher.Candidate
	for _, ref := range root.EdgesOfKind(domain.RelationshipContains) {
		ctx, _ := ix.Lookup(ix.Relationship(ref).Target)
		candidates = append(candidates, matcher.Candidate{Context: ctx, Edge: ref})
	}

	stats.EXPECT().RecordNoIdentifier(domain.SideComponent, "bare")
	idx := matcher.NewIdentifierIndex(candidates, stats)

	got := idx.FindCandidates(&domain.Package{ID: "p1", Checksums: sha("a")})
	require.Len(t, got, 1)
	assert.Equal(t, "by-sum", got[0].Context.ID())

	// The checksum tier answers even when it has no hit.
	got = idx.FindCandidates(&domain.Package{ID: "p2", Checksums: sha("q"), ExternalRefs: purl("pkg:npm/x@1")})
	assert.Empty(t, got)

	got = idx.FindCandidates(&domain.Package{ID: "p3", VerificationCode: "vc"})
	require.Len(t, got, 1)
	assert.Equal(t, "by-code", got[0].Context.ID())

	got = idx.FindCandidates(&domain.Package{ID: "p4", ExternalRefs: purl("pkg:npm/x@1")})
	require.Len(t, got, 1)
	assert.Equal(t, "by-purl", got[0].Context.ID())

	stats.EXPECT().RecordNoIdentifier(domain.SideParent, "p5")
	assert.Nil(t, idx.FindCandidates(&domain.Package{ID: "p5"}))
}

func TestIdentifierIndex_ChecksumOutranksVerificationCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)

	doc := &domain.Document{
		Packages: []domain.Package{
			{ID: "root"},
			{ID: "by-sum", Checksums: sha("a")},
			{ID: "by-code", VerificationCode: "vc"},
		},
		Relationships: []domain.Relationship{
			{Source: "root", Kind: domain.RelationshipContains, Target: "by-sum"},
			{Source: "root", Kind: domain.RelationshipContains, Target: "by-code"},
		},
	}
	ix := docindex.New(doc)
	root, err := ix.ByID("root")
	require.NoError(t, err)

	var candidates []matcher.Candidate
	for _, ref := range root.EdgesOfKind(domain.RelationshipContains) {
		ctx, _ := ix.Lookup(ix.Relationship(ref).Target)
		candidates = append(candidates, matcher.Candidate{Context: ctx, Edge: ref})
	}
	idx := matcher.NewIdentifierIndex(candidates, stats)

	got := idx.FindCandidates(&domain.Package{ID: "p", Checksums: sha("a"), VerificationCode: "vc"})
	require.Len(t, got, 1)
	assert.Equal(t, "by-sum", got[0].Context.ID())
}
