package origins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports/mocks"
	"go.trai.ch/ancestry/internal/engine/docindex"
	"go.trai.ch/ancestry/internal/engine/marker"
	"go.trai.ch/ancestry/internal/engine/origins"
	"go.uber.org/mock/gomock"
)

const (
	appRoot      = "SPDXRef-image-app"
	builderImage = "SPDXRef-image-a"
	builderSpec  = "quay.io/org/a@sha256:aa"
	mergoPurl    = "pkg:golang/mergo@v1.0.1"
	mathPurl     = "pkg:golang/math@v1.0.0"
)

func ref(purl string) []domain.ExternalRef {
	return []domain.ExternalRef{{Category: "PACKAGE-MANAGER", Type: domain.PurlRefType, Locator: purl}}
}

func rel(source string, kind domain.RelationshipKind, target string) domain.Relationship {
	return domain.Relationship{Source: source, Kind: kind, Target: target}
}

// scenarioDocument is a component built with one builder stage. The builder
// is marked unless unmarked is set.
func scenarioDocument(unmarked bool) *domain.Document {
	doc := &domain.Document{
		Packages: []domain.Package{
			{ID: appRoot, Name: "app"},
			{ID: builderImage, Name: "a", ExternalRefs: ref("pkg:oci/a@sha256:aa?repository_url=quay.io/org/a")},
			{ID: "SPDXRef-mergo", Name: "mergo", ExternalRefs: ref(mergoPurl)},
			{ID: "SPDXRef-tool1", Name: "tool1", ExternalRefs: ref("pkg:golang/tool1@v1")},
			{ID: "SPDXRef-tool2", Name: "tool2", ExternalRefs: ref("pkg:golang/tool2@v2")},
			{ID: "SPDXRef-math-1", Name: "math", ExternalRefs: ref(mathPurl)},
			{ID: "SPDXRef-math-2", Name: "math", ExternalRefs: ref(mathPurl)},
		},
		Relationships: []domain.Relationship{
			rel(domain.DocumentRootID, domain.RelationshipDescribes, appRoot),
			rel(builderImage, domain.RelationshipBuildToolOf, appRoot),
			rel(appRoot, domain.RelationshipContains, "SPDXRef-mergo"),
			rel(appRoot, domain.RelationshipContains, "SPDXRef-tool1"),
			rel(appRoot, domain.RelationshipContains, "SPDXRef-tool2"),
			rel(appRoot, domain.RelationshipContains, "SPDXRef-math-1"),
			rel(appRoot, domain.RelationshipContains, "SPDXRef-math-2"),
			rel("SPDXRef-math-1", domain.RelationshipDependencyOf, "SPDXRef-tool1"),
			rel("SPDXRef-math-2", domain.RelationshipDependencyOf, "SPDXRef-tool2"),
		},
	}
	if !unmarked {
		doc.Annotations = append(doc.Annotations, marker.Builder(0).Annotation(builderImage))
	}
	return doc
}

func ownerOf(t *testing.T, ix *docindex.Index, id string) string {
	t.Helper()
	refs := ix.IncomingEdges(id, domain.RelationshipContains)
	require.Len(t, refs, 1, id)
	return ix.Relationship(refs[0]).Source
}

func TestGenerateAndResolve_Builder(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)
	ix := docindex.New(scenarioDocument(false))

	items := []domain.ProvenanceItem{
		{Purl: mergoPurl, OriginType: domain.OriginBuilder, Pullspec: builderSpec},
	}
	assignments, err := origins.GenerateOrigins(ix, items, stats)
	require.NoError(t, err)
	require.Equal(t, []domain.OriginAssignment{
		{PackageID: "SPDXRef-mergo", Origin: domain.Origin{Pullspec: builderSpec, Kind: domain.OriginBuilder}},
	}, assignments)

	stats.EXPECT().RecordOrigin(domain.OriginBuilder)
	require.NoError(t, origins.ResolveOrigins(ix, assignments, stats))
	assert.Equal(t, builderImage, ownerOf(t, ix, "SPDXRef-mergo"))
}

func TestGenerateOrigins_DependencyDisambiguation(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)
	ix := docindex.New(scenarioDocument(false))

	items := []domain.ProvenanceItem{
		{Purl: mathPurl, DependencyOfPurl: "pkg:golang/tool2@v2", OriginType: domain.OriginBuilder, Pullspec: builderSpec},
		{Purl: mathPurl, DependencyOfPurl: "pkg:golang/tool1@v1?goos=linux", OriginType: domain.OriginIntermediate, Pullspec: builderSpec},
	}
	assignments, err := origins.GenerateOrigins(ix, items, stats)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "SPDXRef-math-2", assignments[0].PackageID)
	assert.Equal(t, domain.OriginBuilder, assignments[0].Origin.Kind)
	assert.Equal(t, "SPDXRef-math-1", assignments[1].PackageID)
	assert.Equal(t, domain.OriginIntermediate, assignments[1].Origin.Kind)
}

func TestGenerateOrigins_Skips(t *testing.T) {
	tests := []struct {
		name   string
		item   domain.ProvenanceItem
		reason domain.SkipReason
	}{
		{
			name:   "purl absent from document",
			item:   domain.ProvenanceItem{Purl: "pkg:golang/absent@v9", OriginType: domain.OriginBuilder, Pullspec: builderSpec},
			reason: domain.SkipNotFound,
		},
		{
			name:   "shared purl without hint",
			item:   domain.ProvenanceItem{Purl: mathPurl, OriginType: domain.OriginBuilder, Pullspec: builderSpec},
			reason: domain.SkipAmbiguous,
		},
		{
			name: "hint matches no candidate",
			item: domain.ProvenanceItem{
				Purl: mathPurl, DependencyOfPurl: "pkg:golang/tool3@v3",
				OriginType: domain.OriginBuilder, Pullspec: builderSpec,
			},
			reason: domain.SkipUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stats := mocks.NewMockStatsSink(ctrl)
			stats.EXPECT().RecordSkippedItem(tt.reason, tt.item.Purl)

			assignments, err := origins.GenerateOrigins(docindex.New(scenarioDocument(false)), []domain.ProvenanceItem{tt.item}, stats)
			require.NoError(t, err)
			assert.Empty(t, assignments)
		})
	}
}

func TestGenerateOrigins_DanglingDependencyTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)

	doc := scenarioDocument(false)
	doc.Relationships[len(doc.Relationships)-2].Target = "SPDXRef-ghost"
	ix := docindex.New(doc)

	_, err := origins.GenerateOrigins(ix, []domain.ProvenanceItem{
		{Purl: mathPurl, DependencyOfPurl: "pkg:golang/tool2@v2", OriginType: domain.OriginBuilder, Pullspec: builderSpec},
	}, stats)
	require.ErrorIs(t, err, domain.ErrRelationshipTargetNotFound)
	assert.True(t, domain.IsStructural(err))
}

func TestResolveOrigins_Intermediate(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockStatsSink(ctrl)
	stats.EXPECT().RecordOrigin(domain.OriginIntermediate).Times(2)
	ix := docindex.New(scenarioDocument(false))

	intermediate := domain.Origin{Pullspec: builderSpec, Kind: domain.OriginIntermediate}
	err := origins.ResolveOrigins(ix, []domain.OriginAssignment{
		{PackageID: "SPDXRef-tool1", Origin: intermediate},
		{PackageID: "SPDXRef-tool2", Origin: intermediate},
	}, stats)
	require.NoError(t, err)

	want := builderImage + docindex.IntermediateSuffix
	assert.Equal(t, want, ownerOf(t, ix, "SPDXRef-tool1"))
	assert.Equal(t, want, ownerOf(t, ix, "SPDXRef-tool2"))

	count := 0
	for _, p := range ix.Document().Packages {
		if p.ID == want {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolveOrigins_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       func() *domain.Document
		packageID string
		origin    domain.Origin
		wantErr   error
	}{
		{
			name:      "intermediate from unmarked builder",
			doc:       func() *domain.Document { return scenarioDocument(true) },
			packageID: "SPDXRef-mergo",
			origin:    domain.Origin{Pullspec: builderSpec, Kind: domain.OriginIntermediate},
			wantErr:   domain.ErrMissingBuilderAnnotation,
		},
		{
			name:      "builder origin from unmarked image",
			doc:       func() *domain.Document { return scenarioDocument(true) },
			packageID: "SPDXRef-mergo",
			origin:    domain.Origin{Pullspec: builderSpec, Kind: domain.OriginBuilder},
			wantErr:   domain.ErrImageNotFound,
		},
		{
			name:      "unknown pullspec",
			doc:       func() *domain.Document { return scenarioDocument(false) },
			packageID: "SPDXRef-mergo",
			origin:    domain.Origin{Pullspec: "quay.io/org/other@sha256:ff", Kind: domain.OriginBuilder},
			wantErr:   domain.ErrImageNotFound,
		},
		{
			name: "no image contains the package",
			doc: func() *domain.Document {
				doc := scenarioDocument(false)
				doc.Packages = append(doc.Packages, domain.Package{ID: "SPDXRef-loose"})
				doc.Relationships = append(doc.Relationships, rel("SPDXRef-tool1", domain.RelationshipContains, "SPDXRef-loose"))
				return doc
			},
			packageID: "SPDXRef-loose",
			origin:    domain.Origin{Pullspec: builderSpec, Kind: domain.OriginBuilder},
			wantErr:   domain.ErrMissingContainsRelationship,
		},
		{
			name: "two images contain the package",
			doc: func() *domain.Document {
				doc := scenarioDocument(false)
				doc.Relationships = append(doc.Relationships, rel(builderImage, domain.RelationshipContains, "SPDXRef-mergo"))
				return doc
			},
			packageID: "SPDXRef-mergo",
			origin:    domain.Origin{Pullspec: builderSpec, Kind: domain.OriginBuilder},
			wantErr:   domain.ErrAmbiguousContainsRelationship,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			stats := mocks.NewMockStatsSink(ctrl)
			ix := docindex.New(tt.doc())

			err := origins.ResolveOrigins(ix, []domain.OriginAssignment{{PackageID: tt.packageID, Origin: tt.origin}}, stats)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsStructural(err))
		})
	}
}
