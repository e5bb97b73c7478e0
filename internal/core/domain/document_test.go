package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ancestry/internal/core/domain"
)

func TestPackage_ChecksumSet(t *testing.T) {
	pkg := domain.Package{
		Checksums: []domain.Checksum{
			{Algorithm: "SHA256", Value: "bbb"},
			{Algorithm: "SHA1", Value: "aaa"},
			{Algorithm: "SHA256", Value: "bbb"},
		},
	}

	assert.Equal(t, []string{"SHA1:aaa", "SHA256:bbb"}, pkg.ChecksumSet())
}

func TestPackage_Purl(t *testing.T) {
	pkg := domain.Package{
		ExternalRefs: []domain.ExternalRef{
			{Category: "SECURITY", Type: "cpe23Type", Locator: "cpe:2.3:a:x:y:1"},
			{Category: "PACKAGE-MANAGER", Type: domain.PurlRefType, Locator: "pkg:npm/x@1"},
		},
	}
	assert.Equal(t, "pkg:npm/x@1", pkg.Purl())

	var empty domain.Package
	assert.Empty(t, empty.Purl())
}

func TestPackage_IsImage(t *testing.T) {
	image := domain.Package{ID: "SPDXRef-image-base"}
	plain := domain.Package{ID: "SPDXRef-Package-openssl"}

	assert.True(t, image.IsImage())
	assert.False(t, plain.IsImage())
}

func TestAnnotation_IsTool(t *testing.T) {
	assert.True(t, domain.Annotation{Annotator: "Tool: syft"}.IsTool())
	assert.False(t, domain.Annotation{Annotator: "Person: alice"}.IsTool())
}
