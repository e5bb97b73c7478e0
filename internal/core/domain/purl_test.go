package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ancestry/internal/core/domain"
)

func TestSamePurl(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "identical",
			a:    "pkg:rpm/redhat/openssl@3.0.7",
			b:    "pkg:rpm/redhat/openssl@3.0.7",
			want: true,
		},
		{
			name: "qualifiers ignored",
			a:    "pkg:rpm/redhat/openssl@3.0.7?arch=x86_64",
			b:    "pkg:rpm/redhat/openssl@3.0.7?arch=aarch64&distro=rhel-9",
			want: true,
		},
		{
			name: "version differs",
			a:    "pkg:rpm/redhat/openssl@3.0.7",
			b:    "pkg:rpm/redhat/openssl@3.0.8",
			want: false,
		},
		{
			name: "name differs",
			a:    "pkg:npm/left-pad@1.0.0",
			b:    "pkg:npm/right-pad@1.0.0",
			want: false,
		},
		{
			name: "missing version",
			a:    "pkg:npm/left-pad",
			b:    "pkg:npm/left-pad",
			want: false,
		},
		{
			name: "unparseable",
			a:    "not a purl",
			b:    "not a purl",
			want: false,
		},
		{
			name: "empty",
			a:    "",
			b:    "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.SamePurl(tt.a, tt.b))
		})
	}
}

func TestImagePullspec(t *testing.T) {
	tests := []struct {
		name   string
		purl   string
		want   string
		wantOK bool
	}{
		{
			name:   "repository qualifier",
			purl:   "pkg:oci/builder@sha256:abc?repository_url=quay.io/org/builder",
			want:   "quay.io/org/builder@sha256:abc",
			wantOK: true,
		},
		{
			name:   "no repository qualifier",
			purl:   "pkg:oci/builder@sha256:abc",
			wantOK: false,
		},
		{
			name:   "no version",
			purl:   "pkg:oci/builder?repository_url=quay.io/org/builder",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ImagePullspec(tt.purl)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
