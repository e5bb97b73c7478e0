package domain

import (
	"github.com/package-url/packageurl-go"
)

// RepositoryURLQualifier is the purl qualifier naming an image's repository.
const RepositoryURLQualifier = "repository_url"

// ParseVersionedPurl parses a package URL and reports whether it is usable for matching.
// A purl is usable only when it parses and carries a version.
func ParseVersionedPurl(s string) (packageurl.PackageURL, bool) {
	if s == "" {
		return packageurl.PackageURL{}, false
	}
	p, err := packageurl.FromString(s)
	if err != nil || p.Version == "" {
		return packageurl.PackageURL{}, false
	}
	return p, true
}

// PurlKey returns the qualifier-free "type/namespace/name@version" key of a purl.
func PurlKey(p packageurl.PackageURL) string {
	return p.Type + "/" + p.Namespace + "/" + p.Name + "@" + p.Version
}

// SamePurl reports whether two purls validate and agree on type, namespace, name and version.
// Qualifiers and subpaths are ignored.
func SamePurl(a, b string) bool {
	pa, ok := ParseVersionedPurl(a)
	if !ok {
		return false
	}
	pb, ok := ParseVersionedPurl(b)
	if !ok {
		return false
	}
	return PurlKey(pa) == PurlKey(pb)
}

// ImagePullspec returns the "repository_url@version" pullspec of an image purl.
func ImagePullspec(purl string) (string, bool) {
	p, ok := ParseVersionedPurl(purl)
	if !ok {
		return "", false
	}
	repo, ok := p.Qualifiers.Map()[RepositoryURLQualifier]
	if !ok || repo == "" {
		return "", false
	}
	return repo + "@" + p.Version, true
}
