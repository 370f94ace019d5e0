package schema

import (
	"fmt"

	"github.com/rios0rios0/releaseforge/domain"
)

// ValidateAddedRelease checks that a registry comparison represents exactly
// one new release: a single component whose deleted side is empty and whose
// added side is exactly one series group holding exactly one version entry.
// It returns the component name and version entry on success.
func ValidateAddedRelease(comparison domain.ComparisonMap) (string, domain.VersionDoc, error) {
	var v violations

	name, entry := singleEntry(&v, comparison)
	if len(v) > 0 {
		return "", domain.VersionDoc{}, v.err("registry comparison")
	}

	added := entry.Added
	if added.Name != "" || added.RepoURL != "" || added.IsProduct != nil {
		v.addf("%s.added: only the releases field may change", name)
	}
	if len(added.Releases) != 1 {
		v.addf("%s.added.releases: expected exactly one series, found %d", name, len(added.Releases))
		return "", domain.VersionDoc{}, v.err("registry comparison")
	}

	series := added.Releases[0]
	if len(series.Versions) != 1 {
		v.addf(
			"%s.added.releases[0].versions: expected exactly one version, found %d",
			name, len(series.Versions),
		)
		return "", domain.VersionDoc{}, v.err("registry comparison")
	}

	version := series.Versions[0]
	if _, err := domain.ParseVersion(version.Version); err != nil {
		v.addf("%s.added: %q is not a valid version id", name, version.Version)
	}
	if !domain.IsValidSha(version.Sha) {
		v.addf("%s.added: %q is not a 40-character lowercase hex hash", name, version.Sha)
	}
	if err := v.err("registry comparison"); err != nil {
		return "", domain.VersionDoc{}, err
	}

	return name, version, nil
}

// ValidateAddedComponent checks that a registry comparison represents the
// registration of exactly one new component: a single name whose deleted
// side is empty and whose added side is a complete, valid component
// document. It returns the component name on success.
func ValidateAddedComponent(comparison domain.ComparisonMap) (string, error) {
	var v violations

	name, entry := singleEntry(&v, comparison)
	if len(v) > 0 {
		return "", v.err("registry comparison")
	}

	checkComponent(&v, fmt.Sprintf("%s.added.", name), entry.Added)

	if err := v.err("registry comparison"); err != nil {
		return "", err
	}
	return name, nil
}

// singleEntry enforces the shared shape of both verification modes: exactly
// one component key with an empty deleted side.
func singleEntry(v *violations, comparison domain.ComparisonMap) (string, domain.Comparison) {
	if len(comparison) != 1 {
		v.addf("expected exactly one changed component, found %d", len(comparison))
		return "", domain.Comparison{}
	}

	var name string
	var entry domain.Comparison
	for k, e := range comparison {
		name, entry = k, e
	}

	if name == "" {
		v.addf("component name must not be empty")
	}
	if !entry.Deleted.IsEmpty() {
		v.addf("%s.deleted: must be empty", name)
	}
	return name, entry
}
