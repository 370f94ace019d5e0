package domain

import "regexp"

// shaPattern matches a full lowercase commit hash.
var shaPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsValidSha reports whether s is a 40-character lowercase hex commit hash.
func IsValidSha(s string) bool { return shaPattern.MatchString(s) }

// Release is an immutable (version, sha, series) triple. Releases belong to
// exactly one component and are created through Component.CreateRelease or
// NewRelease followed by AddRelease.
type Release struct {
	Version string
	Sha     string
	Series  string

	key VersionKey
}

// NewRelease validates the version identifier, commit hash, and series label
// and returns the parsed release.
func NewRelease(version, sha, series string) (Release, error) {
	parsed, err := ParseVersion(version)
	if err != nil {
		return Release{}, err
	}
	if !IsValidSha(sha) {
		return Release{}, &FormatError{
			Kind:  "sha",
			Value: sha,
			Cause: "expected 40 lowercase hex characters",
		}
	}
	if series == "" {
		return Release{}, &FormatError{
			Kind:  "series",
			Value: series,
			Cause: "series name must not be empty",
		}
	}
	return Release{
		Version: version,
		Sha:     sha,
		Series:  series,
		key:     parsed.Key,
	}, nil
}

// Key returns the release's version sort key.
func (r Release) Key() VersionKey { return r.key }

// Less orders releases ascending by version key.
func (r Release) Less(other Release) bool { return r.key.Less(other.key) }

// Doc renders the release's document form for the owning component.
func (r Release) Doc(c *Component) ReleaseDoc {
	return ReleaseDoc{
		Name:      c.Name,
		RepoURL:   c.RepoURL,
		IsProduct: c.IsProduct,
		Release: ReleaseEntry{
			Series:  r.Series,
			Version: r.Version,
			Sha:     r.Sha,
		},
	}
}
