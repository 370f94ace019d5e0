package domain

import (
	"reflect"
	"regexp"
	"sort"
)

// repoURLPattern matches the only remote form accepted for component
// repositories.
var repoURLPattern = regexp.MustCompile(`^https://github\.com/.+`)

// IsValidRepoURL reports whether s is an accepted component repository URL.
func IsValidRepoURL(s string) bool { return repoURLPattern.MatchString(s) }

// Component is a tracked source repository: a name, a repository URL, a
// product flag, and an ordered release history grouped into series.
//
// A component loaded from storage retains its as-loaded document snapshot;
// IsChanged compares the current state against it so unchanged components
// are never rewritten or committed.
type Component struct {
	Name      string
	RepoURL   string
	IsProduct bool
	Releases  []Release
	Directory string

	origDoc  *ComponentDoc
	origName string
}

// NewComponent validates identity fields and returns an empty component.
func NewComponent(name, repoURL string, isProduct bool) (*Component, error) {
	if name == "" {
		return nil, &FormatError{
			Kind:  "component name",
			Value: name,
			Cause: "name must not be empty",
		}
	}
	if !IsValidRepoURL(repoURL) {
		return nil, &FormatError{
			Kind:  "repo_url",
			Value: repoURL,
			Cause: "expected https://github.com/...",
		}
	}
	return &Component{Name: name, RepoURL: repoURL, IsProduct: isProduct}, nil
}

// CreateRelease validates a new release triple and adds it to the component.
func (c *Component) CreateRelease(version, sha, series string) (Release, error) {
	release, err := NewRelease(version, sha, series)
	if err != nil {
		return Release{}, err
	}
	if err := c.AddRelease(release); err != nil {
		return Release{}, err
	}
	return release, nil
}

// AddRelease appends a release and re-sorts the history ascending by version
// key. Version identifiers are unique across all series of the component.
func (c *Component) AddRelease(release Release) error {
	for _, existing := range c.Releases {
		if existing.Version == release.Version {
			return &DuplicateVersionError{Version: release.Version}
		}
	}
	c.Releases = append(c.Releases, release)
	sort.SliceStable(c.Releases, func(i, j int) bool {
		return c.Releases[i].Less(c.Releases[j])
	})
	return nil
}

// GetRelease looks up a release by exact version string. With predecessor
// set it instead returns the release immediately preceding the match in
// ascending order.
func (c *Component) GetRelease(version string, predecessor bool) (Release, error) {
	for i, release := range c.Releases {
		if release.Version != version {
			continue
		}
		if !predecessor {
			return release, nil
		}
		if i == 0 {
			return Release{}, &NoPredecessorError{Version: version}
		}
		return c.Releases[i-1], nil
	}
	return Release{}, &NotFoundError{Kind: "release", Name: version}
}

// Doc renders the canonical document form. Releases collapse into
// {series, versions} groups ordered by the series' first appearance among
// the ascending-sorted releases; versions within a series stay ascending.
func (c *Component) Doc() ComponentDoc {
	var groups []SeriesDoc
	index := map[string]int{}
	for _, release := range c.Releases {
		i, ok := index[release.Series]
		if !ok {
			i = len(groups)
			index[release.Series] = i
			groups = append(groups, SeriesDoc{Series: release.Series})
		}
		groups[i].Versions = append(groups[i].Versions, VersionDoc{
			Version: release.Version,
			Sha:     release.Sha,
		})
	}

	isProduct := c.IsProduct
	return ComponentDoc{
		Name:      c.Name,
		RepoURL:   c.RepoURL,
		IsProduct: &isProduct,
		Releases:  groups,
	}
}

// MarkLoaded captures the current state as the as-loaded snapshot.
func (c *Component) MarkLoaded() {
	doc := c.Doc()
	c.origDoc = &doc
	c.origName = c.Name
}

// IsChanged reports whether the component differs from its as-loaded
// snapshot. A freshly constructed component is always changed.
func (c *Component) IsChanged() bool {
	if c.origDoc == nil {
		return true
	}
	current := c.Doc()
	return !reflect.DeepEqual(current, *c.origDoc)
}

// OriginalName returns the component's name at load time, or "" for a fresh
// component. A differing current name means the backing file must be moved.
func (c *Component) OriginalName() string { return c.origName }

// Difference returns what is present in this component's document but absent
// from other's: differing scalar fields contribute this component's value,
// and the release history is compared per series by version-entry
// membership. The result is empty when the documents agree. The operation is
// asymmetric; a symmetric added/deleted view needs both directions.
func (c *Component) Difference(other *Component) ComponentDoc {
	return DiffDocs(c.Doc(), other.Doc())
}

// DiffDocs computes the asymmetric structural difference of two component
// documents: everything in a that is not in b.
func DiffDocs(a, b ComponentDoc) ComponentDoc {
	var diff ComponentDoc

	if a.Name != b.Name {
		diff.Name = a.Name
	}
	if a.RepoURL != b.RepoURL {
		diff.RepoURL = a.RepoURL
	}
	if !equalBoolPtr(a.IsProduct, b.IsProduct) {
		diff.IsProduct = a.IsProduct
	}
	diff.Releases = diffReleases(a.Releases, b.Releases)

	return diff
}

// diffReleases pairs series groups by label. A series missing from b
// contributes its whole group; a series present on both sides contributes
// the version entries of a that b's matching series lacks, with the agreed
// series label elided.
func diffReleases(a, b []SeriesDoc) []SeriesDoc {
	other := map[string]SeriesDoc{}
	for _, series := range b {
		other[series.Series] = series
	}

	var diff []SeriesDoc
	for _, series := range a {
		counterpart, ok := other[series.Series]
		if !ok {
			diff = append(diff, series)
			continue
		}

		var missing []VersionDoc
		for _, version := range series.Versions {
			if !containsVersion(counterpart.Versions, version) {
				missing = append(missing, version)
			}
		}
		if len(missing) > 0 {
			diff = append(diff, SeriesDoc{Versions: missing})
		}
	}
	return diff
}

func containsVersion(versions []VersionDoc, v VersionDoc) bool {
	for _, candidate := range versions {
		if candidate == v {
			return true
		}
	}
	return false
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
