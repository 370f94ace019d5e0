package domain

// ComponentDoc is the canonical document form of a component, used for
// storage, CLI output, and structural diffing. The same shape also carries
// partial diffs, so every field is optional when rendered.
type ComponentDoc struct {
	Name      string      `yaml:"name,omitempty"`
	RepoURL   string      `yaml:"repo_url,omitempty"`
	IsProduct *bool       `yaml:"is_product,omitempty"`
	Releases  []SeriesDoc `yaml:"releases,omitempty"`
}

// SeriesDoc groups the versions of one release series. The series label is
// omitted in diff documents when both sides agree on it.
type SeriesDoc struct {
	Series   string       `yaml:"series,omitempty"`
	Versions []VersionDoc `yaml:"versions"`
}

// VersionDoc is a single version entry within a series.
type VersionDoc struct {
	Version string `yaml:"version"`
	Sha     string `yaml:"sha"`
}

// IsEmpty reports whether the document carries no fields, i.e. an empty diff.
func (d ComponentDoc) IsEmpty() bool {
	return d.Name == "" && d.RepoURL == "" && d.IsProduct == nil && len(d.Releases) == 0
}

// ReleaseDoc is the document form of a single release: the owning
// component's scalar fields plus the release triple.
type ReleaseDoc struct {
	Name      string       `yaml:"name"`
	RepoURL   string       `yaml:"repo_url"`
	IsProduct bool         `yaml:"is_product"`
	Release   ReleaseEntry `yaml:"release"`
}

// ReleaseEntry is the (series, version, sha) triple of one release.
type ReleaseEntry struct {
	Series  string `yaml:"series"`
	Version string `yaml:"version"`
	Sha     string `yaml:"sha"`
}

/// DependencyDecl is one dependency entry of a component's metadata document:
// a component name plus the constraint expressions limiting it.
type DependencyDecl struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints"`
}

// Artifact describes a build artifact entry of the metadata document.
type Artifact struct {
	Type        string `yaml:"type"` // "file" or "log"
	Source      string `yaml:"source"`
	Dest        string `yaml:"dest,omitempty"`
	ExpireAfter int    `yaml:"expire_after,omitempty"`
}

// MetadataDoc is the component_metadata.yml document.
type MetadataDoc struct {
	Dependencies []DependencyDecl `yaml:"dependencies"`
	Artifacts    []Artifact       `yaml:"artifacts,omitempty"`
}

// Requirement is a fully resolved, pinned reference to a dependency commit.
// Version is nil when the dependency is pinned to a branch.
type Requirement struct {
	Name    string  `yaml:"name"`
	Ref     string  `yaml:"ref"`
	RefType string  `yaml:"ref_type"` // "tag" or "branch"
	RepoURL string  `yaml:"repo_url"`
	Sha     string  `yaml:"sha"`
	Version *string `yaml:"version"`
}

// RequirementsDoc is the machine-generated component_requirements.yml
// document.
type RequirementsDoc struct {
	Dependencies []Requirement `yaml:"dependencies"`
}
