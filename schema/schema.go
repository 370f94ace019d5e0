// Package schema validates registry document shapes. Each document shape has
// its own validator; a validator inspects the whole document and returns a
// *domain.ValidationError listing every violated field, not just the first.
package schema

import (
	"fmt"

	"github.com/rios0rios0/releaseforge/domain"
)

// violations accumulates field complaints during a validation pass.
type violations []string

func (v *violations) addf(format string, args ...any) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

func (v violations) err(subject string) error {
	if len(v) == 0 {
		return nil
	}
	return &domain.ValidationError{Subject: subject, Violations: v}
}

// ValidateComponent checks the full component document: identity fields,
// series uniqueness, per-series ascending version order, and global version
// id uniqueness.
func ValidateComponent(doc domain.ComponentDoc) error {
	var v violations
	checkComponent(&v, "", doc)
	return v.err("component document")
}

func checkComponent(v *violations, prefix string, doc domain.ComponentDoc) {
	if doc.Name == "" {
		v.addf("%sname: must not be empty", prefix)
	}
	if !domain.IsValidRepoURL(doc.RepoURL) {
		v.addf("%srepo_url: %q does not match https://github.com/...", prefix, doc.RepoURL)
	}
	if doc.IsProduct == nil {
		v.addf("%sis_product: missing", prefix)
	}
	checkReleases(v, prefix, doc.Releases, true)
}

// checkReleases validates series groups. With requireSeries unset the series
// label may be elided, which is only legal inside diff documents.
func checkReleases(v *violations, prefix string, releases []domain.SeriesDoc, requireSeries bool) {
	seen := map[string]bool{}
	versionsSeen := map[string]bool{}
	for i, series := range releases {
		at := fmt.Sprintf("%sreleases[%d]", prefix, i)
		if series.Series == "" && requireSeries {
			v.addf("%s.series: must not be empty", at)
		}
		if series.Series != "" {
			if seen[series.Series] {
				v.addf("%s.series: duplicate series %q", at, series.Series)
			}
			seen[series.Series] = true
		}

		var prev *domain.VersionKey
		for j, entry := range series.Versions {
			vAt := fmt.Sprintf("%s.versions[%d]", at, j)
			parsed, err := domain.ParseVersion(entry.Version)
			if err != nil {
				v.addf("%s.version: %q is not a valid version id", vAt, entry.Version)
				continue
			}
			if !domain.IsValidSha(entry.Sha) {
				v.addf("%s.sha: %q is not a 40-character lowercase hex hash", vAt, entry.Sha)
			}
			if versionsSeen[entry.Version] {
				v.addf("%s.version: duplicate version id %q", vAt, entry.Version)
			}
			versionsSeen[entry.Version] = true
			if prev != nil && !prev.Less(parsed.Key) {
				v.addf("%s.version: %q is not in ascending order", vAt, entry.Version)
			}
			key := parsed.Key
			prev = &key
		}
	}
}

// ValidateMetadata checks the component_metadata.yml document: unique
// dependency names with parseable constraint lists, and well-formed artifact
// entries.
func ValidateMetadata(doc domain.MetadataDoc) error {
	var v violations

	seen := map[string]bool{}
	for i, dependency := range doc.Dependencies {
		at := fmt.Sprintf("dependencies[%d]", i)
		if dependency.Name == "" {
			v.addf("%s.name: must not be empty", at)
		}
		if seen[dependency.Name] {
			v.addf("%s.name: duplicate dependency %q", at, dependency.Name)
		}
		seen[dependency.Name] = true
		if _, err := domain.ParseConstraints(dependency.Constraints); err != nil {
			v.addf("%s.constraints: %v", at, err)
		}
	}

	for i, artifact := range doc.Artifacts {
		at := fmt.Sprintf("artifacts[%d]", i)
		switch artifact.Type {
		case "file":
			if artifact.ExpireAfter < 0 {
				v.addf("%s.expire_after: must be positive", at)
			}
		case "log":
			if artifact.Dest != "" {
				v.addf("%s.dest: not allowed for log artifacts", at)
			}
			if artifact.ExpireAfter != 0 {
				v.addf("%s.expire_after: not allowed for log artifacts", at)
			}
		default:
			v.addf("%s.type: %q is not one of file, log", at, artifact.Type)
		}
		if artifact.Source == "" {
			v.addf("%s.source: must not be empty", at)
		}
	}

	return v.err("component metadata document")
}

// ValidateRequirements checks the component_requirements.yml document.
func ValidateRequirements(doc domain.RequirementsDoc) error {
	var v violations

	seen := map[string]bool{}
	for i, requirement := range doc.Dependencies {
		at := fmt.Sprintf("dependencies[%d]", i)
		if requirement.Name == "" {
			v.addf("%s.name: must not be empty", at)
		}
		if seen[requirement.Name] {
			v.addf("%s.name: duplicate requirement %q", at, requirement.Name)
		}
		seen[requirement.Name] = true

		switch requirement.RefType {
		case "tag", "branch":
		default:
			v.addf("%s.ref_type: %q is not one of tag, branch", at, requirement.RefType)
		}
		if requirement.Ref == "" {
			v.addf("%s.ref: must not be empty", at)
		}
		if !domain.IsValidRepoURL(requirement.RepoURL) {
			v.addf("%s.repo_url: %q does not match https://github.com/...", at, requirement.RepoURL)
		}
		if !domain.IsValidSha(requirement.Sha) {
			v.addf("%s.sha: %q is not a 40-character lowercase hex hash", at, requirement.Sha)
		}
		switch {
		case requirement.RefType == "branch" && requirement.Version != nil:
			v.addf("%s.version: must be null for branch requirements", at)
		case requirement.RefType == "tag" && requirement.Version == nil:
			v.addf("%s.version: missing for tag requirement", at)
		case requirement.Version != nil:
			if _, err := domain.ParseVersion(*requirement.Version); err != nil {
				v.addf("%s.version: %q is not a valid version id", at, *requirement.Version)
			}
		}
	}

	return v.err("component requirements document")
}
