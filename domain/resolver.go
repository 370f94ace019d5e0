package domain

// ResolveVersion scans a component's releases from highest to lowest version
// and returns the first one satisfying every constraint in the set, i.e. the
// newest version meeting all constraints. An empty constraint set selects
// the newest release unconditionally.
func ResolveVersion(component *Component, set ConstraintSet) (Release, error) {
	for i := len(component.Releases) - 1; i >= 0; i-- {
		release := component.Releases[i]
		if set.MatchesAll(release.Key()) {
			return release, nil
		}
	}
	return Release{}, &NoMatchError{
		Component:   component.Name,
		Constraints: set.Raw(),
	}
}

// TagRequirement pins a dependency to a released version.
func TagRequirement(component *Component, release Release) Requirement {
	version := release.Version
	return Requirement{
		Name:    component.Name,
		Ref:     release.Version,
		RefType: "tag",
		RepoURL: component.RepoURL,
		Sha:     release.Sha,
		Version: &version,
	}
}

// BranchRequirement pins a dependency to the current tip of a branch. The
// tip sha must already be resolved through the repository-access
// collaborator; branch pins carry no version.
func BranchRequirement(component *Component, branch, sha string) Requirement {
	return Requirement{
		Name:    component.Name,
		Ref:     branch,
		RefType: "branch",
		RepoURL: component.RepoURL,
		Sha:     sha,
		Version: nil,
	}
}
