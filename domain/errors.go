package domain

import (
	"fmt"
	"strings"
)

// FormatError reports a malformed version, constraint, sha, or URL string.
// Format errors fail fast and are never retried.
type FormatError struct {
	Kind  string // what was being parsed, e.g. "version", "constraint"
	Value string
	Cause string
}

func (e *FormatError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

// DuplicateVersionError reports an attempt to add a release whose version id
// already exists on the component.
type DuplicateVersionError struct {
	Version string
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("release with version %s already exists", e.Version)
}

// ComponentExistsError reports an attempt to register a component name that
// is already taken.
type ComponentExistsError struct {
	Name string
}

func (e *ComponentExistsError) Error() string {
	return fmt.Sprintf("component %q already exists", e.Name)
}

// NotFoundError reports a lookup miss for a component or release.
type NotFoundError struct {
	Kind string // "component" or "release"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q could not be found", e.Kind, e.Name)
}

// NoPredecessorError reports a predecessor lookup on the first release.
type NoPredecessorError struct {
	Version string
}

func (e *NoPredecessorError) Error() string {
	return fmt.Sprintf("release with version %s does not have a predecessor", e.Version)
}

// NoMatchError reports that no release satisfies a constraint set.
type NoMatchError struct {
	Component   string
	Constraints []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf(
		"component %q has no version matching the constraints %v",
		e.Component, e.Constraints,
	)
}

// UnresolvedDependencyError aggregates the resolution failures of a
// requirements run. The whole batch fails; no partial requirements file is
// ever written.
type UnresolvedDependencyError struct {
	Failures []DependencyFailure
}

// DependencyFailure describes one dependency that could not be resolved.
type DependencyFailure struct {
	Name        string
	Constraints []string
	Err         error
}

func (e *UnresolvedDependencyError) Error() string {
	lines := make([]string, 0, len(e.Failures)+1)
	lines = append(lines, "unresolved dependencies:")
	for _, f := range e.Failures {
		lines = append(lines, fmt.Sprintf(
			"  %s (constraints %v): %v", f.Name, f.Constraints, f.Err,
		))
	}
	return strings.Join(lines, "\n")
}

// ValidationError reports a document or diff shape violation. It carries
// every violated field, not just the first, plus the rendered diff when the
// validation concerns a registry comparison.
type ValidationError struct {
	Subject    string   // what was validated, e.g. "component document"
	Violations []string // one entry per violated field
	Diff       string   // rendered YAML diff, empty outside compare mode
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf(
		"%s is invalid:\n  %s",
		e.Subject, strings.Join(e.Violations, "\n  "),
	)
	if e.Diff != "" {
		msg += "\nchanges found:\n" + e.Diff
	}
	return msg
}

// RepositoryAccessError reports a clone, fetch, or checkout failure from the
// repository-access collaborator. It is surfaced verbatim and never retried.
type RepositoryAccessError struct {
	Op  string
	URL string
	Err error
}

func (e *RepositoryAccessError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("repository %s failed for %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("repository %s failed: %v", e.Op, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }
