package domain

import (
	"regexp"
)

// ConstraintOp is a comparison operator in a version constraint expression.
type ConstraintOp string

const (
	OpEQ ConstraintOp = "=="
	OpNE ConstraintOp = "!="
	OpGE ConstraintOp = ">="
	OpLE ConstraintOp = "<="
	OpGT ConstraintOp = ">"
	OpLT ConstraintOp = "<"
)

var versionConstraintPattern = regexp.MustCompile(
	`^version(?P<op>(?:=|!)=|(?:<|>)=?)(?P<version>.+)$`,
)

var branchConstraintPattern = regexp.MustCompile(`^branch==(?P<name>.+)$`)

// VersionConstraint restricts acceptable versions with a single comparison
// against a possibly-partial version key.
type VersionConstraint struct {
	Op  ConstraintOp
	Key ConstraintKey
	Raw string
}

// Matches reports whether a candidate version key satisfies the constraint.
// The candidate is truncated to the constraint key's significant length
// before comparing, so "version<2" admits every 1.x.y including pre-releases.
func (c VersionConstraint) Matches(candidate VersionKey) bool {
	cmp := truncatedCompare(candidate, c.Key.Key, c.Len())
	switch c.Op {
	case OpEQ:
		return cmp == 0
	case OpNE:
		return cmp != 0
	case OpGE:
		return cmp >= 0
	case OpLE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpLT:
		return cmp < 0
	default:
		return false
	}
}

// Len returns the number of significant fields of the constraint key.
func (c VersionConstraint) Len() int { return c.Key.Len }

func truncatedCompare(candidate, bound VersionKey, length int) int {
	for i := range length {
		switch {
		case candidate[i] < bound[i]:
			return -1
		case candidate[i] > bound[i]:
			return 1
		}
	}
	return 0
}

// BranchConstraint pins a dependency to the moving tip of a branch instead
// of a released version.
type BranchConstraint struct {
	Name string
}

// ConstraintSet is the parsed form of a dependency's constraint list. The
// two shapes are mutually exclusive: either zero or more version constraints
// combined with AND semantics, or exactly one branch pin.
type ConstraintSet struct {
	Versions []VersionConstraint
	Branch   *BranchConstraint

	raw []string
}

// Raw returns the original constraint expressions.
func (s ConstraintSet) Raw() []string { return s.raw }

// IsBranch reports whether the set is a branch pin.
func (s ConstraintSet) IsBranch() bool { return s.Branch != nil }

// MatchesAll reports whether a candidate key satisfies every version
// constraint in the set. An empty set matches everything.
func (s ConstraintSet) MatchesAll(candidate VersionKey) bool {
	for _, c := range s.Versions {
		if !c.Matches(candidate) {
			return false
		}
	}
	return true
}

// ParseConstraints decides the shape of a constraint list once, at parse
// time. Mixing branch and version expressions, or listing more than one
// branch pin, is a format error.
func ParseConstraints(constraints []string) (ConstraintSet, error) {
	set := ConstraintSet{raw: constraints}

	for _, raw := range constraints {
		if m := branchConstraintPattern.FindStringSubmatch(raw); m != nil {
			if set.Branch != nil {
				return ConstraintSet{}, &FormatError{
					Kind:  "constraint list",
					Value: raw,
					Cause: "only one branch constraint is allowed",
				}
			}
			set.Branch = &BranchConstraint{
				Name: m[branchConstraintPattern.SubexpIndex("name")],
			}
			continue
		}

		m := versionConstraintPattern.FindStringSubmatch(raw)
		if m == nil {
			return ConstraintSet{}, &FormatError{Kind: "constraint", Value: raw}
		}

		key, err := ParseConstraintVersion(
			m[versionConstraintPattern.SubexpIndex("version")],
		)
		if err != nil {
			return ConstraintSet{}, &FormatError{Kind: "constraint", Value: raw}
		}

		set.Versions = append(set.Versions, VersionConstraint{
			Op:  ConstraintOp(m[versionConstraintPattern.SubexpIndex("op")]),
			Key: key,
			Raw: raw,
		})
	}

	if set.Branch != nil && len(set.Versions) > 0 {
		return ConstraintSet{}, &FormatError{
			Kind:  "constraint list",
			Value: "",
			Cause: "branch and version constraints cannot be mixed",
		}
	}

	return set, nil
}
