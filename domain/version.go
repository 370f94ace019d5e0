package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Channel ranks order pre-release channels below the final release of the
// same major.minor.patch.
const (
	channelAlpha   = 0
	channelBeta    = 1
	channelRC      = 2
	channelRelease = 3
)

const keyFields = 5

var channelRanks = map[string]int{
	"alpha": channelAlpha,
	"beta":  channelBeta,
	"rc":    channelRC,
}

var channelNames = map[int]string{
	channelAlpha: "alpha",
	channelBeta:  "beta",
	channelRC:    "rc",
}

// versionPattern matches full version identifiers such as 1.2.3,
// r2.0.0-rc.1, or 10.0.0-beta.2. The optional leading "r" is preserved in
// the identifier's string form but carries no ordering weight.
var versionPattern = regexp.MustCompile(
	`^r?(?P<major>[0-9]+)\.(?P<minor>[0-9]+)\.(?P<patch>[0-9]+)` +
		`(?:-(?P<channel>alpha|beta|rc)\.(?P<channelversion>[0-9]+))?$`,
)

// constraintVersionPattern additionally allows partial identifiers used in
// constraint expressions: "2", "1.1", "2.0.0-beta.1".
var constraintVersionPattern = regexp.MustCompile(
	`^r?(?P<major>[0-9]+)` +
		`(?:\.(?P<minor>[0-9]+)` +
		`(?:\.(?P<patch>[0-9]+)` +
		`(?:-(?P<channel>alpha|beta|rc)\.(?P<channelversion>[0-9]+))?)?)?$`,
)

// VersionKey is the 5-field sort key of a version identifier:
// (major, minor, patch, channel rank, channel version). Lexicographic
// comparison of keys is the canonical total order.
type VersionKey [keyFields]int

// Compare returns -1, 0, or 1 as k orders before, equal to, or after other.
func (k VersionKey) Compare(other VersionKey) int {
	for i := range keyFields {
		switch {
		case k[i] < other[i]:
			return -1
		case k[i] > other[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether k orders strictly before other.
func (k VersionKey) Less(other VersionKey) bool { return k.Compare(other) < 0 }

// Version is a parsed version identifier. The raw string form is the
// identity: two versions are equal iff their strings are equal.
type Version struct {
	Raw string
	Key VersionKey
}

func (v Version) String() string { return v.Raw }

// Canonical re-renders the identifier from its parsed fields, preserving the
// optional "r" prefix. For any valid input this round-trips byte-for-byte.
func (v Version) Canonical() string {
	var sb strings.Builder
	if strings.HasPrefix(v.Raw, "r") {
		sb.WriteString("r")
	}
	fmt.Fprintf(&sb, "%d.%d.%d", v.Key[0], v.Key[1], v.Key[2])
	if v.Key[3] != channelRelease {
		fmt.Fprintf(&sb, "-%s.%d", channelNames[v.Key[3]], v.Key[4])
	}
	return sb.String()
}

// ParseVersion parses a full version identifier. All of major, minor, and
// patch must be present.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &FormatError{Kind: "version", Value: s}
	}
	key, _ := buildKey(versionPattern, m)
	return Version{Raw: s, Key: key}, nil
}

// ConstraintKey is a version key truncated to its significant fields. A
// partial identifier omitting minor or patch yields a shorter key; candidate
// keys are truncated to the same length before comparison.
type ConstraintKey struct {
	Key VersionKey
	Len int
}

// ParseConstraintVersion parses the possibly-partial version part of a
// constraint expression.
func ParseConstraintVersion(s string) (ConstraintKey, error) {
	m := constraintVersionPattern.FindStringSubmatch(s)
	if m == nil {
		return ConstraintKey{}, &FormatError{Kind: "constraint version", Value: s}
	}
	key, length := buildKey(constraintVersionPattern, m)
	return ConstraintKey{Key: key, Len: length}, nil
}

// buildKey assembles the sort key from a pattern match and returns it along
// with the number of significant fields. Once patch is present the channel
// fields always count as significant (a plain release carries the implicit
// channel key (release, 0)).
func buildKey(pattern *regexp.Regexp, match []string) (VersionKey, int) {
	group := func(name string) string {
		return match[pattern.SubexpIndex(name)]
	}

	var key VersionKey
	key[0] = mustAtoi(group("major"))
	length := 1

	if minor := group("minor"); minor != "" {
		key[1] = mustAtoi(minor)
		length = 2
	}
	if patch := group("patch"); patch != "" {
		key[2] = mustAtoi(patch)
		length = keyFields
	}

	key[3] = channelRelease
	if channel := group("channel"); channel != "" {
		key[3] = channelRanks[channel]
		key[4] = mustAtoi(group("channelversion"))
	}

	return key, length
}

// mustAtoi converts a digits-only regexp capture; the pattern guarantees it
// parses.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("non-numeric capture %q: %v", s, err))
	}
	return n
}
