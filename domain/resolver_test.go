package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseforge/domain"
)

func resolverComponent(t *testing.T) *domain.Component {
	t.Helper()
	return newComponent(t, "test1",
		"0.0.1",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"1.1.1",
		"2.0.0-alpha.1",
		"2.0.0-beta.1",
		"2.0.0-beta.2",
		"2.0.0-rc.1",
		"2.0.0-rc.2",
		"2.0.0",
		"10.0.0",
	)
}

func TestResolveVersion(t *testing.T) {
	t.Parallel()

	t.Run("should pick the newest version meeting all constraints", func(t *testing.T) {
		t.Parallel()

		// given
		component := resolverComponent(t)
		cases := []struct {
			constraints []string
			expected    string
		}{
			{nil, "10.0.0"},
			{[]string{"version<10.0.0"}, "2.0.0"},
			{[]string{"version<2"}, "1.1.1"},
			{[]string{"version<1.1"}, "1.0.1"},
			{[]string{"version<=1.1"}, "1.1.1"},
			{[]string{"version<2.0.0-beta.1"}, "2.0.0-alpha.1"},
			{[]string{"version<2.0.0-rc.2"}, "2.0.0-rc.1"},
			{[]string{"version>=1.0.0", "version<1.1"}, "1.0.1"},
		}

		for _, tc := range cases {
			// when
			set, err := domain.ParseConstraints(tc.constraints)
			require.NoError(t, err)
			release, err := domain.ResolveVersion(component, set)

			// then
			require.NoError(t, err, "constraints %v", tc.constraints)
			assert.Equal(t, tc.expected, release.Version, "constraints %v", tc.constraints)
		}
	})

	t.Run("should fail when no release satisfies the constraint set", func(t *testing.T) {
		t.Parallel()

		// given
		component := resolverComponent(t)
		set, err := domain.ParseConstraints([]string{"version>10.0.0"})
		require.NoError(t, err)

		// when
		_, err = domain.ResolveVersion(component, set)

		// then
		var noMatch *domain.NoMatchError
		require.ErrorAs(t, err, &noMatch)
		assert.Equal(t, "test1", noMatch.Component)
		assert.Equal(t, []string{"version>10.0.0"}, noMatch.Constraints)
	})

	t.Run("should fail on a component without releases", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "empty")

		// when
		_, err := domain.ResolveVersion(component, domain.ConstraintSet{})

		// then
		var noMatch *domain.NoMatchError
		require.ErrorAs(t, err, &noMatch)
	})
}

func TestRequirements(t *testing.T) {
	t.Parallel()

	t.Run("should pin a tag requirement to the resolved release", func(t *testing.T) {
		t.Parallel()

		// given
		component := resolverComponent(t)
		release, err := component.GetRelease("2.0.0", false)
		require.NoError(t, err)

		// when
		requirement := domain.TagRequirement(component, release)

		// then
		assert.Equal(t, "test1", requirement.Name)
		assert.Equal(t, "2.0.0", requirement.Ref)
		assert.Equal(t, "tag", requirement.RefType)
		assert.Equal(t, component.RepoURL, requirement.RepoURL)
		assert.Equal(t, release.Sha, requirement.Sha)
		require.NotNil(t, requirement.Version)
		assert.Equal(t, "2.0.0", *requirement.Version)
	})

	t.Run("should pin a branch requirement without a version", func(t *testing.T) {
		t.Parallel()

		// given
		component := resolverComponent(t)

		// when
		requirement := domain.BranchRequirement(component, "master", sha(99))

		// then
		assert.Equal(t, "master", requirement.Ref)
		assert.Equal(t, "branch", requirement.RefType)
		assert.Equal(t, sha(99), requirement.Sha)
		assert.Nil(t, requirement.Version)
	})
}

func TestGitHTTPToSSH(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite https remotes to ssh form", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"https://github.com/rcbops/test1":          "git@github.com:rcbops/test1.git",
			"https://github.com/rcbops/test-repo.git":  "git@github.com:rcbops/test-repo.git",
			"http://github.com/my-org/some_component": "git@github.com:my-org/some_component.git",
		}

		for input, expected := range cases {
			// when
			got, err := domain.GitHTTPToSSH(input)

			// then
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		}
	})

	t.Run("should reject non-github remotes", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := domain.GitHTTPToSSH("https://gitlab.com/rcbops/test1")

		// then
		var formatErr *domain.FormatError
		require.ErrorAs(t, err, &formatErr)
	})
}
