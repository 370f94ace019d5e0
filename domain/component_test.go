package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseforge/domain"
)

func sha(n int) string { return fmt.Sprintf("%040x", n) }

func newComponent(t *testing.T, name string, versions ...string) *domain.Component {
	t.Helper()
	component, err := domain.NewComponent(name, "https://github.com/rcbops/"+name, false)
	require.NoError(t, err)
	for i, version := range versions {
		_, err := component.CreateRelease(version, sha(i), "first")
		require.NoError(t, err)
	}
	return component
}

func TestNewComponent(t *testing.T) {
	t.Parallel()

	t.Run("should reject an empty name", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := domain.NewComponent("", "https://github.com/rcbops/test", false)

		// then
		var formatErr *domain.FormatError
		require.ErrorAs(t, err, &formatErr)
	})

	t.Run("should reject repository URLs outside github.com", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{
			"",
			"http://github.com/rcbops/test",
			"https://gitlab.com/rcbops/test",
			"git@github.com:rcbops/test.git",
		} {
			// when
			_, err := domain.NewComponent("test", url, false)

			// then
			var formatErr *domain.FormatError
			require.ErrorAs(t, err, &formatErr, "url %q", url)
		}
	})
}

func TestAddRelease(t *testing.T) {
	t.Parallel()

	t.Run("should keep releases sorted ascending by version key", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1")

		// when: added out of order
		for _, version := range []string{"1.1.0", "0.0.1", "10.0.0", "2.0.0-rc.1", "2.0.0"} {
			_, err := component.CreateRelease(version, sha(42), "first")
			require.NoError(t, err)
		}

		// then
		var got []string
		for _, release := range component.Releases {
			got = append(got, release.Version)
		}
		assert.Equal(t, []string{"0.0.1", "1.1.0", "2.0.0-rc.1", "2.0.0", "10.0.0"}, got)
	})

	t.Run("should fail on a duplicate version id across series", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0")

		// when
		_, err := component.CreateRelease("1.0.0", sha(9), "second")

		// then
		var dupErr *domain.DuplicateVersionError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "1.0.0", dupErr.Version)
	})

	t.Run("should reject an invalid sha", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1")

		// when
		_, err := component.CreateRelease("1.0.0", "not-a-sha", "first")

		// then
		var formatErr *domain.FormatError
		require.ErrorAs(t, err, &formatErr)
	})
}

func TestGetRelease(t *testing.T) {
	t.Parallel()

	t.Run("should return an exact version match", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0", "1.1.0")

		// when
		release, err := component.GetRelease("1.1.0", false)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.1.0", release.Version)
	})

	t.Run("should fail when the version does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0")

		// when
		_, err := component.GetRelease("9.9.9", false)

		// then
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("should return the predecessor in ascending order", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0", "1.1.0")

		// when
		release, err := component.GetRelease("1.1.0", true)

		// then
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", release.Version)
	})

	t.Run("should fail when the first release has no predecessor", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0", "1.1.0")

		// when
		_, err := component.GetRelease("1.0.0", true)

		// then
		var noPred *domain.NoPredecessorError
		require.ErrorAs(t, err, &noPred)
	})
}

func TestComponentDoc(t *testing.T) {
	t.Parallel()

	t.Run("should group series in order of first appearance", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1")
		_, err := component.CreateRelease("2.0.0", sha(3), "second")
		require.NoError(t, err)
		_, err = component.CreateRelease("1.0.0", sha(1), "first")
		require.NoError(t, err)
		_, err = component.CreateRelease("1.1.0", sha(2), "first")
		require.NoError(t, err)

		// when
		doc := component.Doc()

		// then: "first" owns the lowest versions, so it appears first
		require.Len(t, doc.Releases, 2)
		assert.Equal(t, "first", doc.Releases[0].Series)
		assert.Equal(t, []domain.VersionDoc{
			{Version: "1.0.0", Sha: sha(1)},
			{Version: "1.1.0", Sha: sha(2)},
		}, doc.Releases[0].Versions)
		assert.Equal(t, "second", doc.Releases[1].Series)
	})
}

func TestDifference(t *testing.T) {
	t.Parallel()

	t.Run("should report version entries missing from the other side", func(t *testing.T) {
		t.Parallel()

		// given
		a := newComponent(t, "test1", "1.0.0")
		b := newComponent(t, "test1", "1.0.0", "1.1.0")

		// when
		added := b.Difference(a)
		removed := a.Difference(b)

		// then
		require.Len(t, added.Releases, 1)
		assert.Empty(t, added.Releases[0].Series)
		assert.Equal(t, []domain.VersionDoc{{Version: "1.1.0", Sha: sha(1)}}, added.Releases[0].Versions)
		assert.Empty(t, added.Name)
		assert.Nil(t, added.IsProduct)
		assert.True(t, removed.IsEmpty())
	})

	t.Run("should report a whole series missing from the other side", func(t *testing.T) {
		t.Parallel()

		// given
		a := newComponent(t, "test1", "1.0.0")
		b := newComponent(t, "test1", "1.0.0")
		_, err := b.CreateRelease("2.0.0", sha(7), "second")
		require.NoError(t, err)

		// when
		diff := b.Difference(a)

		// then
		require.Len(t, diff.Releases, 1)
		assert.Equal(t, "second", diff.Releases[0].Series)
		assert.Equal(t, []domain.VersionDoc{{Version: "2.0.0", Sha: sha(7)}}, diff.Releases[0].Versions)
	})

	t.Run("should report differing scalar fields with this side's value", func(t *testing.T) {
		t.Parallel()

		// given
		a := newComponent(t, "test1")
		b := newComponent(t, "test1")
		b.RepoURL = "https://github.com/rcbops/other"
		b.IsProduct = true

		// when
		diff := b.Difference(a)

		// then
		assert.Empty(t, diff.Name)
		assert.Equal(t, "https://github.com/rcbops/other", diff.RepoURL)
		require.NotNil(t, diff.IsProduct)
		assert.True(t, *diff.IsProduct)
	})

	t.Run("should be empty for identical components", func(t *testing.T) {
		t.Parallel()

		// given
		a := newComponent(t, "test1", "1.0.0", "1.1.0")
		b := newComponent(t, "test1", "1.0.0", "1.1.0")

		// then
		assert.True(t, a.Difference(b).IsEmpty())
		assert.True(t, b.Difference(a).IsEmpty())
	})
}

func TestDirtyTracking(t *testing.T) {
	t.Parallel()

	t.Run("should report a fresh component as changed", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0")

		// then
		assert.True(t, component.IsChanged())
	})

	t.Run("should report no change after marking loaded", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0")

		// when
		component.MarkLoaded()

		// then
		assert.False(t, component.IsChanged())
	})

	t.Run("should detect a release addition", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1", "1.0.0")
		component.MarkLoaded()

		// when
		_, err := component.CreateRelease("1.1.0", sha(5), "first")
		require.NoError(t, err)

		// then
		assert.True(t, component.IsChanged())
	})

	t.Run("should detect a rename and keep the original name", func(t *testing.T) {
		t.Parallel()

		// given
		component := newComponent(t, "test1")
		component.MarkLoaded()

		// when
		component.Name = "test2"

		// then
		assert.True(t, component.IsChanged())
		assert.Equal(t, "test1", component.OriginalName())
	})
}
