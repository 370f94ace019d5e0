package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/schema"
)

func releaseComparison() domain.ComparisonMap {
	return domain.ComparisonMap{
		"test1": {
			Added: domain.ComponentDoc{
				Releases: []domain.SeriesDoc{
					{Versions: []domain.VersionDoc{{Version: "1.1.0", Sha: sha(5)}}},
				},
			},
		},
	}
}

func TestValidateAddedRelease(t *testing.T) {
	t.Parallel()

	t.Run("should accept exactly one new version in one series", func(t *testing.T) {
		t.Parallel()

		// when
		name, version, err := schema.ValidateAddedRelease(releaseComparison())

		// then
		require.NoError(t, err)
		assert.Equal(t, "test1", name)
		assert.Equal(t, domain.VersionDoc{Version: "1.1.0", Sha: sha(5)}, version)
	})

	t.Run("should reject more than one changed component", func(t *testing.T) {
		t.Parallel()

		// given
		comparison := releaseComparison()
		comparison["test2"] = comparison["test1"]

		// when
		_, _, err := schema.ValidateAddedRelease(comparison)

		// then
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("should reject a non-empty deleted side", func(t *testing.T) {
		t.Parallel()

		// given
		comparison := releaseComparison()
		entry := comparison["test1"]
		entry.Deleted = domain.ComponentDoc{
			Releases: []domain.SeriesDoc{
				{Versions: []domain.VersionDoc{{Version: "1.0.0", Sha: sha(1)}}},
			},
		}
		comparison["test1"] = entry

		// when
		_, _, err := schema.ValidateAddedRelease(comparison)

		// then
		assert.Error(t, err)
	})

	t.Run("should reject more than one added version", func(t *testing.T) {
		t.Parallel()

		// given
		comparison := releaseComparison()
		entry := comparison["test1"]
		entry.Added.Releases[0].Versions = append(
			entry.Added.Releases[0].Versions,
			domain.VersionDoc{Version: "1.2.0", Sha: sha(6)},
		)
		comparison["test1"] = entry

		// when
		_, _, err := schema.ValidateAddedRelease(comparison)

		// then
		assert.Error(t, err)
	})

	t.Run("should reject scalar field changes alongside the release", func(t *testing.T) {
		t.Parallel()

		// given
		comparison := releaseComparison()
		entry := comparison["test1"]
		entry.Added.RepoURL = "https://github.com/rcbops/moved"
		comparison["test1"] = entry

		// when
		_, _, err := schema.ValidateAddedRelease(comparison)

		// then
		assert.Error(t, err)
	})
}

func TestValidateAddedComponent(t *testing.T) {
	t.Parallel()

	t.Run("should accept a complete new component document", func(t *testing.T) {
		t.Parallel()

		// given
		comparison := domain.ComparisonMap{
			"test1": {Added: validComponentDoc()},
		}

		// when
		name, err := schema.ValidateAddedComponent(comparison)

		// then
		require.NoError(t, err)
		assert.Equal(t, "test1", name)
	})

	t.Run("should reject a partial added document", func(t *testing.T) {
		t.Parallel()

		// given: a release-only diff is not a registration
		comparison := releaseComparison()

		// when
		_, err := schema.ValidateAddedComponent(comparison)

		// then
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.NotEmpty(t, validationErr.Violations)
	})

	t.Run("should reject an empty comparison", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := schema.ValidateAddedComponent(domain.ComparisonMap{})

		// then
		assert.Error(t, err)
	})
}
