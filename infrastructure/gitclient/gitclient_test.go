package gitclient_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releaseforge/domain"
	"github.com/rios0rios0/releaseforge/infrastructure/gitclient"
)

func testSignature() *object.Signature {
	return &object.Signature{
		Name:  "tester",
		Email: "tester@example.com",
		When:  time.Now(),
	}
}

// initRepo creates a repository with one initial commit and returns its
// directory and the commit hash.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	hash := commitFile(t, repo, dir, "README.md", "first\n", "initial commit")
	return dir, hash
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) string {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(name)
	require.NoError(t, err)
	hash, err := worktree.Commit(message, &git.CommitOptions{Author: testSignature()})
	require.NoError(t, err)
	return hash.String()
}

func TestCommitPaths(t *testing.T) {
	t.Parallel()

	t.Run("should stage and commit the given paths", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _ := initRepo(t)
		client := gitclient.New()
		componentsDir := filepath.Join(dir, "components")
		require.NoError(t, os.MkdirAll(componentsDir, 0o755))
		path := filepath.Join(componentsDir, "test1.yml")
		require.NoError(t, os.WriteFile(path, []byte("name: test1\n"), 0o644))

		// when
		err := client.CommitPaths(context.Background(), dir, []string{componentsDir}, "Add component test1")

		// then
		require.NoError(t, err)
		repo, err := git.PlainOpen(dir)
		require.NoError(t, err)
		head, err := repo.Head()
		require.NoError(t, err)
		commit, err := repo.CommitObject(head.Hash())
		require.NoError(t, err)
		assert.Equal(t, "Add component test1", commit.Message)
	})

	t.Run("should fail for a path outside any repository", func(t *testing.T) {
		t.Parallel()

		// when
		err := gitclient.New().CommitPaths(context.Background(), t.TempDir(), nil, "msg")

		// then
		var accessErr *domain.RepositoryAccessError
		require.ErrorAs(t, err, &accessErr)
	})
}

func TestCheckoutAt(t *testing.T) {
	t.Parallel()

	t.Run("should check out a revision and restore the original head", func(t *testing.T) {
		t.Parallel()

		// given
		dir, firstHash := initRepo(t)
		repo, err := git.PlainOpen(dir)
		require.NoError(t, err)
		commitFile(t, repo, dir, "README.md", "second\n", "second commit")
		client := gitclient.New()

		// when
		restore, err := client.CheckoutAt(context.Background(), dir, firstHash)

		// then
		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dir, "README.md"))
		require.NoError(t, err)
		assert.Equal(t, "first\n", string(content))

		// when restored
		require.NoError(t, restore())

		// then the branch head is back
		content, err = os.ReadFile(filepath.Join(dir, "README.md"))
		require.NoError(t, err)
		assert.Equal(t, "second\n", string(content))
		head, err := repo.Head()
		require.NoError(t, err)
		assert.True(t, head.Name().IsBranch())
	})

	t.Run("should fail on an unknown revision without touching the tree", func(t *testing.T) {
		t.Parallel()

		// given
		dir, _ := initRepo(t)
		client := gitclient.New()

		// when
		_, err := client.CheckoutAt(context.Background(), dir, "no-such-rev")

		// then
		var accessErr *domain.RepositoryAccessError
		require.ErrorAs(t, err, &accessErr)
		content, readErr := os.ReadFile(filepath.Join(dir, "README.md"))
		require.NoError(t, readErr)
		assert.Equal(t, "first\n", string(content))
	})
}

func TestCloneAndSync(t *testing.T) {
	t.Parallel()

	t.Run("should clone into a fresh directory", func(t *testing.T) {
		t.Parallel()

		// given
		source, _ := initRepo(t)
		target := filepath.Join(t.TempDir(), "clone")

		// when
		err := gitclient.New().CloneInto(context.Background(), source, target, "")

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(target, "README.md"))
	})

	t.Run("should sync an existing clone to a pinned sha", func(t *testing.T) {
		t.Parallel()

		// given
		source, firstHash := initRepo(t)
		sourceRepo, err := git.PlainOpen(source)
		require.NoError(t, err)
		commitFile(t, sourceRepo, source, "README.md", "second\n", "second commit")
		target := filepath.Join(t.TempDir(), "clone")
		client := gitclient.New()

		// when
		require.NoError(t, client.SyncToSha(context.Background(), source, target, firstHash))
		content, err := os.ReadFile(filepath.Join(target, "README.md"))
		require.NoError(t, err)

		// then
		assert.Equal(t, "first\n", string(content))
	})

	t.Run("should surface clone failures verbatim", func(t *testing.T) {
		t.Parallel()

		// when
		err := gitclient.New().CloneInto(
			context.Background(),
			filepath.Join(t.TempDir(), "missing"),
			filepath.Join(t.TempDir(), "clone"),
			"",
		)

		// then
		var accessErr *domain.RepositoryAccessError
		require.ErrorAs(t, err, &accessErr)
		assert.Equal(t, "clone", accessErr.Op)
	})
}

func TestEnsureClone(t *testing.T) {
	t.Parallel()

	t.Run("should clone when missing and pull when present", func(t *testing.T) {
		t.Parallel()

		// given
		source, _ := initRepo(t)
		sourceRepo, err := git.PlainOpen(source)
		require.NoError(t, err)
		target := filepath.Join(t.TempDir(), "cache")
		client := gitclient.New()

		// when: initial clone
		require.NoError(t, client.EnsureClone(context.Background(), source, target, "master"))

		// and the source moves forward
		commitFile(t, sourceRepo, source, "README.md", "second\n", "second commit")

		// when: refresh
		require.NoError(t, client.EnsureClone(context.Background(), source, target, "master"))

		// then
		content, err := os.ReadFile(filepath.Join(target, "README.md"))
		require.NoError(t, err)
		assert.Equal(t, "second\n", string(content))
	})
}

func TestBranchTip(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the tip of a remote branch", func(t *testing.T) {
		t.Parallel()

		// given
		source, firstHash := initRepo(t)

		// when
		tip, err := gitclient.New().BranchTip(context.Background(), source, "master")

		// then
		require.NoError(t, err)
		assert.Equal(t, firstHash, tip)
	})

	t.Run("should fail for an unknown branch", func(t *testing.T) {
		t.Parallel()

		// given
		source, _ := initRepo(t)

		// when
		_, err := gitclient.New().BranchTip(context.Background(), source, "no-such-branch")

		// then
		var accessErr *domain.RepositoryAccessError
		require.ErrorAs(t, err, &accessErr)
	})
}
