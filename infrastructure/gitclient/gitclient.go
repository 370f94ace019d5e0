// Package gitclient implements domain.RepoClient on top of go-git. All
// failures surface as *domain.RepositoryAccessError and are never retried.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releaseforge/domain"
)

const (
	remoteName = "origin"

	// Fallback committer identity used when no git user is configured.
	defaultAuthorName  = "releaseforge[bot]"
	defaultAuthorEmail = "releaseforge[bot]@users.noreply.github.com"
)

// Client is the go-git backed repository-access collaborator.
type Client struct{}

// New creates a new git client.
func New() domain.RepoClient {
	return &Client{}
}

// CloneInto clones url into dir, optionally restricted to one branch.
func (c *Client) CloneInto(ctx context.Context, url, dir, branch string) error {
	opts := &git.CloneOptions{URL: url}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	logger.Debugf("Cloning %s into %s", url, dir)
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return &domain.RepositoryAccessError{Op: "clone", URL: url, Err: err}
	}
	return nil
}

// EnsureClone makes dir an up-to-date clone of url's branch: a fresh clone
// when dir does not exist, otherwise hard reset, checkout, and pull.
func (c *Client) EnsureClone(ctx context.Context, url, dir, branch string) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("failed to create clone dir %q: %w", dir, mkErr)
		}
		return c.CloneInto(ctx, url, dir, branch)
	}
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", URL: url, Err: err}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", URL: url, Err: err}
	}

	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return &domain.RepositoryAccessError{Op: "reset", URL: url, Err: err}
	}
	if branch != "" {
		checkout := &git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branch),
			Force:  true,
		}
		if err := worktree.Checkout(checkout); err != nil {
			return &domain.RepositoryAccessError{Op: "checkout", URL: url, Err: err}
		}
	}

	logger.Debugf("Pulling %s in %s", url, dir)
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: remoteName})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return &domain.RepositoryAccessError{Op: "pull", URL: url, Err: err}
	}
	return nil
}

// CommitPaths stages the given paths (absolute or repo-relative) and commits
// them.
func (c *Client) CommitPaths(ctx context.Context, repoDir string, paths []string, message string) error {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", Err: err}
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", Err: err}
	}

	for _, path := range paths {
		rel := path
		if filepath.IsAbs(path) {
			rel, err = filepath.Rel(repoDir, path)
			if err != nil {
				return fmt.Errorf("path %q is outside repository %q: %w", path, repoDir, err)
			}
		}
		if _, err := worktree.Add(rel); err != nil {
			return &domain.RepositoryAccessError{Op: "add", Err: err}
		}
	}

	logger.Debugf("Committing: %s", message)
	_, err = worktree.Commit(message, &git.CommitOptions{Author: author(repo)})
	if err != nil {
		return &domain.RepositoryAccessError{Op: "commit", Err: err}
	}
	return nil
}

// CheckoutAt detaches the working tree at rev and returns a restore function
// that moves it back to the original HEAD. The caller must run restore on
// every exit path.
func (c *Client) CheckoutAt(ctx context.Context, repoDir, rev string) (func() error, error) {
	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		return nil, &domain.RepositoryAccessError{Op: "open", Err: err}
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, &domain.RepositoryAccessError{Op: "open", Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, &domain.RepositoryAccessError{Op: "resolve HEAD", Err: err}
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &domain.RepositoryAccessError{Op: "resolve " + rev, Err: err}
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return nil, &domain.RepositoryAccessError{Op: "checkout " + rev, Err: err}
	}

	restore := func() error {
		opts := &git.CheckoutOptions{Force: true}
		if name := head.Name(); name.IsBranch() {
			opts.Branch = name
		} else {
			opts.Hash = head.Hash()
		}
		if err := worktree.Checkout(opts); err != nil {
			return &domain.RepositoryAccessError{Op: "restore working tree", Err: err}
		}
		return nil
	}
	return restore, nil
}

// BranchTip resolves a remote branch's current tip commit hash by cloning
// the single branch into memory, without a working tree.
func (c *Client) BranchTip(ctx context.Context, url, branch string) (string, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil {
		return "", &domain.RepositoryAccessError{Op: "clone branch " + branch, URL: url, Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		return "", &domain.RepositoryAccessError{Op: "resolve HEAD", URL: url, Err: err}
	}
	return head.Hash().String(), nil
}

// SyncToSha makes dir a clone of url with its working tree detached at sha,
// fetching first when the clone already exists.
func (c *Client) SyncToSha(ctx context.Context, url, dir, sha string) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if cloneErr := c.CloneInto(ctx, url, dir, ""); cloneErr != nil {
			return cloneErr
		}
		repo, err = git.PlainOpen(dir)
	}
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", URL: url, Err: err}
	}

	fetchErr := repo.FetchContext(ctx, &git.FetchOptions{RemoteName: remoteName})
	if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
		return &domain.RepositoryAccessError{Op: "fetch", URL: url, Err: fetchErr}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return &domain.RepositoryAccessError{Op: "open", URL: url, Err: err}
	}
	checkout := &git.CheckoutOptions{Hash: plumbing.NewHash(sha), Force: true}
	if err := worktree.Checkout(checkout); err != nil {
		return &domain.RepositoryAccessError{Op: "checkout " + sha, URL: url, Err: err}
	}
	return nil
}

// ProbeRemote checks that url is reachable as a git remote.
func (c *Client) ProbeRemote(ctx context.Context, url string) error {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: remoteName,
		URLs: []string{url},
	})
	if _, err := remote.ListContext(ctx, &git.ListOptions{}); err != nil {
		return &domain.RepositoryAccessError{Op: "probe", URL: url, Err: err}
	}
	return nil
}

// author builds the commit signature from the repository configuration,
// falling back to the bot identity when none is set.
func author(repo *git.Repository) *object.Signature {
	name, email := defaultAuthorName, defaultAuthorEmail
	if cfg, err := repo.ConfigScoped(gitconfig.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}
