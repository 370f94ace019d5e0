package domain

import (
	"context"
	"fmt"
	"regexp"
)

// RepoClient abstracts the repository-access collaborator backing the
// registry. Implementations surface failures as *RepositoryAccessError and
// never retry; a commit is the atomic unit of visibility for other readers.
type RepoClient interface {
	// CloneInto clones url into dir, optionally checking out branch.
	CloneInto(ctx context.Context, url, dir, branch string) error

	// EnsureClone makes dir an up-to-date clone of url's branch: it clones
	// when dir does not exist, otherwise hard-resets, checks the branch out,
	// and pulls.
	EnsureClone(ctx context.Context, url, dir, branch string) error

	// CommitPaths stages the given paths in the repository at repoDir and
	// commits them with the message.
	CommitPaths(ctx context.Context, repoDir string, paths []string, message string) error

	// CheckoutAt checks the repository at repoDir out at rev and returns a
	// restore function that puts the working tree back where it was. The
	// caller must invoke restore on every exit path.
	CheckoutAt(ctx context.Context, repoDir, rev string) (restore func() error, err error)

	// BranchTip resolves the current tip commit hash of a remote branch
	// without materialising a working tree.
	BranchTip(ctx context.Context, url, branch string) (string, error)

	// SyncToSha makes dir a clone of url with its working tree hard-reset to
	// sha, fetching first when the clone already exists.
	SyncToSha(ctx context.Context, url, dir, sha string) error

	// ProbeRemote checks that url is reachable as a git remote.
	ProbeRemote(ctx context.Context, url string) error
}

var githubHTTPPattern = regexp.MustCompile(
	`^https?://github\.com/(?P<owner>[a-zA-Z0-9]+-?[a-zA-Z0-9]+)/(?P<name>[a-zA-Z0-9_-]+)(\.git)?$`,
)

// GitHTTPToSSH rewrites an https github.com remote to its SSH form, used
// when cloning for write access.
func GitHTTPToSSH(url string) (string, error) {
	m := githubHTTPPattern.FindStringSubmatch(url)
	if m == nil {
		return "", &FormatError{
			Kind:  "repo_url",
			Value: url,
			Cause: "expected https://github.com/<owner>/<name>",
		}
	}
	owner := m[githubHTTPPattern.SubexpIndex("owner")]
	name := m[githubHTTPPattern.SubexpIndex("name")]
	return fmt.Sprintf("git@github.com:%s/%s.git", owner, name), nil
}
