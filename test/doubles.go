// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/releaseforge/domain"
)

// ---------------------------------------------------------------------------
// SpyRepoClient
// ---------------------------------------------------------------------------

// SpyRepoClient implements domain.RepoClient as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyRepoClient struct {
	// --- CloneInto / EnsureClone ---
	CloneErr error
	// spy: urls that were cloned
	ClonedURLs []string

	// --- CommitPaths ---
	CommitErr error
	// spy: commits received
	Commits []CommitCall

	// --- CheckoutAt ---
	CheckoutErr error
	RestoreErr  error
	// spy: revisions checked out, restores invoked
	CheckedOutRevs []string
	Restores       int
	// OnCheckout runs after a revision is recorded, letting a test swap
	// the registry contents between snapshots.
	OnCheckout func(rev string)

	// --- BranchTip ---
	BranchTips   map[string]string // branch -> sha
	BranchTipErr error
	// spy: branches resolved
	ResolvedBranches []string

	// --- SyncToSha ---
	SyncErr error
	// spy: syncs received
	Syncs []SyncCall

	// --- ProbeRemote ---
	ProbeErr error
	// spy: urls probed
	ProbedURLs []string
}

// CommitCall records a single invocation of CommitPaths.
type CommitCall struct {
	RepoDir string
	Paths   []string
	Message string
}

// SyncCall records a single invocation of SyncToSha.
type SyncCall struct {
	URL string
	Dir string
	Sha string
}

var _ domain.RepoClient = (*SpyRepoClient)(nil)

func (c *SpyRepoClient) CloneInto(_ context.Context, url, _, _ string) error {
	c.ClonedURLs = append(c.ClonedURLs, url)
	return c.CloneErr
}

func (c *SpyRepoClient) EnsureClone(_ context.Context, url, _, _ string) error {
	c.ClonedURLs = append(c.ClonedURLs, url)
	return c.CloneErr
}

func (c *SpyRepoClient) CommitPaths(
	_ context.Context,
	repoDir string,
	paths []string,
	message string,
) error {
	c.Commits = append(c.Commits, CommitCall{
		RepoDir: repoDir,
		Paths:   paths,
		Message: message,
	})
	return c.CommitErr
}

func (c *SpyRepoClient) CheckoutAt(
	_ context.Context,
	_, rev string,
) (func() error, error) {
	c.CheckedOutRevs = append(c.CheckedOutRevs, rev)
	if c.CheckoutErr != nil {
		return nil, c.CheckoutErr
	}
	if c.OnCheckout != nil {
		c.OnCheckout(rev)
	}
	return func() error {
		c.Restores++
		return c.RestoreErr
	}, nil
}

func (c *SpyRepoClient) BranchTip(
	_ context.Context,
	_, branch string,
) (string, error) {
	c.ResolvedBranches = append(c.ResolvedBranches, branch)
	if c.BranchTipErr != nil {
		return "", c.BranchTipErr
	}
	if sha, ok := c.BranchTips[branch]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("branch not found: %s", branch)
}

func (c *SpyRepoClient) SyncToSha(_ context.Context, url, dir, sha string) error {
	c.Syncs = append(c.Syncs, SyncCall{URL: url, Dir: dir, Sha: sha})
	return c.SyncErr
}

func (c *SpyRepoClient) ProbeRemote(_ context.Context, url string) error {
	c.ProbedURLs = append(c.ProbedURLs, url)
	return c.ProbeErr
}

// ---------------------------------------------------------------------------
// DummyRepoClient — satisfies the interface but does nothing
// ---------------------------------------------------------------------------

// DummyRepoClient is a no-op implementation of domain.RepoClient.
// Use it only for interface compliance tests or as a placeholder.
type DummyRepoClient struct{}

var _ domain.RepoClient = (*DummyRepoClient)(nil)

func (d *DummyRepoClient) CloneInto(_ context.Context, _, _, _ string) error   { return nil }
func (d *DummyRepoClient) EnsureClone(_ context.Context, _, _, _ string) error { return nil }

func (d *DummyRepoClient) CommitPaths(
	_ context.Context,
	_ string,
	_ []string,
	_ string,
) error {
	return nil
}

func (d *DummyRepoClient) CheckoutAt(
	_ context.Context,
	_, _ string,
) (func() error, error) {
	return func() error { return nil }, nil
}

func (d *DummyRepoClient) BranchTip(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (d *DummyRepoClient) SyncToSha(_ context.Context, _, _, _ string) error { return nil }

func (d *DummyRepoClient) ProbeRemote(_ context.Context, _ string) error { return nil }
