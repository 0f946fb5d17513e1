// Package gitclient wraps the Git operations the pipeline needs:
// clone-or-fetch, checkout, pull and describe.
package gitclient

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Client performs Git operations on local working copies.
type Client struct{}

// New creates a Git client.
func New() *Client {
	return &Client{}
}

// Update brings repoDir up to date with repoURL: an existing working copy is
// fetched, a missing one is initialized with an origin remote and a local
// tracking branch for master. The requested branch is then checked out and
// pulled to fast-forward. Returns a short human-readable result.
func (c *Client) Update(ctx context.Context, repoURL, repoDir, branch string) (string, error) {
	repo, err := git.PlainOpen(repoDir)
	switch err {
	case nil:
		if err := c.fetch(ctx, repo); err != nil {
			return "", err
		}
	case git.ErrRepositoryNotExists:
		if repo, err = c.clone(ctx, repoURL, repoDir); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("failed to open repository %s: %w", repoDir, err)
	}

	if err := c.checkout(ctx, repo, branch); err != nil {
		return "", err
	}
	return fmt.Sprintf("checked out '%s'", branch), nil
}

func (c *Client) fetch(ctx context.Context, repo *git.Repository) error {
	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to resolve origin: %w", err)
	}
	if err := remote.FetchContext(ctx, &git.FetchOptions{RemoteName: "origin"}); err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to fetch origin: %w", err)
	}
	return nil
}

func (c *Client) clone(ctx context.Context, repoURL, repoDir string) (*git.Repository, error) {
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to init repository %s: %w", repoDir, err)
	}
	remote, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{repoURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add origin %s: %w", repoURL, err)
	}
	if err := remote.FetchContext(ctx, &git.FetchOptions{RemoteName: "origin"}); err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("failed to fetch origin: %w", err)
	}
	// Local tracking branch for master, like a fresh non-bare checkout has.
	if err := c.track(repo, "master"); err != nil {
		return nil, err
	}
	return repo, nil
}

// track creates a local branch pointing at origin/<branch>, configured to
// track the remote branch.
func (c *Client) track(repo *git.Repository, branch string) error {
	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return fmt.Errorf("failed to resolve origin/%s: %w", branch, err)
	}
	localName := plumbing.NewBranchReferenceName(branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(localName, remoteRef.Hash())); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	err = repo.CreateBranch(&gitconfig.Branch{
		Name:   branch,
		Remote: "origin",
		Merge:  localName,
	})
	if err != nil && err != git.ErrBranchExists {
		return fmt.Errorf("failed to track origin/%s: %w", branch, err)
	}
	return nil
}

func (c *Client) checkout(ctx context.Context, repo *git.Repository, branch string) error {
	localName := plumbing.NewBranchReferenceName(branch)
	if _, err := repo.Reference(localName, true); err != nil {
		// Branch not present locally yet; set it up from origin.
		if err := c.track(repo, branch); err != nil {
			return err
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Branch: localName}); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: localName,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to pull %s: %w", branch, err)
	}
	return nil
}

// Describe returns the repo version based on the latest tag, commits since,
// and latest commit hash. Empty string when describe fails.
func (c *Client) Describe(ctx context.Context, repoDir string) string {
	cmd := exec.CommandContext(ctx, "git", "describe", "--always", "--tags")
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
