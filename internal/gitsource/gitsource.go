// Package gitsource fetches blog content from a git repository into an
// ephemeral workspace, so builds can run against a URL instead of a local
// directory.
package gitsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thought2/blog/internal/logfields"
)

// IsGitURL reports whether the source string should be treated as a git
// repository rather than a local directory.
func IsGitURL(s string) bool {
	switch {
	case strings.HasPrefix(s, "git@"):
		return true
	case strings.HasPrefix(s, "ssh://"), strings.HasPrefix(s, "git://"):
		return true
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return true
	}
	return false
}

// Workspace is an ephemeral checkout of a content repository.
type Workspace struct {
	dir string
}

// Path returns the local checkout directory.
func (w *Workspace) Path() string { return w.dir }

// Cleanup removes the workspace directory.
func (w *Workspace) Cleanup() {
	if w.dir == "" {
		return
	}
	if err := os.RemoveAll(w.dir); err != nil {
		slog.Warn("Failed to cleanup source workspace", logfields.Path(w.dir), logfields.Error(err))
	}
	w.dir = ""
}

// Fetch clones url into a temporary workspace. A shallow single-branch clone
// is enough: builds only read the working tree. ref selects a branch; empty
// means the remote default.
func Fetch(ctx context.Context, url, ref string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "blogbuilder-src-*")
	if err != nil {
		return nil, fmt.Errorf("create source workspace: %w", err)
	}

	opts := &git.CloneOptions{
		URL:   url,
		Depth: 1,
	}
	if ref != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + ref)
		opts.SingleBranch = true
	}

	slog.Info("Cloning content repository", logfields.URL(url), slog.String("ref", ref), logfields.Path(dir))
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", url, err)
	}

	if head, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned", logfields.URL(url), slog.String("commit", head.Hash().String()[:8]))
	}

	return &Workspace{dir: dir}, nil
}
