package site

import (
	"context"
	"os"
	"path/filepath"

	berrors "github.com/thought2/blog/internal/errors"
	"github.com/thought2/blog/internal/gitsource"
)

// stageFetchSource resolves the source root. Local directories are used in
// place; git URLs are cloned into an ephemeral workspace that is cleaned up
// after the build.
func stageFetchSource(ctx context.Context, bs *BuildState) error {
	src := bs.Generator.config.Source

	if gitsource.IsGitURL(src) {
		ws, err := gitsource.Fetch(ctx, src, bs.Generator.config.Build.Ref)
		if err != nil {
			return berrors.SourceFetchError(src, err)
		}
		bs.SourceRoot = ws.Path()
		bs.cleanupSource = ws.Cleanup
		return nil
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return berrors.SourceNotFound(src)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return berrors.SourceNotFound(src)
	}
	bs.SourceRoot = abs
	return nil
}
