package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	berrors "github.com/thought2/blog/internal/errors"
	"github.com/thought2/blog/internal/logfields"
)

// stageCopyAssets copies every static asset byte-for-byte to the same
// relative path under the staging root.
func stageCopyAssets(ctx context.Context, bs *BuildState) error {
	for i := range bs.Files {
		file := &bs.Files[i]
		if !file.IsAsset {
			continue
		}
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageCopyAssets, ctx.Err())
		default:
		}

		if err := file.LoadContent(); err != nil {
			return berrors.DestinationWriteError(file.RelativePath, fmt.Errorf("read asset: %w", err))
		}
		if err := bs.claimOutput(file.RelativePath, file.RelativePath); err != nil {
			return err
		}

		target := filepath.Join(bs.Generator.buildRoot(), filepath.FromSlash(file.RelativePath))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return berrors.DestinationWriteError(file.RelativePath, fmt.Errorf("create directory: %w", err))
		}
		if err := os.WriteFile(target, file.Content, 0o644); err != nil {
			return berrors.DestinationWriteError(file.RelativePath, err)
		}

		bs.Manifest.AddAsset(file.RelativePath, file.RelativePath, file.Content)
		bs.Report.AssetsCopied++
		slog.Debug("Copied asset", logfields.File(file.RelativePath))
	}

	slog.Info("Copied all assets", logfields.Count(bs.Report.AssetsCopied))
	return nil
}
