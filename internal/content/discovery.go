package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/thought2/blog/internal/logfields"
)

// Discovery walks a source root and classifies its files.
type Discovery struct {
	sourceRoot string
}

// NewDiscovery creates a discovery instance rooted at sourceRoot.
func NewDiscovery(sourceRoot string) *Discovery {
	return &Discovery{sourceRoot: sourceRoot}
}

// Discover finds all markdown posts and static assets under the source root.
//
// Hidden files and directories are skipped, as are files that are neither
// markdown nor a recognized asset type.
func (d *Discovery) Discover() ([]File, error) {
	var files []File

	err := filepath.WalkDir(d.sourceRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if strings.HasPrefix(entry.Name(), ".") && path != d.sourceRoot {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}

		isMarkdown := IsMarkdownFile(path)
		isAsset := IsAssetFile(path)
		if !isMarkdown && !isAsset {
			return nil
		}

		relPath, err := filepath.Rel(d.sourceRoot, path)
		if err != nil {
			return fmt.Errorf("invalid relative path for %s: %w", path, err)
		}

		file := File{
			Path:         path,
			RelativePath: filepath.ToSlash(relPath),
			Name:         strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Extension:    filepath.Ext(entry.Name()),
			IsAsset:      isAsset,
		}
		files = append(files, file)

		fileType := "post"
		if isAsset {
			fileType = "asset"
		}
		slog.Debug("Discovered file", logfields.File(relPath), slog.String("type", fileType))

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Source files discovered", logfields.Count(len(files)), logfields.Source(d.sourceRoot))
	return files, nil
}
