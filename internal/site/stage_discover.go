package site

import (
	"context"

	"github.com/thought2/blog/internal/content"
)

// stageDiscover walks the resolved source root and classifies its files.
func stageDiscover(_ context.Context, bs *BuildState) error {
	files, err := content.NewDiscovery(bs.SourceRoot).Discover()
	if err != nil {
		return err
	}
	bs.Files = files
	return nil
}
