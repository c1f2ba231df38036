package site

import (
	"context"
)

// stageWriteManifest writes the deterministic manifest snapshot into the
// staging tree. The snapshot excludes build id and timing so output trees
// stay byte-identical across identical builds.
func stageWriteManifest(_ context.Context, bs *BuildState) error {
	snapshot, err := bs.Manifest.Snapshot()
	if err != nil {
		return err
	}
	if err := bs.claimOutput(manifestOutputPath, "(manifest)"); err != nil {
		return err
	}
	return bs.writePage(RenderedPage{OutputPath: manifestOutputPath, HTML: snapshot})
}
