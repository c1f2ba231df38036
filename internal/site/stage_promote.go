package site

import "context"

// stagePromote atomically replaces the destination with the staged site.
func stagePromote(_ context.Context, bs *BuildState) error {
	return bs.Generator.finalizeStaging()
}
