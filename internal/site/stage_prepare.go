package site

import "context"

// stagePrepareOutput initializes the staging directory all later stages
// write into. The final destination is not touched until promotion.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	return bs.Generator.beginStaging()
}
