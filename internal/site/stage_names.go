package site

// StageName is a strongly-typed identifier for a build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageFetchSource   StageName = "fetch_source"
	StageDiscover      StageName = "discover"
	StageRenderPosts   StageName = "render_posts"
	StageCopyAssets    StageName = "copy_assets"
	StageIndexes       StageName = "indexes"
	StageWriteManifest StageName = "write_manifest"
	StageVerifyLinks   StageName = "verify_links"
	StagePromote       StageName = "promote"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}
