// Package site implements the blog build pipeline: discover markdown posts
// and assets under a source root, render them, and atomically publish the
// resulting static site.
package site

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
	"github.com/thought2/blog/internal/markdown"
	"github.com/thought2/blog/internal/metrics"
)

// RenderedPage is one HTML document produced by a build.
type RenderedPage struct {
	OutputPath string // relative to the destination root
	URL        string // published URL path (includes base path)
	HTML       []byte
}

// Generator runs the site build.
type Generator struct {
	config    *config.Config
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for current build
	renderer  *markdown.Renderer
	recorder  metrics.Recorder
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		config:    cfg,
		outputDir: filepath.Clean(cfg.Output.Directory),
		renderer:  markdown.NewRenderer(cfg.Site.BasePath),
		recorder:  metrics.NoopRecorder{},
	}
}

// WithRecorder injects a metrics recorder (fluent helper).
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

// Build runs the full stage pipeline. On success the destination holds the
// complete new site and the returned manifest lists every written file. On
// failure the destination is untouched and staging is removed.
func (g *Generator) Build(ctx context.Context) (*manifest.SiteManifest, error) {
	start := time.Now()
	m := manifest.New(g.config.Source, g.config.Site.BasePath, g.configHash())
	bs := newBuildState(g, m)

	slog.Info("Starting site build",
		logfields.Source(g.config.Source),
		logfields.Output(g.outputDir),
		slog.String("base_path", g.config.Site.BasePath))

	stages := []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageFetchSource, stageFetchSource},
		{StageDiscover, stageDiscover},
		{StageRenderPosts, stageRenderPosts},
		{StageCopyAssets, stageCopyAssets},
		{StageIndexes, stageIndexes},
		{StageWriteManifest, stageWriteManifest},
		{StageVerifyLinks, stageVerifyLinks},
		{StagePromote, stagePromote},
	}

	err := runStages(ctx, bs, stages)
	if bs.cleanupSource != nil {
		bs.cleanupSource()
	}

	dur := time.Since(start)
	m.DurationMS = dur.Milliseconds()
	g.recorder.ObserveBuildDuration(dur)

	if err != nil {
		g.abortStaging()
		m.Status = manifest.StatusFailed
		g.recorder.IncBuildOutcome(buildOutcome(err))
		return nil, err
	}

	m.Status = manifest.StatusSuccess
	g.recorder.IncBuildOutcome("success")
	g.recorder.AddPagesRendered(bs.Report.PagesRendered)
	g.recorder.AddAssetsCopied(bs.Report.AssetsCopied)

	slog.Info("Site build complete",
		slog.Int("pages", bs.Report.PagesRendered),
		slog.Int("assets", bs.Report.AssetsCopied),
		logfields.DurationMS(float64(dur.Milliseconds())),
		logfields.Output(g.outputDir))
	return m, nil
}

// Report-style accessor for the last build's output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

func buildOutcome(err error) string {
	var se *StageError
	if errors.As(err, &se) && se.Kind == StageErrorCanceled {
		return "canceled"
	}
	return "failed"
}

// configHash fingerprints the build-relevant configuration for the manifest.
func (g *Generator) configHash() string {
	data, err := yaml.Marshal(g.config)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
