package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thought2/blog/internal/config"
	berrors "github.com/thought2/blog/internal/errors"
	"github.com/thought2/blog/internal/history"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
	"github.com/thought2/blog/internal/notify"
	"github.com/thought2/blog/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source   string `short:"s" help:"Override the configured content source (directory or git URL)"`
	Output   string `short:"o" help:"Override the configured output directory"`
	BasePath string `name:"base-path" help:"Override the configured base path for generated links"`
	Ref      string `help:"Branch to check out when the source is a git URL"`
	Drafts   bool   `help:"Include posts marked draft: true"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return exitWithError(err, root.Verbose)
	}
	if b.Source != "" {
		cfg.Source = b.Source
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.BasePath != "" {
		cfg.Site.BasePath = config.NormalizeBasePath(b.BasePath)
	}
	if b.Ref != "" {
		cfg.Build.Ref = b.Ref
	}
	if b.Drafts {
		cfg.Build.Drafts = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := site.NewGenerator(cfg).Build(ctx)
	if err != nil {
		return exitWithError(err, root.Verbose)
	}

	recordBuild(ctx, cfg.History.Database, m)
	publishBuild(cfg, m)

	fmt.Printf("Built %d pages and %d assets to %s\n", len(m.Pages), len(m.Assets), cfg.Output.Directory)
	return nil
}

// exitWithError prints a user-facing message and exits with the category's
// code. Returning the raw error to kong would always exit 1.
func exitWithError(err error, verbose bool) error {
	adapter := berrors.NewCLIErrorAdapter(verbose)
	fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	os.Exit(adapter.ExitCodeFor(err))
	return nil
}

// recordBuild appends the manifest to the history database when configured.
// History failures never fail the build.
func recordBuild(ctx context.Context, dbPath string, m *manifest.SiteManifest) {
	if dbPath == "" {
		return
	}
	store, err := history.Open(dbPath)
	if err != nil {
		slog.Warn("Failed to open history database", logfields.Path(dbPath), logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Append(ctx, m); err != nil {
		slog.Warn("Failed to record build history", logfields.Error(err))
	}
}

// publishBuild emits a build event over NATS when notify is enabled.
// Publish failures never fail the build.
func publishBuild(cfg *config.Config, m *manifest.SiteManifest) {
	if !cfg.Notify.Enabled {
		return
	}
	publisher, err := notify.NewPublisher(&cfg.Notify)
	if err != nil {
		slog.Warn("Failed to connect notify publisher", logfields.Error(err))
		return
	}
	defer publisher.Close()

	if err := publisher.PublishBuild(m, cfg.Output.Directory); err != nil {
		slog.Warn("Failed to publish build event", logfields.Error(err))
	}
}
