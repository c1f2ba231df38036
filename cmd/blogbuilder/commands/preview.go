package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/thought2/blog/internal/metrics"
	"github.com/thought2/blog/internal/preview"
)

// PreviewCmd implements the 'preview' command: serve the site locally and
// rebuild whenever the content directory changes.
type PreviewCmd struct {
	Port         int           `short:"p" default:"8080" help:"HTTP port to listen on"`
	Drafts       bool          `help:"Include posts marked draft: true"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Also rebuild at a fixed interval (e.g. 10m); 0 disables"`
	Metrics      bool          `help:"Expose Prometheus metrics at /metrics"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return exitWithError(err, root.Verbose)
	}
	if p.Drafts {
		cfg.Build.Drafts = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := preview.Options{
		Port:         p.Port,
		RebuildEvery: p.RebuildEvery,
	}
	if p.Metrics {
		recorder := metrics.NewPrometheusRecorder(nil)
		opts.Recorder = recorder
		opts.Metrics = recorder.Handler()
	}

	if err := preview.Serve(ctx, cfg, opts); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
