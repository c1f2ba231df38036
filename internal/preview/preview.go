// Package preview serves the generated site locally and rebuilds it when
// source files change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/gitsource"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/metrics"
	"github.com/thought2/blog/internal/site"
)

// debounceWindow batches rapid editor save events into one rebuild.
const debounceWindow = 300 * time.Millisecond

// Options configures the preview server.
type Options struct {
	Port         int
	RebuildEvery time.Duration // 0 disables periodic full rebuilds
	Recorder     metrics.Recorder
	Metrics      http.Handler // non-nil enables the /metrics endpoint
}

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) status() (lastError error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Serve builds the site, then watches the source directory and serves the
// destination until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, opts Options) error {
	if gitsource.IsGitURL(cfg.Source) {
		return errors.New("preview requires a local source directory, not a git URL")
	}
	absSource, err := filepath.Abs(cfg.Source)
	if err != nil {
		return fmt.Errorf("resolve source dir: %w", err)
	}
	if st, statErr := os.Stat(absSource); statErr != nil || !st.IsDir() {
		return fmt.Errorf("source dir not found or not a directory: %s", absSource)
	}

	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	status := &buildStatus{}

	runBuild := func() {
		gen := site.NewGenerator(cfg).WithRecorder(opts.Recorder)
		if _, err := gen.Build(ctx); err != nil {
			slog.Error("Rebuild failed", logfields.Error(err))
			status.setError(err)
			return
		}
		status.setSuccess()
	}
	runBuild()

	watcher, err := newRecursiveWatcher(absSource)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq := make(chan struct{}, 1)
	go rebuildWorker(ctx, rebuildReq, runBuild)

	var scheduler gocron.Scheduler
	if opts.RebuildEvery > 0 {
		scheduler, err = startPeriodicRebuild(opts.RebuildEvery, rebuildReq)
		if err != nil {
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	server := newHTTPServer(cfg, opts, status)
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening",
			slog.String("addr", server.Addr),
			slog.String("base_path", cfg.Site.BasePath))
		serverErr <- server.ListenAndServe()
	}()

	return watchLoop(ctx, watcher, rebuildReq, server, serverErr)
}

// newRecursiveWatcher watches root and every directory below it. fsnotify
// watches are not recursive; new directories are added by the watch loop.
func newRecursiveWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch source tree: %w", err)
	}
	return watcher, nil
}

// rebuildWorker serializes rebuilds: at most one build runs at a time.
func rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}, runBuild func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			runBuild()
		}
	}
}

// startPeriodicRebuild schedules a full rebuild at a fixed interval.
func startPeriodicRebuild(interval time.Duration, rebuildReq chan<- struct{}) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			select {
			case rebuildReq <- struct{}{}:
			default: // rebuild already pending
			}
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Scheduled periodic rebuilds", slog.Duration("interval", interval))
	return scheduler, nil
}

// watchLoop feeds debounced file events into the rebuild channel until
// shutdown.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuildReq chan<- struct{}, server *http.Server, serverErr <-chan error) error {
	var debounce *time.Timer
	trigger := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(debounceWindow, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-serverErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newHTTPServer serves the generated site under the configured base path,
// plus health and optional metrics endpoints.
func newHTTPServer(cfg *config.Config, opts Options, status *buildStatus) *http.Server {
	mux := http.NewServeMux()

	files := http.FileServer(http.Dir(cfg.Output.Directory))
	prefix := cfg.Site.BasePath
	if prefix == "" {
		mux.Handle("/", files)
	} else {
		mux.Handle(prefix+"/", http.StripPrefix(prefix, files))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, prefix+"/", http.StatusFound)
		})
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		lastErr, hasGoodBuild := status.status()
		switch {
		case lastErr != nil:
			http.Error(w, fmt.Sprintf("last build failed: %v", lastErr), http.StatusInternalServerError)
		case !hasGoodBuild:
			http.Error(w, "no successful build yet", http.StatusServiceUnavailable)
		default:
			fmt.Fprintln(w, "ok")
		}
	})

	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
