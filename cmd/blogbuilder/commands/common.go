// Package commands holds the CLI command implementations.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/thought2/blog/internal/config"
	"github.com/thought2/blog/internal/logfields"
)

// Global carries shared state into subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blog.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site from the content directory"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	New     NewCmd     `cmd:"" help:"Scaffold a new post with front matter"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
	History HistoryCmd `cmd:"" help:"List or inspect recorded builds"`
}

// AfterApply runs after flag parsing; loads .env and sets up logging once.
func (c *CLI) AfterApply() error {
	// .env is optional; values feed ${VAR} expansion in the config file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", logfields.Error(err))
	}

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads and validates the configuration named by the root flags.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
