package site

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/thought2/blog/internal/logfields"
)

// buildRoot returns the directory active build stages should write into
// (staging if present, else final output). All pre-promotion writes must go
// through this.
func (g *Generator) buildRoot() string {
	if g.stageDir != "" {
		return g.stageDir
	}
	return g.outputDir
}

// beginStaging creates an isolated staging directory for atomic build output.
func (g *Generator) beginStaging() error {
	// Sibling staging dir: <output>_stage (not inside output).
	stage := g.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear stale staging: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return err
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", slog.String("staging", stage), logfields.Output(g.outputDir))
	return nil
}

// finalizeStaging atomically promotes the staging directory to the final
// output location. Strategy:
//  1. Move the existing output (if any) to <output>.prev.
//  2. Rename staging -> output.
//  3. Remove the backup best-effort.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(g.stageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove stale backup: %w", err)
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		// Try to restore the previous output before failing.
		if _, statErr := os.Stat(prev); statErr == nil {
			_ = os.Rename(prev, g.outputDir)
		}
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""

	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous output backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Info("Promoted staging directory", logfields.Output(g.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build so no
// partial site is left behind; the previous output stays untouched.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	dir := g.stageDir
	g.stageDir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", slog.String("staging", dir), logfields.Error(err))
	} else {
		slog.Debug("Removed staging directory after abort", slog.String("staging", dir))
	}
}
