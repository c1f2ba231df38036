package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thought2/blog/internal/content"
	"github.com/thought2/blog/internal/logfields"
	"github.com/thought2/blog/internal/manifest"
	"github.com/thought2/blog/internal/metrics"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator  *Generator
	SourceRoot string // resolved source root (workspace path for git sources)
	Files      []content.File
	Posts      []content.Post
	Pages      []RenderedPage
	Manifest   *manifest.SiteManifest
	Report     *BuildReport

	// outputs maps written output paths to their originating source,
	// enforcing the unique-output-path invariant across stages.
	outputs map[string]string

	cleanupSource func() // non-nil when fetch_source created a workspace
	start         time.Time
}

func newBuildState(g *Generator, m *manifest.SiteManifest) *BuildState {
	return &BuildState{
		Generator: g,
		Manifest:  m,
		Report:    NewBuildReport(),
		outputs:   make(map[string]string),
		start:     time.Now(),
	}
}

// claimOutput registers an output path, failing on collision.
func (bs *BuildState) claimOutput(outputPath, source string) error {
	if first, exists := bs.outputs[outputPath]; exists {
		return collisionError(outputPath, first, source)
	}
	bs.outputs[outputPath] = source
	return nil
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warning stage errors are recorded and skipped over.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStageResult(st.Name, StageResultCanceled, bs.Generator.recorder)
			bs.Report.Errors = append(bs.Report.Errors, se)
			return se
		default:
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.Name] = dur
		bs.Generator.recorder.ObserveStageDuration(string(st.Name), dur)
		slog.Debug("Stage finished", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Milliseconds())), logfields.Error(err))

		if err == nil {
			bs.Report.recordStageResult(st.Name, StageResultSuccess, bs.Generator.recorder)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Wrap unknown errors as fatal by default.
			se = newFatalStageError(st.Name, err)
		}

		switch se.Kind {
		case StageErrorWarning:
			bs.Report.recordStageResult(st.Name, StageResultWarning, bs.Generator.recorder)
			bs.Report.Warnings = append(bs.Report.Warnings, se)
			continue
		case StageErrorCanceled:
			bs.Report.recordStageResult(st.Name, StageResultCanceled, bs.Generator.recorder)
			bs.Report.Errors = append(bs.Report.Errors, se)
			return se
		default:
			bs.Report.recordStageResult(st.Name, StageResultFatal, bs.Generator.recorder)
			bs.Report.Errors = append(bs.Report.Errors, se)
			return se
		}
	}
	return nil
}

// StageResult enumerates per-stage classification outcomes.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

func resultLabel(res StageResult) metrics.ResultLabel {
	switch res {
	case StageResultWarning:
		return metrics.ResultWarning
	case StageResultFatal:
		return metrics.ResultFatal
	case StageResultCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultSuccess
	}
}
