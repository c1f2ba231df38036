package site

import (
	"time"

	"github.com/thought2/blog/internal/metrics"
)

// StageCount tallies outcomes for one stage across a build.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// BuildReport aggregates per-stage timings, counts, and collected errors for
// one build invocation.
type BuildReport struct {
	StageDurations map[StageName]time.Duration
	StageCounts    map[StageName]StageCount
	Warnings       []error
	Errors         []error
	PagesRendered  int
	AssetsCopied   int
	BrokenLinks    []string
}

// NewBuildReport constructs an empty report.
func NewBuildReport() *BuildReport {
	return &BuildReport{
		StageDurations: make(map[StageName]time.Duration),
		StageCounts:    make(map[StageName]StageCount),
	}
}

// recordStageResult updates counters and emits metrics.
func (r *BuildReport) recordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	}
	r.StageCounts[stage] = sc
	if recorder != nil {
		recorder.IncStageResult(string(stage), resultLabel(res))
	}
}
