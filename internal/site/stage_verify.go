package site

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thought2/blog/internal/linkcheck"
	"github.com/thought2/blog/internal/logfields"
)

// stageVerifyLinks checks that internal links in rendered pages resolve to
// outputs of this build. Broken links are reported as a warning, not a
// build failure: a post may legitimately reference a page published by a
// different deploy under the same base path.
func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	checker := linkcheck.NewChecker(bs.Generator.config.Site.BasePath, bs.Manifest.OutputPaths())

	for i := range bs.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageVerifyLinks, ctx.Err())
		default:
		}

		refs, err := linkcheck.ExtractInternalRefs(bs.Pages[i].HTML)
		if err != nil {
			return newWarnStageError(StageVerifyLinks, err)
		}
		for _, missing := range checker.Missing(refs) {
			bs.Report.BrokenLinks = append(bs.Report.BrokenLinks, missing)
			slog.Warn("Broken internal link",
				logfields.Output(bs.Pages[i].OutputPath),
				logfields.URL(missing))
		}
	}

	if n := len(bs.Report.BrokenLinks); n > 0 {
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%d broken internal links", n))
	}
	return nil
}
