package pipeline

import (
	"strings"
	"time"

	"github.com/seolim/thoughtcast/internal/domain"
)

// FormatRun is the pure projection from a completed run to its flat,
// persistence-ready shape. A successful run yields a FormattedOutput; a
// failed run yields a FailedRunOutput carrying the joined errors and the
// partial run. Exactly one of the two return values is non-nil.
func FormatRun(run *domain.PipelineRun) (*domain.FormattedOutput, *domain.FailedRunOutput) {
	if !run.Success {
		return nil, &domain.FailedRunOutput{
			Error:   true,
			Message: strings.Join(run.Errors, "; "),
			Partial: run,
		}
	}

	return &domain.FormattedOutput{
		Summary: domain.FormattedSummary{
			Headline: run.Content.Headline,
			Overview: run.Content.Overview,
		},
		Insights:   run.Content.Cards,
		Actions:    run.Content.Actions,
		Highlights: run.Content.Highlights,
		Visual:     run.Content.VisualTheme,
		Metadata: domain.FormattedMetadata{
			Timing:      run.Timing,
			GeneratedAt: time.Now(),
		},
	}, nil
}
