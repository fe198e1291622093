package annotation

import (
	"github.com/jcoope02/annotation-scripts/pkg/annotation/aggregates"
)

// Summarize aggregates per-item outcomes into the batch summary shown to the
// user. Pure aggregation, submission order preserved in Failures.
func Summarize(outcomes []aggregates.Outcome) aggregates.Summary {
	summary := aggregates.Summary{
		Total:    len(outcomes),
		Failures: []aggregates.Failure{},
	}
	for i := range outcomes {
		outcome := outcomes[i]
		if outcome.Success() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		summary.Failures = append(summary.Failures, aggregates.Failure{
			Identity: outcome.Request.Identity,
			Reason:   outcome.Err.Error(),
		})
	}
	return summary
}
