package workflow

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/claimflow/internal/consistency"
	"github.com/ppiankov/claimflow/internal/schema"
)

// validateClaim recomputes completeness and conflicts, tracks cycle and
// staleness counters, and appends one trace line summarizing the cycle.
// Stale flags are replaced wholesale, never appended to.
func (r *run) validateClaim() (outcome, error) {
	rec := r.rec
	required := schema.RequiredFields(rec.ClaimType)

	score := consistency.Completeness(rec, required)
	flags := consistency.FindConflicts(rec, rec.DocExtractedFields)

	rec.ValidationCycles++
	r.stale = math.Abs(score-rec.PreviousCompleteness) < 0.01
	rec.PreviousCompleteness = score

	rec.CompletenessScore = score
	rec.ConsistencyFlags = flags

	missing := consistency.MissingFields(rec, required)

	var trace string
	switch {
	case len(missing) > 0:
		trace = fmt.Sprintf("Validation cycle %d: Completeness %.0f%%, missing fields: %s",
			rec.ValidationCycles, score*100, strings.Join(missing, ", "))
	case len(flags) > 0:
		trace = fmt.Sprintf("Validation cycle %d: Completeness %.0f%%, found inconsistencies: %s",
			rec.ValidationCycles, score*100, strings.Join(flags, ", "))
	default:
		trace = fmt.Sprintf("Validation cycle %d: Completeness %.0f%%, all fields complete and consistent",
			rec.ValidationCycles, score*100)
	}
	if r.stale && rec.ValidationCycles > 1 {
		trace += " [No progress since last cycle]"
	}
	rec.AddReasoning(trace)

	return outcome{}, nil
}
