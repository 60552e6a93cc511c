package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
)

// internalFields are stripped from the record view fed to summary
// generation; they are process bookkeeping, not claim facts.
var internalFields = map[string]bool{
	"collection_attempts":   true,
	"validation_cycles":     true,
	"previous_completeness": true,
	"messages":              true,
	"reasoning_trace":       true,
	"doc_extracted_fields":  true,
}

// technicalTracePatterns mark reasoning entries about internal metrics
// that should not reach the narrative trace.
var technicalTracePatterns = []string{
	"completeness=",
	"completeness ",
	"cycles=",
	"cycle",
	"attempts",
	"validation cycle",
	"no progress",
	"reached maximum",
	"finalizing with completeness",
}

// SanitizedView returns the record as a map with internal counters and
// raw logs stripped, for feeding to narrative generation.
func SanitizedView(rec *model.ClaimRecord) (map[string]any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var view map[string]any
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	for key := range internalFields {
		delete(view, key)
	}
	return view, nil
}

// FilterTechnicalEntries drops reasoning entries about internal metrics,
// keeping the human-friendly processing events.
func FilterTechnicalEntries(trace []string) []string {
	var filtered []string
	for _, entry := range trace {
		lowered := strings.ToLower(entry)
		technical := false
		for _, pattern := range technicalTracePatterns {
			if strings.Contains(lowered, pattern) {
				technical = true
				break
			}
		}
		if !technical {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// finalizeClaim produces the narrative summary and reasoning trace. It
// runs exactly once per completed workflow; the summary fields are never
// overwritten within the same run.
func (r *run) finalizeClaim(ctx context.Context) (outcome, error) {
	rec := r.rec
	if rec.Summary != "" {
		return outcome{}, nil
	}

	view, err := SanitizedView(rec)
	if err != nil {
		return outcome{}, fmt.Errorf("sanitize record: %w", err)
	}
	viewJSON, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return outcome{}, fmt.Errorf("marshal record view: %w", err)
	}

	summaryResult, err := r.w.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      llm.BuildSummaryPrompt(string(viewJSON)),
		Format:      llm.FormatText,
		Temperature: 0.2,
		Fallback:    "Offline summary: claim finalized with available data.",
	})
	if err != nil {
		return outcome{}, err
	}
	rec.Summary = summaryResult.Text

	filtered := FilterTechnicalEntries(rec.ReasoningTrace)
	eventsJSON, err := json.MarshalIndent(filtered, "", "  ")
	if err != nil {
		return outcome{}, fmt.Errorf("marshal events: %w", err)
	}

	traceFallback := traceFallbackText(filtered)
	traceResult, err := r.w.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      llm.BuildTracePrompt(string(viewJSON), string(eventsJSON)),
		Format:      llm.FormatText,
		Temperature: 0.1,
		Fallback:    traceFallback,
	})
	if err != nil {
		return outcome{}, err
	}
	rec.ReasoningSummary = traceResult.Text

	rec.AddReasoning("Finalized claim with summary and reasoning trace.")
	r.w.io.Notify("Summary ready.")
	return outcome{}, nil
}

// traceFallbackText builds the offline reasoning summary from the last
// filtered events.
func traceFallbackText(filtered []string) string {
	if len(filtered) == 0 {
		return "- Processed claim."
	}
	tail := filtered
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	var sb strings.Builder
	for i, event := range tail {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(event)
	}
	return sb.String()
}
