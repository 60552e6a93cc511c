package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimflow/internal/consistency"
	"github.com/ppiankov/claimflow/internal/ioport"
	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
	"github.com/ppiankov/claimflow/internal/reconcile"
)

// inconsistency is one conflicting field with both sides' values.
type inconsistency struct {
	Field     string `json:"field"`
	UserValue string `json:"user_value"`
	DocValue  string `json:"doc_value"`
}

// clarifyInconsistencies produces one clarification question per current
// conflict. In batch mode all questions must be answerable at once or the
// node suspends with the full batch; in sequential mode only the first
// conflict is handled and the surrounding validate/clarify loop works
// through the rest. Conflicts are recomputed immediately after answers
// are applied.
func (r *run) clarifyInconsistencies(ctx context.Context) (outcome, error) {
	rec := r.rec

	var items []inconsistency
	for _, flag := range rec.ConsistencyFlags {
		field := consistency.ConflictField(flag)
		value, _ := rec.Field(field)
		items = append(items, inconsistency{
			Field:     field,
			UserValue: valueText(value),
			DocValue:  rec.DocExtractedFields[field],
		})
	}
	if len(items) == 0 {
		return outcome{}, nil
	}

	lines, err := r.clarificationQuestions(ctx, items)
	if err != nil {
		return outcome{}, err
	}

	questions := make([]model.Question, len(items))
	for i, item := range items {
		questions[i] = model.Question{
			Field:     item.Field,
			Text:      lines[i],
			Display:   lines[i],
			UserValue: item.UserValue,
			DocValue:  item.DocValue,
		}
	}

	if r.w.cfg.Batch && len(questions) > 1 {
		batch, ok := r.w.io.(ioport.BatchAsker)
		if !ok {
			return outcome{await: &InputRequest{Questions: questions}}, nil
		}
		answers, ready := batch.Answers(questions)
		if !ready {
			return outcome{await: &InputRequest{Questions: questions}}, nil
		}
		for _, q := range questions {
			r.applyClarification(q, answers[q.Text])
		}
	} else {
		q := questions[0]
		answer, ok := r.w.io.Ask(q)
		if !ok {
			return outcome{await: &InputRequest{Questions: []model.Question{q}}}, nil
		}
		r.applyClarification(q, strings.TrimSpace(answer))
	}

	// Refresh flags so the next validation pass reflects resolved state.
	rec.ConsistencyFlags = consistency.FindConflicts(rec, rec.DocExtractedFields)
	if len(rec.ConsistencyFlags) == 0 {
		rec.AddReasoning("All inconsistencies resolved after clarification.")
	}

	return outcome{}, nil
}

// clarificationQuestions produces one question line per conflict, padded
// with deterministic fallbacks when the model returns too few.
func (r *run) clarificationQuestions(ctx context.Context, items []inconsistency) ([]string, error) {
	claimJSON, err := json.MarshalIndent(r.rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal inconsistencies: %w", err)
	}

	fallbackLines := make([]string, len(items))
	for i, item := range items {
		fallbackLines[i] = fmt.Sprintf("You mentioned %s as %s, but the report lists %s. Which is correct?",
			item.Field, item.UserValue, item.DocValue)
	}

	result, err := r.w.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      llm.BuildClarifyPrompt(string(claimJSON), string(itemsJSON)),
		Format:      llm.FormatText,
		Temperature: 0.2,
		Fallback:    strings.Join(fallbackLines, "\n"),
	})
	if err != nil {
		return nil, err
	}

	lines := nonEmptyLines(result.Text)
	for len(lines) < len(items) {
		item := items[len(lines)]
		lines = append(lines, fmt.Sprintf(
			"Could you confirm the correct value for %s (you said %s, document shows %s)?",
			item.Field, item.UserValue, item.DocValue))
	}
	return lines[:len(items)], nil
}

// applyClarification normalizes one answer and stores the result with
// clarified provenance.
func (r *run) applyClarification(q model.Question, answer string) {
	rec := r.rec
	rec.AddMessage("assistant", q.DisplayText())
	rec.AddMessage("user", answer)

	if answer == "" {
		if q.DocValue != "" {
			rec.SetField(q.Field, q.DocValue, model.SourceClarified)
			rec.AddReasoning(fmt.Sprintf(
				"Clarified %s: no answer provided, using document value '%s'", q.Field, q.DocValue))
		}
		return
	}

	normalized := reconcile.NormalizeClarification(answer, q.DocValue, q.Field, r.w.io.Notify)
	rec.SetField(q.Field, normalized, model.SourceClarified)

	switch {
	case normalized == q.DocValue && reconcile.DefersToDocument(answer):
		rec.AddReasoning(fmt.Sprintf(
			"Clarified %s: user confirmed document's value '%s'", q.Field, normalized))
	case normalized == q.DocValue && normalized != answer:
		rec.AddReasoning(fmt.Sprintf(
			"Clarified %s: answer '%s' had invalid format, using document value '%s'",
			q.Field, answer, normalized))
	default:
		rec.AddReasoning(fmt.Sprintf("Clarified %s to '%s'", q.Field, normalized))
	}
}

func valueText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
