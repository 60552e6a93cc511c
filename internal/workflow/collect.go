package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/claimflow/internal/consistency"
	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
	"github.com/ppiankov/claimflow/internal/schema"
)

// parseBoolean interprets a yes/no style answer. ok is false when the
// answer is ambiguous.
func parseBoolean(answer string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y", "true", "t", "1":
		return true, true
	case "no", "n", "false", "f", "0":
		return false, true
	}
	return false, false
}

// collectBasicInfo asks for the highest-priority missing required fields.
// On the first attempt it asks up to the configured number of questions;
// any later attempt skips asking and fills the remaining gaps with typed
// defaults so the run can converge.
func (r *run) collectBasicInfo(ctx context.Context) (outcome, error) {
	rec := r.rec
	rec.CollectionAttempts++

	required := schema.RequiredFields(rec.ClaimType)
	missing := consistency.MissingFields(rec, required)

	if len(missing) == 0 {
		r.w.io.Notify("All required fields collected from user.")
		return outcome{}, nil
	}

	if rec.CollectionAttempts > 1 {
		r.w.io.Notify(fmt.Sprintf("Setting defaults for remaining fields (attempt %d)", rec.CollectionAttempts))
		for _, field := range missing {
			r.applyDefault(field, fmt.Sprintf("no answer after %d attempts", rec.CollectionAttempts))
		}
		return outcome{}, nil
	}

	toAsk := missing
	if cap := r.w.questionsPerAttempt(); len(toAsk) > cap {
		toAsk = toAsk[:cap]
	}

	questions, err := r.collectionQuestions(ctx, rec, required, toAsk)
	if err != nil {
		return outcome{}, err
	}

	for i, field := range toAsk {
		q := model.Question{Field: field, Text: questions[i]}
		answer, ok := r.w.io.Ask(q)
		if !ok {
			return outcome{await: &InputRequest{Questions: []model.Question{q}}}, nil
		}
		answer = strings.TrimSpace(answer)
		rec.AddMessage("assistant", q.Text)
		rec.AddMessage("user", answer)

		if answer == "" {
			r.applyDefault(field, "no answer")
			continue
		}

		var value any = answer
		switch field {
		case model.FieldOtherVehicle:
			if parsed, ok := parseBoolean(answer); ok {
				value = parsed
			} else {
				r.w.io.Notify("Could not parse yes/no answer, keeping as text.")
			}
		case model.FieldEstimatedDamageCost:
			if cost, err := strconv.ParseFloat(strings.ReplaceAll(answer, ",", ""), 64); err == nil {
				value = cost
			} else {
				r.w.io.Notify("Could not parse number, storing raw text.")
			}
		}
		rec.SetField(field, value, model.SourceUser)
		rec.AddReasoning(fmt.Sprintf("Collected %s from user.", field))
	}

	return outcome{}, nil
}

// collectionQuestions produces one question line per field to ask, from
// the generation collaborator when available, padded with deterministic
// fallbacks so every field has a question.
func (r *run) collectionQuestions(ctx context.Context, rec *model.ClaimRecord, required, toAsk []string) ([]string, error) {
	claimJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	requiredJSON, err := json.Marshal(required)
	if err != nil {
		return nil, fmt.Errorf("marshal required fields: %w", err)
	}

	fallbackLines := make([]string, len(toAsk))
	for i, field := range toAsk {
		fallbackLines[i] = fmt.Sprintf("Could you provide the %s?", strings.ReplaceAll(field, "_", " "))
	}

	result, err := r.w.client.Generate(ctx, llm.GenerateRequest{
		Prompt:      llm.BuildQuestionPrompt(string(claimJSON), string(requiredJSON)),
		Format:      llm.FormatText,
		Temperature: 0.2,
		Fallback:    strings.Join(fallbackLines, "\n"),
	})
	if err != nil {
		return nil, err
	}

	lines := nonEmptyLines(result.Text)
	for len(lines) < len(toAsk) {
		field := toAsk[len(lines)]
		lines = append(lines, fmt.Sprintf("Could you share the %s?", strings.ReplaceAll(field, "_", " ")))
	}
	return lines[:len(toAsk)], nil
}

// applyDefault fills an unanswered field with its typed default rather
// than re-asking.
func (r *run) applyDefault(field, why string) {
	rec := r.rec
	if field == model.FieldOtherVehicle {
		rec.SetField(field, false, model.SourceDefault)
		rec.AddReasoning(fmt.Sprintf("Set default for %s: false (%s)", field, why))
		return
	}
	if schema.Optional(field) {
		return
	}
	rec.SetField(field, "not provided", model.SourceDefault)
	rec.AddReasoning(fmt.Sprintf("Set placeholder for %s (%s)", field, why))
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
