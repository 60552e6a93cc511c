package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
)

// requestDocuments asks for a document reference once. A no-op when the
// record already has documents queued; a blank answer resolves to the
// configured sample document.
func (r *run) requestDocuments() (outcome, error) {
	rec := r.rec
	if len(rec.Documents) > 0 {
		r.w.io.Notify("Documents already on file, skipping request.")
		return outcome{}, nil
	}

	q := model.Question{
		Text: fmt.Sprintf("Enter path to police report (blank to use %s):", r.w.docs.SamplePath),
	}
	answer, ok := r.w.io.Ask(q)
	if !ok {
		return outcome{await: &InputRequest{Questions: []model.Question{q}}}, nil
	}
	rec.AddMessage("assistant", q.Text)

	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = r.w.docs.SamplePath
	}
	rec.Documents = []string{answer}
	rec.AddReasoning("Document queued for processing: " + answer)
	return outcome{}, nil
}

// processDocuments extracts fields from every queued document not yet
// handled this run. Extracted values only fill fields that are still
// empty; document data never overwrites user-entered data directly, and
// disagreements surface later as consistency flags. Parse failures are
// logged and skipped per-document.
func (r *run) processDocuments(ctx context.Context) (outcome, error) {
	rec := r.rec

	if len(rec.Documents) == 0 {
		r.w.io.Notify("No documents provided; skipping document processing.")
		rec.AddReasoning("No documents provided; document processing skipped.")
		return outcome{}, nil
	}

	for _, docPath := range rec.Documents {
		if r.processed[docPath] {
			continue
		}
		r.processed[docPath] = true

		text, err := r.w.parseDoc(docPath)
		if err != nil {
			r.w.io.Notify(fmt.Sprintf("Failed to parse %s: %v", docPath, err))
			rec.AddReasoning(fmt.Sprintf("Failed to parse %s: %v", docPath, err))
			continue
		}

		r.w.io.Notify(fmt.Sprintf("Parsed %s, extracting fields.", docPath))
		result, err := r.w.client.Generate(ctx, llm.GenerateRequest{
			Prompt: llm.BuildExtractionPrompt(text, rec.ClaimType, r.w.docs.MaxTextBytes),
			Format: llm.FormatJSON,
			Source: text,
		})
		if err != nil {
			return outcome{}, fmt.Errorf("extract fields from %s: %w", docPath, err)
		}

		if result.Degraded {
			r.w.io.Notify("LLM JSON extraction failed; using rule-based fallback extractor.")
			rec.AddReasoning(fmt.Sprintf("Extracted fields from %s using rule-based fallback (%s)", docPath, result.Reason))
		} else {
			rec.AddReasoning(fmt.Sprintf("Extracted fields from %s via LLM", docPath))
		}

		r.mergeExtracted(result.Fields)
	}
	return outcome{}, nil
}

// mergeExtracted folds extracted values into the record. Raw extracted
// values accumulate in DocExtractedFields without overwriting earlier
// documents; record fields are only filled where still empty.
func (r *run) mergeExtracted(fields map[string]string) {
	rec := r.rec
	for field, value := range fields {
		if value == "" || value == "null" || !model.KnownField(field) {
			continue
		}
		if _, seen := rec.DocExtractedFields[field]; !seen {
			rec.DocExtractedFields[field] = value
		}
		if current, _ := rec.Field(field); current == nil {
			rec.SetField(field, value, model.SourceDocument)
		}
	}
}
