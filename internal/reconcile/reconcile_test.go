package reconcile

import (
	"strings"
	"testing"

	"github.com/ppiankov/claimflow/internal/model"
)

func TestValidAnswerFormat_Date(t *testing.T) {
	valid := []string{"2024-05-19", "19/05/2024", "2024/05/19", "19-05-2024"}
	for _, answer := range valid {
		if !ValidAnswerFormat(answer, model.FieldDate) {
			t.Errorf("Expected %q to be a valid date", answer)
		}
	}

	invalid := []string{"tomorrow", "18:45", "last Tuesday", "", "2024"}
	for _, answer := range invalid {
		if ValidAnswerFormat(answer, model.FieldDate) {
			t.Errorf("Expected %q to be rejected as a date", answer)
		}
	}
}

func TestValidAnswerFormat_Time(t *testing.T) {
	valid := []string{"18:45", "8:05", "18:45:30"}
	for _, answer := range valid {
		if !ValidAnswerFormat(answer, model.FieldTime) {
			t.Errorf("Expected %q to be a valid time", answer)
		}
	}

	invalid := []string{"evening", "2024-05-19", ""}
	for _, answer := range invalid {
		if ValidAnswerFormat(answer, model.FieldTime) {
			t.Errorf("Expected %q to be rejected as a time", answer)
		}
	}
}

func TestNormalizeClarification_EmptyAnswerUsesDocValue(t *testing.T) {
	got := NormalizeClarification("", "2024-05-19", model.FieldDate, nil)
	if got != "2024-05-19" {
		t.Errorf("Expected document value, got %q", got)
	}

	// No document value either: keep the empty answer.
	if got := NormalizeClarification("", "", model.FieldDate, nil); got != "" {
		t.Errorf("Expected empty answer kept, got %q", got)
	}
}

func TestNormalizeClarification_DeferralPhrases(t *testing.T) {
	for _, answer := range []string{"the report", "use the document", "report one", "from report"} {
		got := NormalizeClarification(answer, "2024-05-19", model.FieldDate, nil)
		if got != "2024-05-19" {
			t.Errorf("Answer %q: expected deferral to document value, got %q", answer, got)
		}
	}
}

func TestNormalizeClarification_InvalidDateFallsBackToDocValue(t *testing.T) {
	var notices []string
	notify := func(msg string) { notices = append(notices, msg) }

	got := NormalizeClarification("tomorrow", "2024-05-19", model.FieldDate, notify)
	if got != "2024-05-19" {
		t.Errorf("Expected format fallback to document value, got %q", got)
	}
	if len(notices) != 1 || !strings.Contains(notices[0], "doesn't match expected format") {
		t.Errorf("Expected a format notice, got %v", notices)
	}
}

func TestNormalizeClarification_ValidAnswerUsedAsIs(t *testing.T) {
	got := NormalizeClarification("2024-05-20", "2024-05-19", model.FieldDate, nil)
	if got != "2024-05-20" {
		t.Errorf("Expected answer kept, got %q", got)
	}

	// Free-text fields accept anything non-empty.
	got = NormalizeClarification("severe whiplash", "minor", model.FieldInjuries, nil)
	if got != "severe whiplash" {
		t.Errorf("Expected answer kept, got %q", got)
	}
}
