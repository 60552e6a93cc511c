package ioport

import (
	"strings"
	"testing"

	"github.com/ppiankov/claimflow/internal/model"
)

func TestScriptedIO_AnswersInOrder(t *testing.T) {
	io := NewScriptedIO([]string{"2024-05-18", "14:30"}, "")

	if answer, _ := io.Ask(model.Question{Text: "What date was the incident?"}); answer != "2024-05-18" {
		t.Errorf("Expected first scripted answer, got %q", answer)
	}
	if answer, _ := io.Ask(model.Question{Text: "What time was the incident?"}); answer != "14:30" {
		t.Errorf("Expected second scripted answer, got %q", answer)
	}
	if answer, _ := io.Ask(model.Question{Text: "Any injuries?"}); answer != "" {
		t.Errorf("Expected empty answer after exhaustion, got %q", answer)
	}
}

func TestScriptedIO_DocumentPromptDefault(t *testing.T) {
	io := NewScriptedIO(nil, "sample_data/police_report_example.txt")

	answer, ok := io.Ask(model.Question{Text: "Enter path to police report (blank to use sample):"})
	if !ok {
		t.Fatal("ScriptedIO should never suspend")
	}
	if answer != "sample_data/police_report_example.txt" {
		t.Errorf("Expected sample path default, got %q", answer)
	}

	// Non-document prompts stay blank after the script runs out.
	if answer, _ := io.Ask(model.Question{Text: "Any injuries?"}); answer != "" {
		t.Errorf("Expected blank default, got %q", answer)
	}
}

func TestScriptedIO_AskCap(t *testing.T) {
	answers := make([]string, 30)
	for i := range answers {
		answers[i] = "yes"
	}
	io := NewScriptedIO(answers, "sample.txt")

	for i := 0; i < maxScriptedAsks; i++ {
		if answer, _ := io.Ask(model.Question{Text: "Enter path to police report:"}); answer == "" {
			t.Fatalf("Ask %d should still answer from the script", i+1)
		}
	}

	answer, ok := io.Ask(model.Question{Text: "Enter path to police report:"})
	if !ok {
		t.Fatal("ScriptedIO should never suspend")
	}
	if answer != "" {
		t.Errorf("Expected blank answer past the ask cap, got %q", answer)
	}
}

func TestScriptedIO_Transcript(t *testing.T) {
	io := NewScriptedIO([]string{"Zurich"}, "")
	io.Ask(model.Question{Text: "Where did the accident happen?"})
	io.Notify("Collected location from user.")

	events := io.Events()
	if len(events) != 3 {
		t.Fatalf("Expected 3 transcript events, got %d: %v", len(events), events)
	}
	if !strings.HasPrefix(events[0], "question: ") || !strings.HasPrefix(events[1], "answer: ") || !strings.HasPrefix(events[2], "info: ") {
		t.Errorf("Unexpected transcript shape: %v", events)
	}
}
