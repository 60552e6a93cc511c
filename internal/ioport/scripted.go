package ioport

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimflow/internal/model"
)

// maxScriptedAsks caps how many questions a scripted run will answer, so
// even adversarial scripting terminates.
const maxScriptedAsks = 20

// ScriptedIO answers questions from a pre-supplied ordered list. Once the
// list is exhausted it falls back to defaults: the sample document path
// for document prompts, an empty answer otherwise. It never suspends.
type ScriptedIO struct {
	answers    []string
	index      int
	askCount   int
	samplePath string
	events     []string
}

// NewScriptedIO creates a scripted handler. samplePath is the default
// answer for document-path prompts after the answer list runs out.
func NewScriptedIO(answers []string, samplePath string) *ScriptedIO {
	return &ScriptedIO{answers: answers, samplePath: samplePath}
}

// Ask returns the next scripted answer. ok is always true.
func (s *ScriptedIO) Ask(q model.Question) (string, bool) {
	s.askCount++
	s.events = append(s.events, "question: "+q.Text)

	if s.askCount > maxScriptedAsks {
		s.events = append(s.events, "answer: [stopped asking to prevent infinite loop]")
		return "", true
	}

	if s.index < len(s.answers) {
		answer := s.answers[s.index]
		s.index++
		if answer != "" {
			s.events = append(s.events, "answer: "+answer)
			return answer, true
		}
	}

	// Document path prompts get the configured sample document.
	lowered := strings.ToLower(q.Text)
	if s.samplePath != "" && (strings.Contains(lowered, "police report") || strings.Contains(lowered, "document")) {
		s.events = append(s.events, fmt.Sprintf("answer: %s [default]", s.samplePath))
		return s.samplePath, true
	}

	s.events = append(s.events, "answer: [no response provided]")
	return "", true
}

// Notify records the message in the transcript.
func (s *ScriptedIO) Notify(message string) {
	s.events = append(s.events, "info: "+message)
}

// Events returns the transcript of questions, answers, and notices.
func (s *ScriptedIO) Events() []string {
	return s.events
}
