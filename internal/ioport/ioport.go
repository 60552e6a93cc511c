// Package ioport is the boundary between the workflow and whoever answers
// its questions.
package ioport

import "github.com/ppiankov/claimflow/internal/model"

// Asker is the capability set workflow nodes use to reach the claimant.
// Ask returns ok=false when no answer is available right now; the node
// then suspends and the caller re-invokes the workflow once the answer
// has been supplied. Notify is fire-and-forget.
type Asker interface {
	Ask(q model.Question) (answer string, ok bool)
	Notify(message string)
}

// BatchAsker is implemented by handlers that can resolve a batch of
// questions in one shot. Answers returns ok=false until every question in
// the batch has an answer.
type BatchAsker interface {
	Asker
	Answers(questions []model.Question) (map[string]string, bool)
}

// RunStarter is implemented by handlers that keep per-run bookkeeping.
// The workflow calls BeginRun once at the start of every invocation, so
// answers given before a resume replay instead of being re-asked.
type RunStarter interface {
	BeginRun()
}
