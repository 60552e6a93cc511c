// Package workflow orchestrates claim intake: collection, document
// processing, validation, clarification, and finalization.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/claimflow/internal/consistency"
	"github.com/ppiankov/claimflow/internal/docparse"
	"github.com/ppiankov/claimflow/internal/ioport"
	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
)

// Node names. validate_claim is the router; finalize_claim is terminal.
const (
	NodeCollectBasicInfo       = "collect_basic_info"
	NodeRequestDocuments       = "request_documents"
	NodeProcessDocuments       = "process_documents"
	NodeValidateClaim          = "validate_claim"
	NodeClarifyInconsistencies = "clarify_inconsistencies"
	NodeFinalizeClaim          = "finalize_claim"

	nodeEnd = "_end"
)

// ErrStepCeiling is returned when a run exceeds the hard node-execution
// ceiling. The four termination breakers should fire long before this;
// hitting it indicates a routing defect.
var ErrStepCeiling = errors.New("workflow: step ceiling exceeded")

// InputRequest is the structured "need input" condition a suspended run
// hands back to the caller. The caller renders the questions, collects
// answers into the IO handler, and re-invokes the workflow from the same
// initial inputs.
type InputRequest struct {
	Questions []model.Question
}

// outcome is the result of one node execution: continue, or suspend
// awaiting input.
type outcome struct {
	await *InputRequest
}

// DocumentParser maps a document reference to plain text.
type DocumentParser func(path string) (string, error)

// Workflow is the claim-intake state machine. It is configured once and
// can execute many runs; each run owns its record exclusively.
type Workflow struct {
	io       ioport.Asker
	client   *llm.Client
	parseDoc DocumentParser
	cfg      model.WorkflowConfig
	docs     model.DocumentsConfig
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithDocumentParser replaces the default document-text collaborator.
func WithDocumentParser(p DocumentParser) Option {
	return func(w *Workflow) { w.parseDoc = p }
}

// New creates a workflow around the given IO handler and generation
// client.
func New(io ioport.Asker, client *llm.Client, cfg *model.Config, opts ...Option) *Workflow {
	w := &Workflow{
		io:       io,
		client:   client,
		parseDoc: docparse.Parse,
		cfg:      cfg.Workflow,
		docs:     cfg.Documents,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// run carries per-invocation state alongside the record.
type run struct {
	w         *Workflow
	rec       *model.ClaimRecord
	stale     bool            // completeness unchanged on the last validation pass
	processed map[string]bool // documents already handled this run
}

// Run executes the state machine until it finalizes or suspends. When the
// returned InputRequest is non-nil the run is suspended: the caller must
// supply the requested answers and re-invoke Run with the same initial
// inputs. The record is mutated in place and also returned.
func (w *Workflow) Run(ctx context.Context, rec *model.ClaimRecord) (*model.ClaimRecord, *InputRequest, error) {
	r := &run{w: w, rec: rec, processed: make(map[string]bool)}

	if starter, ok := w.io.(ioport.RunStarter); ok {
		starter.BeginRun()
	}

	maxSteps := w.cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 100
	}

	node := NodeCollectBasicInfo
	for steps := 0; node != nodeEnd; steps++ {
		if steps >= maxSteps {
			return rec, nil, fmt.Errorf("%w: %d node executions", ErrStepCeiling, steps)
		}
		if err := ctx.Err(); err != nil {
			return rec, nil, err
		}

		out, err := r.exec(ctx, node)
		if err != nil {
			return rec, nil, fmt.Errorf("node %s: %w", node, err)
		}
		if out.await != nil {
			return rec, out.await, nil
		}

		node = r.route(node)
	}

	return rec, nil, nil
}

func (r *run) exec(ctx context.Context, node string) (outcome, error) {
	switch node {
	case NodeCollectBasicInfo:
		return r.collectBasicInfo(ctx)
	case NodeRequestDocuments:
		return r.requestDocuments()
	case NodeProcessDocuments:
		return r.processDocuments(ctx)
	case NodeValidateClaim:
		return r.validateClaim()
	case NodeClarifyInconsistencies:
		return r.clarifyInconsistencies(ctx)
	case NodeFinalizeClaim:
		return r.finalizeClaim(ctx)
	default:
		return outcome{}, fmt.Errorf("unknown node %q", node)
	}
}

// route picks the next node. All edges are static except the two
// conditional ones: after collection (documents may already be queued)
// and after validation (the four-breaker router).
func (r *run) route(from string) string {
	switch from {
	case NodeCollectBasicInfo:
		if len(r.rec.Documents) > 0 || !r.w.docs.Prompt {
			if len(r.rec.Documents) == 0 {
				r.rec.AddReasoning("No document uploaded, skipping document request.")
			}
			return NodeProcessDocuments
		}
		return NodeRequestDocuments
	case NodeRequestDocuments:
		return NodeProcessDocuments
	case NodeProcessDocuments:
		return NodeValidateClaim
	case NodeValidateClaim:
		return r.routeValidation()
	case NodeClarifyInconsistencies:
		return NodeValidateClaim
	case NodeFinalizeClaim:
		return nodeEnd
	}
	return nodeEnd
}

// routeValidation decides where validation proceeds. The four termination
// breakers are ordered by priority; the later conditions alone could loop
// indefinitely on a record stuck at moderate completeness.
func (r *run) routeValidation() string {
	rec := r.rec

	// Complete and consistent: done.
	if rec.CompletenessScore >= 1.0 && len(rec.ConsistencyFlags) == 0 {
		rec.AddReasoning("Claim is complete and consistent; proceeding to finalization.")
		return NodeFinalizeClaim
	}

	// Circuit breaker on validation passes.
	if rec.ValidationCycles >= r.w.maxValidationCycles() {
		rec.AddReasoning(fmt.Sprintf(
			"Reached maximum validation cycles (%d); finalizing with current state.",
			rec.ValidationCycles))
		return NodeFinalizeClaim
	}

	// Stale-progress breaker.
	if rec.ValidationCycles > 1 && r.stale && rec.CompletenessScore >= r.w.acceptableCompleteness() {
		rec.AddReasoning(fmt.Sprintf(
			"No progress detected after %d cycles; finalizing with completeness %.0f%%.",
			rec.ValidationCycles, rec.CompletenessScore*100))
		return NodeFinalizeClaim
	}

	// Attempt-budget breaker.
	if rec.CollectionAttempts >= 2 && rec.CompletenessScore >= r.w.acceptableCompleteness() {
		rec.AddReasoning(fmt.Sprintf(
			"After %d collection attempts, completeness %.0f%% is acceptable; finalizing.",
			rec.CollectionAttempts, rec.CompletenessScore*100))
		return NodeFinalizeClaim
	}

	if rec.CompletenessScore < 1.0 {
		return NodeCollectBasicInfo
	}
	if len(rec.ConsistencyFlags) > 0 {
		return NodeClarifyInconsistencies
	}
	return NodeFinalizeClaim
}

func (w *Workflow) maxValidationCycles() int {
	if w.cfg.MaxValidationCycles > 0 {
		return w.cfg.MaxValidationCycles
	}
	return 3
}

func (w *Workflow) acceptableCompleteness() float64 {
	if w.cfg.AcceptableCompleteness > 0 {
		return w.cfg.AcceptableCompleteness
	}
	return 0.8
}

func (w *Workflow) questionsPerAttempt() int {
	if w.cfg.QuestionsPerAttempt > 0 {
		return w.cfg.QuestionsPerAttempt
	}
	return 3
}

// ApplyInitialAnswers seeds a record with caller-supplied values. Empty
// and placeholder values are dropped, string yes/no answers for the
// involvement flag are parsed, and everything stored is tagged with user
// provenance.
func ApplyInitialAnswers(rec *model.ClaimRecord, answers map[string]any) {
	for field, value := range answers {
		if !model.KnownField(field) {
			continue
		}
		if consistency.Empty(value) {
			continue
		}
		if field == model.FieldOtherVehicle {
			if s, ok := value.(string); ok {
				if parsed, ok := parseBoolean(s); ok {
					value = parsed
				}
			}
		}
		rec.SetField(field, value, model.SourceUser)
	}
}
