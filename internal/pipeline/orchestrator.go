// Package pipeline drives the tiered field-extraction state machine.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"finescan/internal/detect"
	"finescan/internal/domain"
	"finescan/internal/extractor"
	"finescan/internal/textnorm"
	"finescan/internal/validator"
)

// State names a phase of one pipeline invocation.
type State string

const (
	StateNormalizing           State = "normalizing"
	StateModelAssisted         State = "model_assisted"
	StateAccepted              State = "accepted"
	StateFallbackDeterministic State = "fallback_deterministic"
	StateMerging               State = "merging"
	StateDone                  State = "done"
	StateFailed                State = "failed"
)

// TotalFailureError reports that both the model-assisted and deterministic
// passes produced nothing. No partial result accompanies it.
type TotalFailureError struct {
	ModelErr         error
	DeterministicErr error
}

func (e *TotalFailureError) Error() string {
	return fmt.Sprintf("extraction pipeline failed: model-assisted: %v; deterministic: %v", e.ModelErr, e.DeterministicErr)
}

func (e *TotalFailureError) Unwrap() []error {
	return []error{e.ModelErr, e.DeterministicErr}
}

// Orchestrator composes the extraction tiers. It is stateless across
// invocations and safe for concurrent use; the external model call is the
// only suspension point and is bounded by the caller's context.
type Orchestrator struct {
	normalizer    *textnorm.Normalizer
	detector      *detect.Detector
	deterministic *Deterministic
	structured    *extractor.Structured
	merger        *validator.Merger
}

// NewOrchestrator creates an Orchestrator over the given tiers.
func NewOrchestrator(
	normalizer *textnorm.Normalizer,
	detector *detect.Detector,
	deterministic *Deterministic,
	structured *extractor.Structured,
	merger *validator.Merger,
) *Orchestrator {
	return &Orchestrator{
		normalizer:    normalizer,
		detector:      detector,
		deterministic: deterministic,
		structured:    structured,
		merger:        merger,
	}
}

// Run executes one pipeline invocation:
//
//	Normalizing -> ModelAssisted -> {Accepted | FallbackDeterministic} -> Merging -> Done
//
// with Failed reachable only when the model-assisted pass raises AND the
// deterministic pass finds nothing. There are no internal retries; the model
// is called at most once per invocation.
func (o *Orchestrator) Run(ctx context.Context, doc *domain.RecognizedDocument) (*domain.FieldExtractionResult, error) {
	state := StateNormalizing
	normalized := o.normalizer.Normalize(doc.Text)
	lines := o.normalizer.Lines(doc.Text)
	ocrConfidence := doc.OverallConfidence()
	detected := o.detector.Detect(lines)

	state = StateModelAssisted
	primary, modelErr := o.structured.Extract(ctx, normalized, detected, ocrConfidence)
	if modelErr != nil {
		log.Printf("pipeline.Orchestrator: model-assisted pass failed, falling back: %v", modelErr)
		state = StateFallbackDeterministic
		det := o.deterministic.Extract(lines, detected)
		if len(det.Fields) == 0 {
			state = StateFailed
			log.Printf("pipeline.Orchestrator: state=%s (deterministic pass found nothing)", state)
			return nil, &TotalFailureError{ModelErr: modelErr, DeterministicErr: domain.ErrNoExtractableFields}
		}
		det.Notes = append(det.Notes, "model-assisted extraction unavailable, deterministic result only")
		state = StateMerging
		merged := o.merger.Merge(det, nil)
		state = StateDone
		log.Printf("pipeline.Orchestrator: state=%s via deterministic fallback, completeness=%.0f%%", state, merged.Summary.Completeness)
		return merged, nil
	}

	var secondary *domain.FieldExtractionResult
	if missing := o.merger.MissingWatchList(primary); len(missing) == 0 {
		// Every watch-list field came back from the model; skip the
		// deterministic branch entirely.
		state = StateAccepted
	} else {
		log.Printf("pipeline.Orchestrator: model result missing watch-list fields %v, running deterministic gap-fill", missing)
		state = StateFallbackDeterministic
		secondary = o.deterministic.Extract(lines, detected)
	}

	state = StateMerging
	merged := o.merger.Merge(primary, secondary)
	state = StateDone
	log.Printf("pipeline.Orchestrator: state=%s, completeness=%.0f%%, valid=%t", state, merged.Summary.Completeness, merged.Summary.Valid)
	return merged, nil
}
