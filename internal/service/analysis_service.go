package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"finescan/internal/domain"
	"finescan/internal/pipeline"
	"finescan/internal/port"
	"finescan/internal/validator"
)

// AnalysisService runs the full document-analysis request: OCR, field
// extraction and handoff to the persistence collaborator.
type AnalysisService interface {
	AnalyzeDocument(ctx context.Context, reportID uuid.UUID, imageBytes []byte, contentType string) (*domain.FieldExtractionResult, error)
	ApplyCorrections(ctx context.Context, reportID uuid.UUID, overrides map[string]string) (*domain.FieldExtractionResult, error)
}

type analysisService struct {
	recognizer port.Recognizer
	pipeline   *pipeline.Orchestrator
	merger     *validator.Merger
	store      port.ResultStore
	timeout    time.Duration
}

// NewAnalysisService creates an AnalysisService. timeout bounds one whole
// pipeline invocation including the external model call.
func NewAnalysisService(
	recognizer port.Recognizer,
	orch *pipeline.Orchestrator,
	merger *validator.Merger,
	store port.ResultStore,
	timeout time.Duration,
) AnalysisService {
	return &analysisService{
		recognizer: recognizer,
		pipeline:   orch,
		merger:     merger,
		store:      store,
		timeout:    timeout,
	}
}

// AnalyzeDocument recognizes the scanned ticket and runs the extraction
// pipeline. OCR failure or empty recognized text is fatal to the whole
// request; a pipeline TotalFailureError is surfaced unchanged so the caller
// can mark the request as errored.
func (s *analysisService) AnalyzeDocument(ctx context.Context, reportID uuid.UUID, imageBytes []byte, contentType string) (*domain.FieldExtractionResult, error) {
	doc, err := s.recognizer.Recognize(ctx, imageBytes, contentType)
	if err != nil {
		return nil, fmt.Errorf("recognizing document: %w", err)
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("document %s: %w", reportID, domain.ErrEmptyRecognition)
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.pipeline.Run(runCtx, doc)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, reportID, result); err != nil {
		return nil, fmt.Errorf("saving extraction result: %w", err)
	}
	log.Printf("service.AnalysisService: document %s analyzed, completeness=%.0f%%", reportID, result.Summary.Completeness)
	return result, nil
}

// ApplyCorrections amends a previously stored result with user-supplied field
// overrides and persists the recomputed result.
func (s *analysisService) ApplyCorrections(ctx context.Context, reportID uuid.UUID, overrides map[string]string) (*domain.FieldExtractionResult, error) {
	prior, err := s.store.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("loading prior result: %w", err)
	}

	amended, err := s.merger.ApplyCorrections(prior, overrides)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, reportID, amended); err != nil {
		return nil, fmt.Errorf("saving corrected result: %w", err)
	}
	log.Printf("service.AnalysisService: document %s corrected (%d overrides), completeness=%.0f%%", reportID, len(overrides), amended.Summary.Completeness)
	return amended, nil
}
