// Package extractor produces a full structured field set via an external
// generative model, then re-validates everything the model returned.
package extractor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finescan/internal/domain"
	"finescan/internal/port"
)

// Structured is the model-assisted extraction tier. It issues exactly one
// call to the generation service per invocation and is all-or-nothing: any
// provider failure is returned to the caller for fallback handling.
type Structured struct {
	client         port.ModelClient
	catalog        *domain.Catalog
	modelWeight    float64
	detectorWeight float64
}

// NewStructured creates a Structured extractor. modelWeight and
// detectorWeight combine model and detector confidence per field.
func NewStructured(client port.ModelClient, catalog *domain.Catalog, modelWeight, detectorWeight float64) *Structured {
	return &Structured{
		client:         client,
		catalog:        catalog,
		modelWeight:    modelWeight,
		detectorWeight: detectorWeight,
	}
}

// Extract runs the model call and builds a validated FieldExtractionResult.
// The model's output is never trusted verbatim: values failing their field's
// shape rule are discarded with confidence forced to 0 and a note appended.
// Final per-field confidence is the model/detector blend scaled by the overall
// OCR confidence, so low upstream recognition quality depresses everything.
func (s *Structured) Extract(ctx context.Context, normalizedText string, hints map[string]domain.DetectedField, ocrConfidence float64) (*domain.FieldExtractionResult, error) {
	prompt := BuildTicketPrompt(s.catalog, normalizedText, hints, ocrConfidence)

	resp, err := s.client.Extract(ctx, port.ModelRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("structured extraction call: %w", err)
	}

	result := domain.NewFieldExtractionResult()
	result.ModelUsed = resp.ModelUsed
	result.Usage = resp.Usage
	result.Notes = append(result.Notes, resp.ProcessingNotes...)

	for _, def := range s.catalog.Fields() {
		raw, ok := resp.ExtractedFields[def.Name]
		if !ok || raw == nil {
			continue
		}
		value := strings.TrimSpace(*raw)
		if value == "" {
			continue
		}
		if !def.Validate(value) {
			result.Confidence[def.Name] = 0
			result.Notes = append(result.Notes, fmt.Sprintf("discarded %s: %q failed shape validation", def.Name, value))
			continue
		}

		modelConf := clamp01(resp.ConfidenceScores[def.Name])
		combined := modelConf
		if det, found := hints[def.Name]; found {
			combined = s.modelWeight*modelConf + s.detectorWeight*det.Confidence
		}
		result.Fields[def.Name] = value
		result.Confidence[def.Name] = clamp01(combined * ocrConfidence)
	}

	// The response contract forbids extra keys, but models add them anyway.
	var unknown []string
	for name := range resp.ExtractedFields {
		if s.catalog.Get(name) == nil {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		result.Notes = append(result.Notes, fmt.Sprintf("ignored unknown fields from model: %s", strings.Join(unknown, ", ")))
	}

	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
