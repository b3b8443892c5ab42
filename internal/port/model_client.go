package port

import (
	"context"

	"finescan/internal/domain"
)

// ModelRequest carries the prompt context for one structured-generation call.
type ModelRequest struct {
	Prompt string
}

// ModelResponse is the raw structured output of the generation service.
// Values are pointers so the model can report null for fields it did not find.
type ModelResponse struct {
	ExtractedFields  map[string]*string
	ConfidenceScores map[string]float64
	ProcessingNotes  []string
	ModelUsed        string
	Usage            domain.ModelUsage
}

// ModelClient abstracts the external structured-generation service.
// Implementations must be safe for concurrent use. Malformed output is a
// fatal error for that attempt; there is no partial success.
type ModelClient interface {
	Extract(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}
