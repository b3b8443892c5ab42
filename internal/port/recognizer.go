package port

import (
	"context"

	"finescan/internal/domain"
)

// Recognizer abstracts the external OCR engine. A failure is fatal to the
// whole document-analysis request, not just the extraction pipeline.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte, contentType string) (*domain.RecognizedDocument, error)
}
