package port

import (
	"context"

	"github.com/google/uuid"

	"finescan/internal/domain"
)

// ResultStore is the persistence collaborator. It receives final extraction
// results keyed by an opaque report identifier and has no influence on
// extraction logic.
type ResultStore interface {
	Save(ctx context.Context, reportID uuid.UUID, result *domain.FieldExtractionResult) error
	Get(ctx context.Context, reportID uuid.UUID) (*domain.FieldExtractionResult, error)
}
