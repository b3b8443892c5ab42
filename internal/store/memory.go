// Package store provides extraction-result persistence backends.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"finescan/internal/domain"
)

// MemoryStore is an in-memory port.ResultStore. Results are cloned on the way
// in and out so callers can never mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*domain.FieldExtractionResult
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[uuid.UUID]*domain.FieldExtractionResult),
	}
}

func (s *MemoryStore) Save(ctx context.Context, reportID uuid.UUID, result *domain.FieldExtractionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[reportID] = result.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, reportID uuid.UUID) (*domain.FieldExtractionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[reportID]
	if !ok {
		return nil, fmt.Errorf("result %s: %w", reportID, domain.ErrResultNotFound)
	}
	return result.Clone(), nil
}
