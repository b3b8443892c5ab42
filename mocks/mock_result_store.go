package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"finescan/internal/domain"
)

// MockResultStore is a mock implementation of port.ResultStore.
type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Save(ctx context.Context, reportID uuid.UUID, result *domain.FieldExtractionResult) error {
	args := m.Called(ctx, reportID, result)
	return args.Error(0)
}

func (m *MockResultStore) Get(ctx context.Context, reportID uuid.UUID) (*domain.FieldExtractionResult, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldExtractionResult), args.Error(1)
}
