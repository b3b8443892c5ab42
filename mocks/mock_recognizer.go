package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"finescan/internal/domain"
)

// MockRecognizer is a mock implementation of port.Recognizer.
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, imageBytes []byte, contentType string) (*domain.RecognizedDocument, error) {
	args := m.Called(ctx, imageBytes, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecognizedDocument), args.Error(1)
}
