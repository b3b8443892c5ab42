package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finescan/internal/domain"
	"finescan/internal/extractor"
	"finescan/internal/port"
	"finescan/mocks"
)

func strPtr(s string) *string { return &s }

func newStructured(client port.ModelClient) *extractor.Structured {
	return extractor.NewStructured(client, domain.NewCatalog(), 0.7, 0.3)
}

func TestStructured_ConfidenceComposition(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields: map[string]*string{
			domain.FieldReportNumber: strPtr("123456789"),
			domain.FieldFineAmount:   strPtr("250"),
		},
		ConfidenceScores: map[string]float64{
			domain.FieldReportNumber: 0.9,
			domain.FieldFineAmount:   0.8,
		},
		ModelUsed: "gemini-2.0-flash",
	}, nil)

	hints := map[string]domain.DetectedField{
		domain.FieldReportNumber: {Field: domain.FieldReportNumber, Confidence: 0.95},
	}
	result, err := s.Extract(context.Background(), "text", hints, 0.8)
	require.NoError(t, err)

	// Detector-backed field: (0.7*0.9 + 0.3*0.95) * 0.8
	assert.InDelta(t, 0.732, result.Confidence[domain.FieldReportNumber], 1e-9)
	// No detection available: model confidence scaled by OCR confidence only.
	assert.InDelta(t, 0.64, result.Confidence[domain.FieldFineAmount], 1e-9)
	assert.Equal(t, "gemini-2.0-flash", result.ModelUsed)
}

func TestStructured_DiscardsShapeFailures(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields: map[string]*string{
			domain.FieldFineAmount:   strPtr("abc"),
			domain.FieldReportNumber: strPtr("123456789"),
		},
		ConfidenceScores: map[string]float64{
			domain.FieldFineAmount:   0.9,
			domain.FieldReportNumber: 0.9,
		},
	}, nil)

	result, err := s.Extract(context.Background(), "text", nil, 1.0)
	require.NoError(t, err)

	_, present := result.Fields[domain.FieldFineAmount]
	assert.False(t, present)
	assert.Equal(t, 0.0, result.Confidence[domain.FieldFineAmount])
	assert.Contains(t, result.Fields, domain.FieldReportNumber)

	found := false
	for _, note := range result.Notes {
		if note == `discarded fine_amount: "abc" failed shape validation` {
			found = true
		}
	}
	assert.True(t, found, "expected a discard note, got %v", result.Notes)
}

func TestStructured_NullFieldsAbsent(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields: map[string]*string{
			domain.FieldReportNumber: nil,
			domain.FieldDriverName:   strPtr("  "),
		},
		ConfidenceScores: map[string]float64{},
	}, nil)

	result, err := s.Extract(context.Background(), "text", nil, 1.0)
	require.NoError(t, err)
	assert.Empty(t, result.Fields)
}

func TestStructured_NotesUnknownModelFields(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields: map[string]*string{
			"court_date": strPtr("01/01/2026"),
		},
		ConfidenceScores: map[string]float64{"court_date": 0.9},
	}, nil)

	result, err := s.Extract(context.Background(), "text", nil, 1.0)
	require.NoError(t, err)
	assert.NotContains(t, result.Fields, "court_date")
	assert.Contains(t, result.Notes, "ignored unknown fields from model: court_date")
}

func TestStructured_ClientErrorPropagates(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	client.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	result, err := s.Extract(context.Background(), "text", nil, 1.0)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "structured extraction call")
}

func TestStructured_PromptCarriesDocumentAndHints(t *testing.T) {
	client := new(mocks.MockModelClient)
	s := newStructured(client)

	var captured port.ModelRequest
	client.On("Extract", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(port.ModelRequest)
	}).Return(&port.ModelResponse{}, nil)

	hints := map[string]domain.DetectedField{
		domain.FieldPoints: {Field: domain.FieldPoints, LineIndex: 3},
	}
	_, err := s.Extract(context.Background(), "מספר דוח 123456789", hints, 0.9)
	require.NoError(t, err)
	assert.Contains(t, captured.Prompt, "מספר דוח 123456789")
	assert.Contains(t, captured.Prompt, "points: line 4")
	assert.Contains(t, captured.Prompt, `"report_number"`)
}
