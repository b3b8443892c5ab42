package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finescan/internal/detect"
	"finescan/internal/domain"
	"finescan/internal/extractor"
	"finescan/internal/pattern"
	"finescan/internal/pipeline"
	"finescan/internal/port"
	"finescan/internal/service"
	"finescan/internal/textnorm"
	"finescan/internal/validator"
	"finescan/mocks"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc        service.AnalysisService
	recognizer *mocks.MockRecognizer
	client     *mocks.MockModelClient
	store      *mocks.MockResultStore
}

func newFixture() *fixture {
	catalog := domain.NewCatalog()
	merger := validator.NewMerger(catalog, []string{domain.FieldPoints}, 0.6)
	recognizer := new(mocks.MockRecognizer)
	client := new(mocks.MockModelClient)
	store := new(mocks.MockResultStore)

	orch := pipeline.NewOrchestrator(
		textnorm.NewNormalizer(),
		detect.NewDetector(catalog, 2, 0.7),
		pipeline.NewDeterministic(catalog, pattern.NewExtractor()),
		extractor.NewStructured(client, catalog, 0.7, 0.3),
		merger,
	)
	return &fixture{
		svc:        service.NewAnalysisService(recognizer, orch, merger, store, 10*time.Second),
		recognizer: recognizer,
		client:     client,
		store:      store,
	}
}

func TestAnalyzeDocument(t *testing.T) {
	f := newFixture()
	reportID := uuid.New()
	image := []byte("fake-image-bytes")

	f.recognizer.On("Recognize", mock.Anything, image, "image/jpeg").Return(&domain.RecognizedDocument{
		Text: "מספר דוח 123456789\n4 נקודות",
	}, nil)
	f.client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields: map[string]*string{
			domain.FieldReportNumber: strPtr("123456789"),
			domain.FieldPoints:       strPtr("4"),
		},
		ConfidenceScores: map[string]float64{
			domain.FieldReportNumber: 0.95,
			domain.FieldPoints:       0.9,
		},
	}, nil)
	f.store.On("Save", mock.Anything, reportID, mock.AnythingOfType("*domain.FieldExtractionResult")).Return(nil)

	result, err := f.svc.AnalyzeDocument(context.Background(), reportID, image, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "123456789", result.Fields[domain.FieldReportNumber])
	f.store.AssertCalled(t, "Save", mock.Anything, reportID, result)
}

func TestAnalyzeDocument_RecognizerError(t *testing.T) {
	f := newFixture()
	f.recognizer.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("vision API unavailable"))

	result, err := f.svc.AnalyzeDocument(context.Background(), uuid.New(), []byte("img"), "image/png")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorContains(t, err, "recognizing document")
	f.client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeDocument_EmptyRecognition(t *testing.T) {
	f := newFixture()
	f.recognizer.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.RecognizedDocument{Text: "  \n \n"}, nil)

	result, err := f.svc.AnalyzeDocument(context.Background(), uuid.New(), []byte("img"), "image/png")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrEmptyRecognition)
	f.client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestAnalyzeDocument_PipelineFailurePropagates(t *testing.T) {
	f := newFixture()
	f.recognizer.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.RecognizedDocument{Text: "no hebrew labels here"}, nil)
	f.client.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	result, err := f.svc.AnalyzeDocument(context.Background(), uuid.New(), []byte("img"), "image/png")
	assert.Nil(t, result)
	var tfErr *pipeline.TotalFailureError
	assert.ErrorAs(t, err, &tfErr)
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeDocument_SaveError(t *testing.T) {
	f := newFixture()
	f.recognizer.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.RecognizedDocument{Text: "מספר דוח 123456789"}, nil)
	f.client.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{
		ExtractedFields:  map[string]*string{domain.FieldReportNumber: strPtr("123456789")},
		ConfidenceScores: map[string]float64{domain.FieldReportNumber: 0.95},
	}, nil)
	f.store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.AnalyzeDocument(context.Background(), uuid.New(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.ErrorContains(t, err, "saving extraction result")
}

func TestApplyCorrections(t *testing.T) {
	f := newFixture()
	reportID := uuid.New()

	prior := domain.NewFieldExtractionResult()
	prior.Fields[domain.FieldReportNumber] = "123456789"
	prior.Confidence[domain.FieldReportNumber] = 0.9

	f.store.On("Get", mock.Anything, reportID).Return(prior, nil)
	f.store.On("Save", mock.Anything, reportID, mock.AnythingOfType("*domain.FieldExtractionResult")).Return(nil)

	amended, err := f.svc.ApplyCorrections(context.Background(), reportID, map[string]string{
		domain.FieldFineAmount: "500",
	})
	require.NoError(t, err)
	assert.Equal(t, "500", amended.Fields[domain.FieldFineAmount])
	assert.Equal(t, 0.95, amended.Confidence[domain.FieldFineAmount])
	f.store.AssertCalled(t, "Save", mock.Anything, reportID, amended)
}

func TestApplyCorrections_NotFound(t *testing.T) {
	f := newFixture()
	reportID := uuid.New()
	f.store.On("Get", mock.Anything, reportID).Return(nil, domain.ErrResultNotFound)

	amended, err := f.svc.ApplyCorrections(context.Background(), reportID, map[string]string{
		domain.FieldFineAmount: "500",
	})
	assert.Nil(t, amended)
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestApplyCorrections_UnknownField(t *testing.T) {
	f := newFixture()
	reportID := uuid.New()
	f.store.On("Get", mock.Anything, reportID).Return(domain.NewFieldExtractionResult(), nil)

	_, err := f.svc.ApplyCorrections(context.Background(), reportID, map[string]string{
		"not_a_field": "x",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}
