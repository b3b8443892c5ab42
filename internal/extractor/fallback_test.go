package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finescan/internal/extractor"
	"finescan/internal/port"
	"finescan/mocks"
)

func TestFallbackClient_PrimarySucceeds(t *testing.T) {
	primary := new(mocks.MockModelClient)
	secondary := new(mocks.MockModelClient)
	primary.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{ModelUsed: "primary-model"}, nil)

	fc := extractor.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{"gemini", "openai"},
	)

	resp, err := fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "primary-model", resp.ModelUsed)
	secondary.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestFallbackClient_RateLimitFallsThrough(t *testing.T) {
	primary := new(mocks.MockModelClient)
	secondary := new(mocks.MockModelClient)
	primary.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 30))
	secondary.On("Extract", mock.Anything, mock.Anything).Return(&port.ModelResponse{ModelUsed: "secondary-model"}, nil)

	fc := extractor.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{"gemini", "openai"},
	)

	resp, err := fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "secondary-model", resp.ModelUsed)
}

func TestFallbackClient_OpenCircuitSkipsProvider(t *testing.T) {
	primary := new(mocks.MockModelClient)
	secondary := new(mocks.MockModelClient)
	primary.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 300)).Once()
	secondary.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ModelResponse{ModelUsed: "secondary-model"}, nil).Twice()

	fc := extractor.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{"gemini", "openai"},
	)

	_, err := fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	require.NoError(t, err)

	// Second call lands inside the primary's backoff window and must not
	// touch it again.
	_, err = fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	require.NoError(t, err)
	primary.AssertNumberOfCalls(t, "Extract", 1)
	secondary.AssertNumberOfCalls(t, "Extract", 2)
}

func TestFallbackClient_AllRateLimited(t *testing.T) {
	primary := new(mocks.MockModelClient)
	secondary := new(mocks.MockModelClient)
	primary.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 10))
	secondary.On("Extract", mock.Anything, mock.Anything).
		Return(nil, extractor.NewRateLimitError("openai", errors.New("429"), 20))

	fc := extractor.NewFallbackClient(
		[]port.ModelClient{primary, secondary},
		[]string{"gemini", "openai"},
	)

	resp, err := fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	assert.Nil(t, resp)

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackClient_NonRateLimitErrorWrapped(t *testing.T) {
	primary := new(mocks.MockModelClient)
	primary.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	fc := extractor.NewFallbackClient([]port.ModelClient{primary}, []string{"gemini"})

	_, err := fc.Extract(context.Background(), port.ModelRequest{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "all generation providers failed")
	assert.ErrorContains(t, err, "connection refused")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
}
