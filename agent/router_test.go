package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator implements TextGenerator for tests.
type fakeGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	calls        int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, prompt)
	}
	return "", errors.New("no generate func configured")
}

func TestRouteFlightNumberSkipsClassifier(t *testing.T) {
	llm := &fakeGenerator{}
	router := NewInquiryRouter(llm)

	queries := []string{
		"What's the status of AA123?",
		"is ua4 delayed",
		"Track DL1234 please",
	}
	for _, q := range queries {
		route, err := router.Route(context.Background(), q)
		require.NoError(t, err, "query %q", q)
		assert.Equal(t, RouteStatus, route, "query %q", q)
	}
	assert.Equal(t, 0, llm.calls, "classification model must not be invoked for flight-number queries")
}

func TestRouteClassifierLabels(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   Route
	}{
		{"analytics label", "flight_analytics", RouteAnalytics},
		{"status label", "flight_status", RouteStatus},
		{"label needs trimming and lowering", "  Flight_Analytics \n", RouteAnalytics},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeGenerator{
				GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
					assert.Contains(t, prompt, "Classify query:")
					return tt.answer, nil
				},
			}
			router := NewInquiryRouter(llm)

			route, err := router.Route(context.Background(), "which airlines are most punctual?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, route)
			assert.Equal(t, 1, llm.calls)
		})
	}
}

func TestRouteRejectsUnknownLabel(t *testing.T) {
	llm := &fakeGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "weather_report", nil
		},
	}
	router := NewInquiryRouter(llm)

	_, err := router.Route(context.Background(), "will it rain tomorrow?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedIntent)
}

func TestRouteClassifierFailure(t *testing.T) {
	llm := &fakeGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	router := NewInquiryRouter(llm)

	_, err := router.Route(context.Background(), "which airlines are most punctual?")
	assert.Error(t, err)
}
