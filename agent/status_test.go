package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/aviationstack"
)

// fakeProvider implements StatusProvider for tests.
type fakeProvider struct {
	LookupFunc func(ctx context.Context, flightIATA string) (*aviationstack.Flight, error)
	calls      int
}

func (f *fakeProvider) Lookup(ctx context.Context, flightIATA string) (*aviationstack.Flight, error) {
	f.calls++
	if f.LookupFunc != nil {
		return f.LookupFunc(ctx, flightIATA)
	}
	return nil, errors.New("no lookup func configured")
}

func activeFlight() *aviationstack.Flight {
	delay := 0
	return &aviationstack.Flight{
		FlightStatus: "active",
		Airline:      aviationstack.Airline{Name: "American Airlines", IATA: "AA"},
		Departure: aviationstack.Endpoint{
			Airport:   "John F Kennedy International",
			IATA:      "JFK",
			Terminal:  "8",
			Gate:      "B22",
			Delay:     &delay,
			Scheduled: "2026-08-29T14:30:00+00:00",
			Actual:    "2026-08-29T14:32:00+00:00",
		},
		Arrival: aviationstack.Endpoint{
			Airport:   "Los Angeles International",
			IATA:      "LAX",
			Scheduled: "2026-08-29T17:45:00+00:00",
			Estimated: "2026-08-29T17:40:00+00:00",
		},
	}
}

func TestStatusHandleNoFlightNumber(t *testing.T) {
	a := NewFlightStatusAgent(&fakeProvider{}, &fakeGenerator{})

	resp := a.Handle(context.Background(), "what's my flight doing", UserContext{})
	assert.Equal(t, CodeInvalidInput, resp.Code)
	assert.NotEmpty(t, resp.Suggestion)
}

func TestStatusHandleProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"not found", aviationstack.ErrNotFound, CodeNotFound},
		{"timeout", aviationstack.ErrTimeout, CodeTimeout},
		{"network", aviationstack.ErrNetwork, CodeNetworkError},
		{"other", errors.New("boom"), CodeSystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{
				LookupFunc: func(ctx context.Context, flightIATA string) (*aviationstack.Flight, error) {
					return nil, tt.err
				},
			}
			a := NewFlightStatusAgent(provider, &fakeGenerator{})

			resp := a.Handle(context.Background(), "What's the status of AA123?", UserContext{})
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestStatusHandleActiveFlight(t *testing.T) {
	provider := &fakeProvider{
		LookupFunc: func(ctx context.Context, flightIATA string) (*aviationstack.Flight, error) {
			assert.Equal(t, "AA123", flightIATA)
			return activeFlight(), nil
		},
	}
	var summarized string
	llm := &fakeGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			summarized = prompt
			return "AA123 is in the air and on time.", nil
		},
	}
	a := NewFlightStatusAgent(provider, llm)

	resp := a.Handle(context.Background(), "What's the status of AA123?", UserContext{})
	require.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "AA123 is in the air and on time.", resp.Data)

	assert.Contains(t, summarized, "Status: Active")
	assert.Contains(t, summarized, "Flight Status Report for AA123 (American Airlines)")
	assert.Contains(t, summarized, "JFK")
	assert.Contains(t, summarized, "LAX")
	assert.Contains(t, summarized, "On time")
}

func TestStatusHandleSummarizerFailure(t *testing.T) {
	provider := &fakeProvider{
		LookupFunc: func(ctx context.Context, flightIATA string) (*aviationstack.Flight, error) {
			return activeFlight(), nil
		},
	}
	llm := &fakeGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	a := NewFlightStatusAgent(provider, llm)

	resp := a.Handle(context.Background(), "status of AA123", UserContext{})
	assert.Equal(t, CodeSystemError, resp.Code)
}

func TestStatusHandleIdempotentOnRepeatedFailure(t *testing.T) {
	provider := &fakeProvider{
		LookupFunc: func(ctx context.Context, flightIATA string) (*aviationstack.Flight, error) {
			return nil, aviationstack.ErrNotFound
		},
	}
	a := NewFlightStatusAgent(provider, &fakeGenerator{})

	first := a.Handle(context.Background(), "status of ZZ999", UserContext{})
	second := a.Handle(context.Background(), "status of ZZ999", UserContext{})
	assert.Equal(t, CodeNotFound, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Message, second.Message)
}

func TestFormatFlightStatusFallbacks(t *testing.T) {
	report := formatFlightStatus("XX1", &aviationstack.Flight{}, UserContext{})

	assert.Contains(t, report, "Unknown Airline")
	assert.Contains(t, report, "Status: Unknown")
	assert.Contains(t, report, "Terminal: N/A | Gate: N/A")
	assert.Contains(t, report, "On time")
}

func TestFormatFlightStatusDelay(t *testing.T) {
	flight := activeFlight()
	delay := 45
	flight.Departure.Delay = &delay

	report := formatFlightStatus("AA123", flight, UserContext{})
	assert.Contains(t, report, "Departure Delay: 45 min")
	assert.NotContains(t, report, "On time")
}

func TestFormatFlightStatusPersonalization(t *testing.T) {
	flight := activeFlight()
	flight.Departure.City = "New York"
	flight.Arrival.City = "Los Angeles"

	report := formatFlightStatus("AA123", flight, UserContext{
		PreferredAirline: "american",
		PreferredAirport: "los angeles",
	})
	assert.Contains(t, report, "[Personalized] This is your preferred airline!")
	assert.Contains(t, report, "[Personalized] This route includes your preferred airport!")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "N/A", formatTime(""))
	assert.Equal(t, "2026-08-29 14:30 UTC", formatTime("2026-08-29T14:30:00+00:00"))
	assert.Equal(t, "not-a-time", formatTime("not-a-time"))
}
