package aviationstack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"data": [
		{
			"flight_status": "active",
			"airline": {"name": "American Airlines", "iata": "AA"},
			"departure": {
				"airport": "John F Kennedy International",
				"iata": "JFK",
				"terminal": "8",
				"gate": "B22",
				"delay": 12,
				"scheduled": "2026-08-29T14:30:00+00:00"
			},
			"arrival": {
				"airport": "Los Angeles International",
				"iata": "LAX",
				"scheduled": "2026-08-29T17:45:00+00:00",
				"estimated": "2026-08-29T17:40:00+00:00"
			}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	client, err := NewClient("test-key", opts...)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestLookupParsesFlight(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(sampleResponse))
	})

	flight, err := client.Lookup(context.Background(), "AA123")
	require.NoError(t, err)

	assert.Equal(t, "active", flight.FlightStatus)
	assert.Equal(t, "American Airlines", flight.Airline.Name)
	assert.Equal(t, "JFK", flight.Departure.IATA)
	require.NotNil(t, flight.Departure.Delay)
	assert.Equal(t, 12, *flight.Departure.Delay)
	assert.Contains(t, gotQuery, "flight_iata=AA123")
	assert.Contains(t, gotQuery, "access_key=test-key")
}

func TestLookupEmptyDataIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.Lookup(context.Background(), "ZZ999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Lookup(context.Background(), "AA123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLookupTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(sampleResponse))
	}, WithTimeout(20*time.Millisecond))

	_, err := client.Lookup(context.Background(), "AA123")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLookupConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient("test-key", WithBaseURL(url))
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "AA123")
	assert.ErrorIs(t, err, ErrNetwork)
}
