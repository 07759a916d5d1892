// Package aviationstack wraps the AviationStack real-time flights endpoint.
package aviationstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the AviationStack real-time flights endpoint.
	DefaultBaseURL = "http://api.aviationstack.com/v1/flights"

	// DefaultTimeout bounds a single status lookup.
	DefaultTimeout = 8 * time.Second
)

// Sentinel errors so callers can map transport failures to user-facing codes.
var (
	ErrNotFound = errors.New("aviationstack: no flight data for the given flight number")
	ErrTimeout  = errors.New("aviationstack: request timed out")
	ErrNetwork  = errors.New("aviationstack: connection failed")
)

// Endpoint holds the departure or arrival half of a flight record.
// AviationStack leaves most of these blank for smaller airports, so every
// field is optional.
type Endpoint struct {
	Airport   string `json:"airport"`
	City      string `json:"city"`
	IATA      string `json:"iata"`
	Terminal  string `json:"terminal"`
	Gate      string `json:"gate"`
	Delay     *int   `json:"delay"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
	Actual    string `json:"actual"`
}

// Airline identifies the operating carrier.
type Airline struct {
	Name string `json:"name"`
	IATA string `json:"iata"`
}

// Flight is a single record from the real-time flights API.
type Flight struct {
	FlightStatus string   `json:"flight_status"`
	Airline      Airline  `json:"airline"`
	Departure    Endpoint `json:"departure"`
	Arrival      Endpoint `json:"arrival"`
}

type flightsResponse struct {
	Data []Flight `json:"data"`
}

// Client calls the AviationStack API with a bounded timeout.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests and proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates an AviationStack client. The API key is required.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("aviationstack: API key is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup fetches the first live record for an IATA flight code (e.g. "AA123").
// It returns ErrNotFound when the API has no data for the flight, ErrTimeout
// when the request exceeds the client timeout, and ErrNetwork for connection
// failures.
func (c *Client) Lookup(ctx context.Context, flightIATA string) (*Flight, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("flight_iata", flightIATA)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aviationstack: unexpected status %d", resp.StatusCode)
	}

	var body flightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(body.Data) == 0 {
		return nil, ErrNotFound
	}
	return &body.Data[0], nil
}

// classifyTransportError maps http.Client failures onto the package sentinels.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
