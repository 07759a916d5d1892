package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Route identifies which agent services a query.
type Route string

const (
	RouteStatus    Route = "flight_status"
	RouteAnalytics Route = "flight_analytics"
)

// ErrUnrecognizedIntent is returned when the classification model answers with
// a label that is neither of the two allowed routes.
var ErrUnrecognizedIntent = errors.New("agent: unrecognized intent label")

// flightNumberRegex matches IATA flight codes like "AA123". The router and the
// status agent share it so a regex hit always lands on the agent that can
// extract the same flight number.
var flightNumberRegex = regexp.MustCompile(`(?i)\b([A-Z]{2}[0-9]{1,4})\b`)

// InquiryRouter decides between the status and analytics agents. Queries that
// carry a flight number are routed without an LLM call; everything else goes
// through one classification prompt.
type InquiryRouter struct {
	llm TextGenerator
}

// NewInquiryRouter creates a router backed by the given classifier model.
func NewInquiryRouter(llm TextGenerator) *InquiryRouter {
	return &InquiryRouter{llm: llm}
}

// Route classifies a query. The model is constrained to answer with exactly
// one of the two labels; anything else is rejected with ErrUnrecognizedIntent
// rather than propagated as an opaque route.
func (r *InquiryRouter) Route(ctx context.Context, query string) (Route, error) {
	if flightNumberRegex.MatchString(query) {
		return RouteStatus, nil
	}

	prompt := fmt.Sprintf("Classify query: '%s'. Options: flight_status, flight_analytics. Respond ONLY with the category.", query)
	answer, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("classification failed: %w", err)
	}

	switch label := strings.ToLower(strings.TrimSpace(answer)); Route(label) {
	case RouteStatus:
		return RouteStatus, nil
	case RouteAnalytics:
		return RouteAnalytics, nil
	default:
		log.Printf("[ROUTER] Model returned unexpected label: %q", label)
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedIntent, label)
	}
}
