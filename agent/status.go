package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/aviationstack"
)

// StatusProvider is the real-time flight data surface the status agent
// depends on. Satisfied by aviationstack.Client.
type StatusProvider interface {
	Lookup(ctx context.Context, flightIATA string) (*aviationstack.Flight, error)
}

// FlightStatusAgent answers live flight-status questions: it extracts a flight
// number from the query, fetches the record from the status provider, formats
// a report, and asks the LLM to condense it for the traveler.
type FlightStatusAgent struct {
	provider StatusProvider
	llm      TextGenerator
}

// NewFlightStatusAgent creates a status agent.
func NewFlightStatusAgent(provider StatusProvider, llm TextGenerator) *FlightStatusAgent {
	return &FlightStatusAgent{provider: provider, llm: llm}
}

// Handle processes a status query and returns a structured envelope. It never
// returns an error; every failure maps to a result code.
func (a *FlightStatusAgent) Handle(ctx context.Context, query string, user UserContext) *Response {
	flightNumber := extractFlightNumber(query)
	if flightNumber == "" {
		return errorResponse(CodeInvalidInput,
			"Please provide a valid flight number (e.g., AA123).",
			"No valid flight number found in the query.",
			"Try entering a flight number in the format AA123.")
	}

	log.Printf("[STATUS] Looking up flight %s", flightNumber)

	flight, err := a.provider.Lookup(ctx, flightNumber)
	switch {
	case errors.Is(err, aviationstack.ErrNotFound):
		return errorResponse(CodeNotFound,
			fmt.Sprintf("No such flight exists for: %s.", flightNumber),
			"Flight number not found in AviationStack data.",
			"Double-check the flight number or try a different airline/date.")
	case errors.Is(err, aviationstack.ErrTimeout):
		return errorResponse(CodeTimeout,
			"The flight status service is currently slow.",
			"Request to AviationStack timed out.",
			"Please try again in a moment.")
	case errors.Is(err, aviationstack.ErrNetwork):
		return errorResponse(CodeNetworkError,
			"Unable to connect to the flight status service.",
			"Network connection error.",
			"Check your internet connection and try again.")
	case err != nil:
		return systemError(err)
	}

	report := formatFlightStatus(flightNumber, flight, user)

	prompt := fmt.Sprintf("Summarize the following flight status for a traveler in 2-3 sentences, focusing on what matters most:\n%s", report)
	summary, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[STATUS] Summarization failed: %v", err)
		return systemError(err)
	}

	return &Response{
		Code:    CodeSuccess,
		Message: "Flight status retrieved successfully.",
		Data:    summary,
	}
}

// systemError is the catch-all failure envelope.
func systemError(err error) *Response {
	return errorResponse(CodeSystemError,
		"An unexpected error occurred.",
		err.Error(),
		"Please try again later or contact support if the issue persists.")
}

// extractFlightNumber pulls the first IATA flight code out of a query,
// upper-cased, or returns "".
func extractFlightNumber(query string) string {
	match := flightNumberRegex.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	return strings.ToUpper(match[1])
}

// formatFlightStatus builds the multi-line status report the summarizer sees.
// Missing API fields fall back to "N/A" or "Unknown" placeholders; the user's
// preferred airline/airport add personalization lines when they match.
func formatFlightStatus(flightNumber string, flight *aviationstack.Flight, user UserContext) string {
	airline := flight.Airline.Name
	if airline == "" {
		airline = "Unknown Airline"
	}
	status := flight.FlightStatus
	if status == "" {
		status = "Unknown"
	}
	status = strings.ToUpper(status[:1]) + status[1:]

	dep, arr := flight.Departure, flight.Arrival
	depAirport := valueOr(dep.Airport, "Unknown Departure Airport")
	depCity := valueOr(dep.City, depAirport)
	arrAirport := valueOr(arr.Airport, "Unknown Arrival Airport")
	arrCity := valueOr(arr.City, arrAirport)

	delayLine := "On time"
	if dep.Delay != nil && *dep.Delay > 0 {
		delayLine = fmt.Sprintf("Departure Delay: %d min", *dep.Delay)
	}

	lines := []string{
		fmt.Sprintf("Flight Status Report for %s (%s)", flightNumber, airline),
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Route: %s (%s) -> %s (%s)", depCity, valueOr(dep.IATA, "N/A"), arrCity, valueOr(arr.IATA, "N/A")),
		fmt.Sprintf("Scheduled Departure: %s | Actual Departure: %s", formatTime(dep.Scheduled), formatTime(dep.Actual)),
		fmt.Sprintf("Scheduled Arrival: %s | Estimated Arrival: %s", formatTime(arr.Scheduled), formatTime(arr.Estimated)),
		fmt.Sprintf("Terminal: %s | Gate: %s", valueOr(dep.Terminal, "N/A"), valueOr(dep.Gate, "N/A")),
		delayLine,
	}

	if user.PreferredAirline != "" && strings.Contains(strings.ToLower(airline), strings.ToLower(user.PreferredAirline)) {
		lines = append(lines, "[Personalized] This is your preferred airline!")
	}
	if user.PreferredAirport != "" {
		airport := strings.ToLower(user.PreferredAirport)
		if strings.Contains(strings.ToLower(depCity), airport) || strings.Contains(strings.ToLower(arrCity), airport) {
			lines = append(lines, "[Personalized] This route includes your preferred airport!")
		}
	}

	return strings.Join(lines, "\n")
}

// valueOr returns s unless it is empty.
func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// formatTime renders an API timestamp as "YYYY-MM-DD HH:MM UTC", passing the
// raw string through when it does not parse.
func formatTime(s string) string {
	if s == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
