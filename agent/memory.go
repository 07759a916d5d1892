package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// routeRegex extracts "from XXX to YYY" airport pairs from a query.
var routeRegex = regexp.MustCompile(`(?i)from\s+([A-Za-z]{3})\s+to\s+([A-Za-z]{3})`)

// Memory is the conversational context carried across turns of one session.
// Fields are last-write-wins scalars with no expiry; the session owner is
// responsible for serializing access.
type Memory struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Year        string `json:"year,omitempty"`
	Limit       string `json:"limit,omitempty"`
	LastIntent  string `json:"last_intent,omitempty"`
}

// UserContext holds optional per-user preferences used to personalize status
// reports.
type UserContext struct {
	PreferredAirline string `json:"preferred_airline,omitempty"`
	PreferredAirport string `json:"preferred_airport,omitempty"`
}

// AbsorbRoute updates the remembered origin/destination from the query when it
// contains an explicit "from XXX to YYY" route, or appends the remembered
// route to the query when it does not. The possibly-augmented query is
// returned, enabling follow-up questions like "what about delays by weekday?".
func (m *Memory) AbsorbRoute(query string) string {
	if match := routeRegex.FindStringSubmatch(query); match != nil {
		m.Origin = strings.ToUpper(match[1])
		m.Destination = strings.ToUpper(match[2])
		return query
	}
	if m.Origin != "" && m.Destination != "" {
		return fmt.Sprintf("%s from %s to %s", query, m.Origin, m.Destination)
	}
	return query
}

// NoteIntent records an analytics intent for queries that ask for it
// explicitly.
func (m *Memory) NoteIntent(query string) {
	lower := strings.ToLower(query)
	if strings.Contains(lower, "analytics") || strings.Contains(lower, "show me") {
		m.LastIntent = "analytics"
	}
}

// mergeExtracted folds the LLM's extracted values into memory. Only the known
// keys are considered; values arrive as strings or JSON numbers.
func (m *Memory) mergeExtracted(values map[string]any) {
	if v, ok := stringValue(values["origin"]); ok {
		m.Origin = strings.ToUpper(v)
	}
	if v, ok := stringValue(values["destination"]); ok {
		m.Destination = strings.ToUpper(v)
	}
	if v, ok := stringValue(values["year"]); ok {
		m.Year = v
	}
	if v, ok := stringValue(values["limit"]); ok {
		m.Limit = v
	}
}

// stringValue renders a scalar extracted value as a string. JSON numbers are
// printed without a trailing ".0" for whole values.
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val)), true
		}
		return fmt.Sprintf("%g", val), true
	case int:
		return fmt.Sprintf("%d", val), true
	default:
		return "", false
	}
}
