package agent

import "fmt"

// DefaultFlightsTable is the fully-qualified BigQuery table holding the
// historical flight data.
const DefaultFlightsTable = "`ai-travel-assistant-462707.flight_data.flights`"

// column describes one field of the flights table for the SQL-generation prompt.
type column struct {
	name        string
	colType     string
	description string
}

// flightColumns lists the flights table schema in prompt order. Every field is
// NULLABLE, which the prompt calls out so generated SQL uses COALESCE.
var flightColumns = []column{
	{"id", "INTEGER", "Unique flight identifier"},
	{"year", "INTEGER", "Year of flight"},
	{"month", "INTEGER", "Month of flight (1-12)"},
	{"day", "INTEGER", "Day of flight (1-31)"},
	{"dep_time", "FLOAT", "Actual departure time"},
	{"sched_dep_time", "INTEGER", "Scheduled departure time"},
	{"dep_delay", "FLOAT", "Departure delay in minutes"},
	{"arr_time", "FLOAT", "Actual arrival time"},
	{"sched_arr_time", "INTEGER", "Scheduled arrival time"},
	{"arr_delay", "FLOAT", "Arrival delay in minutes"},
	{"carrier", "STRING", "Airline carrier code"},
	{"flight", "INTEGER", "Flight number"},
	{"tailnum", "STRING", "Aircraft tail number"},
	{"origin", "STRING", "Origin airport code"},
	{"dest", "STRING", "Destination airport code"},
	{"air_time", "FLOAT", "Flight time in minutes"},
	{"distance", "INTEGER", "Distance in miles"},
	{"hour", "INTEGER", "Hour of flight (0-23)"},
	{"minute", "INTEGER", "Minute of flight (0-59)"},
	{"time_hour", "TIMESTAMP", "Timestamp of flight"},
	{"name", "STRING", "Airline name"},
}

// queryPatterns are canned SQL templates the model is encouraged to adapt.
var queryPatterns = map[string]string{
	"on_time_airlines": `
SELECT
    carrier,
    name as airline_name,
    COUNT(*) as total_flights,
    AVG(COALESCE(dep_delay, 0)) as avg_dep_delay,
    AVG(COALESCE(arr_delay, 0)) as avg_arr_delay,
    AVG((COALESCE(dep_delay, 0) + COALESCE(arr_delay, 0)) / 2) as avg_overall_delay,
    SUM(CASE WHEN COALESCE(arr_delay, 0) <= 15 THEN 1 ELSE 0 END) / COUNT(*) * 100 as on_time_percentage
FROM {table}
WHERE origin = @origin
    AND dest = @destination
    AND carrier IS NOT NULL
    AND name IS NOT NULL
GROUP BY carrier, name
HAVING COUNT(*) >= 10
ORDER BY avg_overall_delay ASC, on_time_percentage DESC
LIMIT @limit`,

	"day_of_week_delays": `
SELECT
    EXTRACT(DAYOFWEEK FROM DATE(year, month, day)) as day_of_week,
    COUNT(*) as total_flights,
    AVG(COALESCE(dep_delay, 0)) as avg_dep_delay,
    AVG(COALESCE(arr_delay, 0)) as avg_arr_delay,
    AVG((COALESCE(dep_delay, 0) + COALESCE(arr_delay, 0)) / 2) as avg_overall_delay,
    SUM(CASE WHEN COALESCE(arr_delay, 0) <= 15 THEN 1 ELSE 0 END) / COUNT(*) * 100 as on_time_percentage
FROM {table}
WHERE origin = @origin
    AND dest = @destination
    AND year IS NOT NULL
    AND month IS NOT NULL
    AND day IS NOT NULL
GROUP BY day_of_week
HAVING COUNT(*) >= 5
ORDER BY avg_overall_delay ASC`,
}

// parameterTypes documents the BigQuery types of the common query parameters.
var parameterTypes = map[string]string{
	"origin":      "STRING",
	"destination": "STRING",
	"year":        "INT64",
	"limit":       "INT64",
}

// FlightDataSchema renders the flights table schema and the canned query
// patterns into a text block for the SQL-generation prompt.
type FlightDataSchema struct {
	Table string
}

// NewFlightDataSchema returns a schema catalog for the given table, falling
// back to DefaultFlightsTable when empty.
func NewFlightDataSchema(table string) *FlightDataSchema {
	if table == "" {
		table = DefaultFlightsTable
	}
	return &FlightDataSchema{Table: table}
}

// Prompt builds the schema context injected into the SQL-generation prompt.
func (s *FlightDataSchema) Prompt() string {
	out := "Table: " + s.Table + "\nSchema:\n"
	for _, col := range flightColumns {
		out += fmt.Sprintf("%s NULLABLE %s - %s\n", col.name, col.colType, col.description)
	}

	out += "\nCommon Query Patterns:\n"
	for _, name := range []string{"on_time_airlines", "day_of_week_delays"} {
		out += fmt.Sprintf("-- %s\n%s\n\n", name, queryPatterns[name])
	}

	out += "Parameter Types:\n"
	for _, name := range []string{"origin", "destination", "year", "limit"} {
		out += fmt.Sprintf("%s: %s\n", name, parameterTypes[name])
	}

	out += "\nNote: All fields are NULLABLE, so always use COALESCE or IS NOT NULL checks when needed.\n"
	return out
}
