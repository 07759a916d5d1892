package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/warehouse"
)

// QueryRunner is the warehouse surface the analytics agent depends on.
// Satisfied by warehouse.Client.
type QueryRunner interface {
	RunQuery(ctx context.Context, sql string, params []warehouse.Parameter) (*warehouse.Result, error)
}

// StructuredQuery is the machine-generated query the model must return:
// parameterized SQL plus bound parameters and metadata. All four fields are
// required; a response missing any of them is rejected before the warehouse
// is touched.
type StructuredQuery struct {
	SQL             string           `json:"sql"`
	Parameters      []QueryParameter `json:"parameters"`
	QueryType       string           `json:"query_type"`
	ExtractedValues map[string]any   `json:"extracted_values"`
}

// QueryParameter is one named, typed parameter of a structured query.
type QueryParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// FlightAnalyticsAgent answers historical questions by asking the LLM for a
// structured BigQuery query, executing it, and summarizing the result rows.
type FlightAnalyticsAgent struct {
	llm    TextGenerator
	runner QueryRunner
	schema *FlightDataSchema
}

// NewFlightAnalyticsAgent creates an analytics agent over the given warehouse
// and schema catalog.
func NewFlightAnalyticsAgent(llm TextGenerator, runner QueryRunner, schema *FlightDataSchema) *FlightAnalyticsAgent {
	return &FlightAnalyticsAgent{llm: llm, runner: runner, schema: schema}
}

// Handle processes an analytics query. Extracted values (airports, year,
// limit) are merged into the caller's memory even when the warehouse query
// later finds nothing, so follow-up turns keep the context.
func (a *FlightAnalyticsAgent) Handle(ctx context.Context, query string, mem *Memory) *Response {
	structured, err := a.generateStructuredQuery(ctx, query)
	if err != nil {
		log.Printf("[ANALYTICS] Query generation rejected: %v", err)
		return errorResponse(CodeValidationError,
			fmt.Sprintf("Failed to validate query: %v", err),
			"Failed to validate query structure",
			"Please rephrase your analytics question.")
	}

	mem.mergeExtracted(structured.ExtractedValues)

	log.Printf("[ANALYTICS] Executing %s query", structured.QueryType)

	result, err := a.runner.RunQuery(ctx, structured.SQL, bindParameters(structured.Parameters))
	if err != nil {
		log.Printf("[ANALYTICS] Warehouse query failed: %v", err)
		return errorResponse(CodeSystemError,
			"Analytics error.",
			err.Error(),
			"Please try again later.")
	}
	if len(result.Rows) == 0 {
		return errorResponse(CodeNotFound,
			"No matching records found.",
			"",
			"Try a different query.")
	}

	table := formatResults(result)
	prompt := fmt.Sprintf("Summarize these flight analytics results in 2-3 sentences for a human traveler.\nQuery type: %s\nResults:\n%s",
		structured.QueryType, table)
	summary, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[ANALYTICS] Summarization failed: %v", err)
		return errorResponse(CodeSystemError,
			"Analytics error.",
			err.Error(),
			"Please try again later.")
	}

	return &Response{
		Code:      CodeSuccess,
		Message:   "Analytics summary generated.",
		Data:      summary,
		QueryType: structured.QueryType,
	}
}

// generateStructuredQuery prompts the model for a structured query and decodes
// it strictly: JSON parse failures, missing keys, and an empty SQL string are
// all rejected.
func (a *FlightAnalyticsAgent) generateStructuredQuery(ctx context.Context, query string) (*StructuredQuery, error) {
	prompt := fmt.Sprintf(`Given this user query: "%s"

%s

Generate a JSON response with:
1. "sql": a valid BigQuery SQL query
2. "parameters": a list of parameters, each {"name", "type", "value"}
3. "query_type": the query type (e.g., 'on_time_airlines', 'day_of_week_delays', 'general_analytics')
4. "extracted_values": any extracted values (airports, year, limit)

Rules:
1. SQL must be parameterized
2. Add LIMIT 50
3. Handle NULLs
4. Never include price-related queries
5. Use proper BigQuery syntax
6. Use the provided schema and query patterns when applicable

Return ONLY the JSON, no other text.`, query, a.schema.Prompt())

	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	return decodeStructuredQuery(answer)
}

// requiredQueryKeys are the keys every structured-query response must carry.
var requiredQueryKeys = []string{"sql", "parameters", "query_type", "extracted_values"}

// decodeStructuredQuery parses the model's answer into a StructuredQuery,
// rejecting malformed output instead of letting it reach the warehouse.
func decodeStructuredQuery(answer string) (*StructuredQuery, error) {
	raw := stripCodeFence(answer)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("model did not return valid JSON: %w", err)
	}
	for _, key := range requiredQueryKeys {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Errorf("model response is missing required key %q", key)
		}
	}

	var structured StructuredQuery
	if err := json.Unmarshal([]byte(raw), &structured); err != nil {
		return nil, fmt.Errorf("model response has invalid structure: %w", err)
	}
	if strings.TrimSpace(structured.SQL) == "" {
		return nil, fmt.Errorf("model returned an empty SQL query")
	}
	return &structured, nil
}

// stripCodeFence removes a surrounding ```json ... ``` fence, which models add
// even when told to return bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// bindParameters converts the model's typed parameters into warehouse
// parameters. JSON numbers decode as float64; integer-typed parameters are
// narrowed so BigQuery binds them as INT64.
func bindParameters(params []QueryParameter) []warehouse.Parameter {
	out := make([]warehouse.Parameter, 0, len(params))
	for _, p := range params {
		value := p.Value
		if f, ok := value.(float64); ok && strings.EqualFold(p.Type, "INT64") {
			value = int64(f)
		}
		out = append(out, warehouse.Parameter{Name: p.Name, Value: value})
	}
	return out
}

// formatResults renders up to 5 rows as a pipe-delimited table for the
// summarization prompt.
func formatResults(result *warehouse.Result) string {
	if len(result.Rows) == 0 {
		return "No results found"
	}

	var b strings.Builder
	b.WriteString(strings.Join(result.Columns, " | "))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 50))
	b.WriteString("\n")

	shown := len(result.Rows)
	if shown > 5 {
		shown = 5
	}
	for _, row := range result.Rows[:shown] {
		cells := make([]string, 0, len(result.Columns))
		for _, col := range result.Columns {
			cells = append(cells, fmt.Sprintf("%v", row[col]))
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	if len(result.Rows) > 5 {
		b.WriteString(fmt.Sprintf("\nShowing 5 of %d records", len(result.Rows)))
	}
	return b.String()
}
