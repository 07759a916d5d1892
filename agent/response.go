// Package agent implements the inquiry router and the two conversational
// agents behind the /chat endpoint: real-time flight status and historical
// flight analytics.
package agent

import "context"

// Result codes shared by every agent. The HTTP layer always answers 200 and
// clients branch on the code instead.
const (
	CodeSuccess         = "SUCCESS"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeTimeout         = "TIMEOUT"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeSystemError     = "SYSTEM_ERROR"
)

// Response is the structured envelope every agent returns. Failures carry
// Details for debugging and a Suggestion for the user; successes carry Data.
type Response struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Data         string `json:"data,omitempty"`
	Details      string `json:"details,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
	QueryType    string `json:"query_type,omitempty"`
	Subscription string `json:"subscription,omitempty"`
}

// errorResponse builds a failure envelope.
func errorResponse(code, message, details, suggestion string) *Response {
	return &Response{
		Code:       code,
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
	}
}

// TextGenerator is the LLM surface the agents depend on: one prompt in, the
// model's trimmed text out. Satisfied by gemini.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
