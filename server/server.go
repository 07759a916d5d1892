// Package server is the HTTP layer of the air travel assistant: it owns the
// chat endpoint, per-conversation sessions, and the routing glue between the
// inquiry router and the two agents.
package server

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/agent"
)

//go:embed index.html
var indexHTML []byte

// Server handles HTTP requests for the air travel assistant.
type Server struct {
	router    *agent.InquiryRouter
	status    *agent.FlightStatusAgent
	analytics *agent.FlightAnalyticsAgent
	sessions  *SessionManager
	secret    []byte
	mux       chi.Router
}

// New creates a Server wired to the given LLM, flight-status provider, and
// warehouse. The session secret signs the session cookie.
func New(llm agent.TextGenerator, provider agent.StatusProvider, runner agent.QueryRunner, schema *agent.FlightDataSchema, sessionSecret string) *Server {
	s := &Server{
		router:    agent.NewInquiryRouter(llm),
		status:    agent.NewFlightStatusAgent(provider, llm),
		analytics: agent.NewFlightAnalyticsAgent(llm, runner, schema),
		sessions:  NewSessionManager(),
		secret:    []byte(sessionSecret),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes sets up the chi router and middlewares.
func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)

	s.mux = r
}

// handleIndex serves the embedded chat page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query     string `json:"query"`
	Subscribe bool   `json:"subscribe,omitempty"`
}

// handleChat routes a chat query to the status or analytics agent and returns
// the agent's envelope. Failures are reported inside the envelope; the HTTP
// status is always 200.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, &agent.Response{
			Code:       agent.CodeInvalidInput,
			Message:    "Invalid request body.",
			Details:    err.Error(),
			Suggestion: "Send a JSON body like {\"query\": \"status of AA123\"}.",
		})
		return
	}
	defer r.Body.Close()

	if req.Query == "" {
		writeResponse(w, &agent.Response{
			Code:       agent.CodeInvalidInput,
			Message:    "Query is required.",
			Suggestion: "Ask about a flight, e.g. \"What's the status of AA123?\".",
		})
		return
	}

	sess := s.sessions.GetOrCreate(sessionIDFromCookie(r, s.secret))
	setSessionCookie(w, s.secret, sess.ID)

	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	// Carry the last known route forward so follow-up questions keep their
	// context, then remember any analytics intent.
	query := sess.Memory.AbsorbRoute(req.Query)
	sess.Memory.NoteIntent(query)

	log.Printf("[CHAT] Session %s | Query: %s", sess.ID, query)

	route, err := s.router.Route(r.Context(), query)
	if err != nil {
		log.Printf("[CHAT] Routing failed: %v", err)
		writeResponse(w, &agent.Response{
			Code:       agent.CodeSystemError,
			Message:    "Could not determine how to handle the question.",
			Details:    err.Error(),
			Suggestion: "Try rephrasing your question.",
		})
		return
	}

	var resp *agent.Response
	if route == agent.RouteStatus {
		resp = s.status.Handle(r.Context(), query, sess.User)
	} else {
		resp = s.analytics.Handle(r.Context(), query, &sess.Memory)
	}

	if req.Subscribe {
		resp.Subscription = "Subscription feature coming soon!"
	}

	writeResponse(w, resp)
}

// writeResponse encodes an agent envelope as the JSON body.
func writeResponse(w http.ResponseWriter, resp *agent.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[CHAT] Failed to write response: %v", err)
	}
}
