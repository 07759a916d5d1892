package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lyalam2/Travel-Assistant-GCP-BigQuery/agent"
)

const sessionCookieName = "travel_session"

// Session is one conversation: its memory, user preferences, and a mutex that
// serializes turns so per-session memory stays consistent.
type Session struct {
	ID     string
	Memory agent.Memory
	User   agent.UserContext
	Mu     sync.Mutex
}

// SessionManager keeps conversations in memory, keyed by session ID. Sessions
// live until the process exits; there is no eviction.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewSessionManager creates an empty session store.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for the given ID, creating it (and minting
// an ID when empty) on first use.
func (sm *SessionManager) GetOrCreate(sessionID string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	if session, exists := sm.sessions[sessionID]; exists {
		return session
	}

	session := &Session{ID: sessionID}
	sm.sessions[sessionID] = session
	return session
}

// signSessionID produces the hex HMAC-SHA256 tag for a session ID.
func signSessionID(secret []byte, id string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// sessionIDFromCookie extracts and verifies the session ID from the request
// cookie. A missing, malformed, or tampered cookie yields "".
func sessionIDFromCookie(r *http.Request, secret []byte) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	id, tag, ok := strings.Cut(cookie.Value, ".")
	if !ok || id == "" {
		return ""
	}
	if !hmac.Equal([]byte(tag), []byte(signSessionID(secret, id))) {
		return ""
	}
	return id
}

// setSessionCookie writes the signed session cookie.
func setSessionCookie(w http.ResponseWriter, secret []byte, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id + "." + signSessionID(secret, id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
