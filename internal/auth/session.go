package auth

import "sync"

// Session holds the bearer token for the signed-in operator. A single
// instance is created at startup and handed to the API client; every
// request reads the token at call time, so a login or logout takes
// effect on the next call without rebuilding the client.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession creates a session, optionally seeded with a token from the
// environment. An empty token is valid; the server's 401 is the signal
// that authentication is required.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores the token received from a successful login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the token on logout.
func (s *Session) Clear() {
	s.SetToken("")
}

// Authenticated reports whether a token is present. It says nothing
// about validity; only the server can decide that.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
