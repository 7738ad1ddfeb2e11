package catalog

import "sync"

// TokenSession caches the access token for one logical user session.
// It is created empty, mutated only by token refresh and invalidation,
// and never persisted.
type TokenSession struct {
	mu    sync.Mutex
	token string
	// username the token is bound to, empty for the service account
	bound string
}

func NewTokenSession() *TokenSession {
	return &TokenSession{}
}

// Token returns the cached token unless it is bound to a different user
// than the one making the request; a mismatch clears the cache.
func (s *TokenSession) Token(identity *Identity) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockedToken(identity)
}

func (s *TokenSession) SetToken(token string, boundUsername string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockedSetToken(token, boundUsername)
}

func (s *TokenSession) lockedToken(identity *Identity) string {
	if identity != nil && identity.Username != s.bound {
		s.token = ""
		s.bound = ""
	}
	return s.token
}

func (s *TokenSession) lockedSetToken(token string, boundUsername string) {
	s.token = token
	s.bound = boundUsername
}
