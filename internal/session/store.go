// Package session holds the admin bearer credential for the lifetime of the
// process. Nothing here is ever written to disk.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store is the process-scoped credential holder. The zero value is an empty store.
type Store struct {
	mu        sync.RWMutex
	token     string
	binding   string
	expiresAt time.Time // zero when the token carries no exp claim
	now       func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// NewWithClock returns an empty Store that reads time from now. Used by tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Set replaces the credential and issues a fresh browser binding nonce, which
// is returned. An empty token is equivalent to Clear.
func (s *Store) Set(token string) string {
	if token == "" {
		s.Clear()
		return ""
	}

	binding := newBinding()
	exp := tokenExpiry(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.binding = binding
	s.expiresAt = exp
	return binding
}

// Token returns the credential if one is held and not expired.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() {
		return "", false
	}
	return s.token, true
}

// Active reports whether a usable credential is held.
func (s *Store) Active() bool {
	_, ok := s.Token()
	return ok
}

// Bound reports whether the session is active and binding matches the nonce
// issued by the last Set.
func (s *Store) Bound(binding string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() || binding == "" {
		return false
	}
	return binding == s.binding
}

// Binding returns the nonce issued by the last Set, or "" when no session is active.
func (s *Store) Binding() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() {
		return ""
	}
	return s.binding
}

// ExpiresAt returns the token's exp claim, or the zero time for opaque tokens.
func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Clear drops the credential and binding.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.binding = ""
	s.expiresAt = time.Time{}
}

func (s *Store) expiredLocked() bool {
	if s.expiresAt.IsZero() {
		return false
	}
	return !s.clock().Before(s.expiresAt)
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend stays the authority on validity. Opaque tokens yield the zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func newBinding() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
