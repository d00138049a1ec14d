// Package devotp provides an in-memory store for recovery codes by
// identifier, used only when dev OTP mode is enabled (GET /dev/otp). Codes
// are persisted as digests, so this capture is the only way to read them
// back in a development environment without a mailer.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain recovery codes by identifier for dev-only retrieval.
// Not used in production.
type Store interface {
	// Put stores code for identifier until expiresAt.
	Put(ctx context.Context, identifier, code string, expiresAt time.Time)
	// Get returns the code for identifier if present and not expired.
	Get(ctx context.Context, identifier string) (code string, ok bool)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev code store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores code for identifier until expiresAt. A newer code replaces the
// previous one, matching supersession in the challenge store.
func (s *MemoryStore) Put(ctx context.Context, identifier, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[identifier] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for identifier if present and not expired.
func (s *MemoryStore) Get(ctx context.Context, identifier string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[identifier]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, identifier)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
