package auth

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/dte-emitter/internal/model"
)

// RefreshMargin is how long before expiry a cached token stops being used
const RefreshMargin = 30 * time.Minute

// Token is a bearer token issued by the authority
type Token struct {
	Value       string
	Environment model.Environment
	NIT         string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Usable reports whether the token may still be sent at now
func (t *Token) Usable(now time.Time) bool {
	return now.Before(t.ExpiresAt.Add(-RefreshMargin))
}

type cacheKey struct {
	env model.Environment
	nit string
}

// TokenCache keeps one token per (environment, NIT) in memory
type TokenCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Token
	clock   clockwork.Clock
}

// NewTokenCache creates an empty cache. A nil clock uses the real clock.
func NewTokenCache(clock clockwork.Clock) *TokenCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenCache{
		entries: make(map[cacheKey]*Token),
		clock:   clock,
	}
}

// Get returns the cached token while it is usable
func (c *TokenCache) Get(env model.Environment, nit string) (*Token, bool) {
	key := cacheKey{env: env, nit: nit}

	c.mu.RLock()
	tok, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if !tok.Usable(c.clock.Now()) {
		// Inside the refresh margin, remove it
		c.mu.Lock()
		if c.entries[key] == tok {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return tok, true
}

// Set stores a token, replacing any previous one for the same key
func (c *TokenCache) Set(tok *Token) {
	if tok == nil {
		return
	}

	c.mu.Lock()
	c.entries[cacheKey{env: tok.Environment, nit: tok.NIT}] = tok
	c.mu.Unlock()
}

// Delete removes the token of one key
func (c *TokenCache) Delete(env model.Environment, nit string) {
	c.mu.Lock()
	delete(c.entries, cacheKey{env: env, nit: nit})
	c.mu.Unlock()
}

// Clear removes all cached entries
func (c *TokenCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]*Token)
	c.mu.Unlock()
}

// Size returns the number of cached entries
func (c *TokenCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
