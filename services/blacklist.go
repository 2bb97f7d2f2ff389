package services

import "sync"

// TokenBlacklist is the process-wide set of revoked access tokens. A token
// in the set fails authentication even while its signature and expiry are
// still valid. Entries are never evicted; the set resets on restart.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: make(map[string]struct{})}
}

// Revoke is idempotent; revoking an already-revoked token is a no-op.
func (b *TokenBlacklist) Revoke(token string) {
	if token == "" {
		return
	}
	b.mu.Lock()
	b.tokens[token] = struct{}{}
	b.mu.Unlock()
}

func (b *TokenBlacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	_, ok := b.tokens[token]
	b.mu.RUnlock()
	return ok
}
