package main

import (
	"sync"
	"time"
)

// Blacklist holds revoked tokens until their natural expiry. An expired token
// fails decoding on its own, so entries past their exp are pruned rather than
// kept forever.
type Blacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{revoked: make(map[string]time.Time)}
}

// Revoke inserts the token. Revoking an already revoked token is a no-op.
func (b *Blacklist) Revoke(token string, expiresAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	for t, exp := range b.revoked {
		if !exp.IsZero() && exp.Before(now) {
			delete(b.revoked, t)
		}
	}
	b.revoked[token] = expiresAt
}

func (b *Blacklist) IsRevoked(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.revoked[token]
	return ok
}
