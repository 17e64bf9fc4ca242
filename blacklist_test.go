package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlacklistRevoke(t *testing.T) {
	b := NewBlacklist()
	exp := time.Now().Add(time.Hour)

	assert.False(t, b.IsRevoked("tok-1"))

	b.Revoke("tok-1", exp)
	assert.True(t, b.IsRevoked("tok-1"))
	assert.False(t, b.IsRevoked("tok-2"))

	// idempotent
	b.Revoke("tok-1", exp)
	assert.True(t, b.IsRevoked("tok-1"))
}

func TestBlacklistPrunesExpiredEntries(t *testing.T) {
	b := NewBlacklist()

	b.Revoke("old", time.Now().Add(-time.Minute))
	assert.True(t, b.IsRevoked("old"))

	// the next insertion sweeps entries whose token has already expired
	b.Revoke("new", time.Now().Add(time.Hour))
	assert.False(t, b.IsRevoked("old"))
	assert.True(t, b.IsRevoked("new"))
}
