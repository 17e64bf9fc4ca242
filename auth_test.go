package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	for _, password := range []string{"secret123", "", "pässwörd ünïcode 日本語", "with spaces\tand\nnewlines"} {
		hash, err := hashPassword(password)
		require.NoError(t, err)
		assert.True(t, checkPassword(hash, password), "password %q should verify against its own hash", password)
		assert.False(t, checkPassword(hash, password+"x"))
	}
}

func TestPasswordHashLongPasswords(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := hashPassword(long)
	require.NoError(t, err, "passwords beyond bcrypt's 72-byte limit must still hash")
	assert.True(t, checkPassword(hash, long))

	// only the first 72 bytes are significant
	assert.True(t, checkPassword(hash, long+"tail"))
	assert.False(t, checkPassword(hash, strings.Repeat("b", 100)))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, checkPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, checkPassword("", ""))
}

func TestTokenIssueDecode(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("alice", RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenDecodeFailures(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Decode("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Decode("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", time.Hour)
		token, err := other.Issue("alice", RoleStudent)
		require.NoError(t, err)
		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenService("test-secret", -time.Minute)
		token, err := expired.Issue("alice", RoleStudent)
		require.NoError(t, err)
		_, err = svc.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
