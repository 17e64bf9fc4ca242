package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken covers every decode failure: malformed, expired, bad
// signature. Callers treat them all as unauthenticated.
var ErrInvalidToken = errors.New("invalid token")

// bcrypt reads at most 72 bytes of input. Longer passwords are truncated
// silently so any string is accepted, matching the behavior of hashing
// stacks that truncate instead of erroring.
func truncateForBcrypt(p string) []byte {
	b := []byte(p)
	if len(b) > 72 {
		b = b[:72]
	}
	return b
}

func hashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncateForBcrypt(p), bcrypt.DefaultCost)
	return string(b), err
}

// checkPassword returns false for a malformed stored hash rather than
// surfacing the error.
func checkPassword(hash, p string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(p)) == nil
}

// dummyHash is compared against when a login names an unknown user, so the
// not-found path costs the same as a real password check.
var dummyHash, _ = hashPassword("dummy")

// TokenService issues and decodes HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(username, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Decode verifies signature and expiry.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	c := &Claims{Subject: sub}
	c.Role, _ = mc["role"].(string)
	c.ID, _ = mc["jti"].(string)
	if exp, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}
