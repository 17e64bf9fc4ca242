package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	ctxKeyClaims    = contextKey("claims")
	ctxKeyToken     = contextKey("token")
	ctxKeyRequestID = contextKey("requestID")
)

// extractBearer pulls the token out of the Authorization header.
func extractBearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing bearer token")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, detail)
}

// Authenticate resolves the caller from the bearer token. A token is usable
// only if it decodes, is not blacklisted, and its subject still exists in the
// store; every failure is a uniform 401.
func (a *App) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := extractBearer(r)
		if err != nil {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		claims, err := a.Tokens.Decode(raw)
		if err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}
		if a.Revoked.IsRevoked(raw) {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}
		if _, err := a.Store.Get(claims.Subject); err != nil {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		ctx = context.WithValue(ctx, ctxKeyToken, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a handler on an exact role match.
func (a *App) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(ctxKeyClaims).(*Claims)
		if !ok {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		if claims.Role != role {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r)
	}
}

// RequestID tags each request with a uuid, echoed in the X-Request-Id header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging logs each request with its resolved status and duration.
func (a *App) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapped.statusCode,
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
			"request_id": requestID(r.Context()),
		}).Info("request handled")
	})
}
