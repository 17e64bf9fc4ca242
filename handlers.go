package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *App) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the AI HTML Teaching Platform!"})
}

func (a *App) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}
	if _, err := a.Store.Create(req.Username, hash, req.Role); err != nil {
		writeError(w, http.StatusBadRequest, "Username already registered")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// HandleLogin accepts form-encoded credentials and returns a bearer token.
func (a *App) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := a.Store.Get(username)
	if err != nil {
		checkPassword(dummyHash, password)
		writeError(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}
	if !checkPassword(user.PasswordHash, password) {
		writeError(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}

	token, err := a.Tokens.Issue(user.Username, user.Role)
	if err != nil {
		logrus.WithError(err).Error("issue token")
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// HandleLogout revokes the presented token. It decodes the token itself
// instead of going through Authenticate so that a second logout with the
// same, already-blacklisted token still succeeds.
func (a *App) HandleLogout(w http.ResponseWriter, r *http.Request) {
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
	a.Revoked.Revoke(raw, claims.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (a *App) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ctxKeyClaims).(*Claims)
	if !ok {
		writeUnauthorized(w, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"username": claims.Subject,
		"role":     claims.Role,
	})
}

func (a *App) HandleAdminData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"secret": a.Config.AdminSecret})
}
