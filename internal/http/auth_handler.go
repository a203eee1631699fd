package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pokedexapi/internal/httpx"
	"pokedexapi/internal/usecase"
)

type AuthHandler struct {
	sessions usecase.SessionManager
}

func NewAuthHandler(sessions usecase.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Message   string    `json:"message"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if msg := req.Validate(); msg != "" {
		httpx.Error(w, http.StatusBadRequest, msg)
		return
	}

	sess, err := h.sessions.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Message:   "Login successful",
	})
}

// Logout succeeds whether or not a valid token was presented; a presented
// token is invalidated.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		h.sessions.Invalidate(strings.TrimPrefix(authHeader, "Bearer "))
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout successful",
	})
}
