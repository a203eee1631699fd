package http

import (
	"net/http"
	"strings"

	"pokedexapi/internal/httpx"
	"pokedexapi/internal/usecase"
)

// AuthMiddleware rejects requests without a live bearer session and attaches
// the session's username to the request context.
func AuthMiddleware(sessions usecase.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				httpx.Error(w, http.StatusUnauthorized, "No authentication token provided")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			sess, ok := sessions.Validate(token)
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := httpx.ContextWithUsername(r.Context(), sess.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
