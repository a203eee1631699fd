package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID carries the correlation id for a request. An inbound value
// is echoed back; otherwise one is minted.
const HeaderRequestID = "X-Request-Id"

// RequestIDMiddleware tags every request with a correlation id, exposed both
// as a response header and through the request context for access logging.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
	})
}
