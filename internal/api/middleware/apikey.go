// Package middleware provides HTTP middleware for request logging,
// CORS and internal endpoint protection.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/develper21/grow-sub000/internal/api/response"
)

// APIKeyMiddleware guards internal operator endpoints (manual accrual and
// promotion triggers) with the X-API-Key header, compared against the
// configured key. When no key is configured the endpoints are disabled
// rather than open.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusForbidden, "internal endpoints disabled", "No API key configured")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
