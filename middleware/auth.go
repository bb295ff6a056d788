// Package middleware holds the HTTP middleware for the admin API surface.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// AdminAuthMiddleware guards the admin API with a static bearer token
type AdminAuthMiddleware struct {
	apiToken string
}

// NewAdminAuthMiddleware creates a new authentication middleware instance
func NewAdminAuthMiddleware(apiToken string) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		apiToken: apiToken,
	}
}

// WithAuth wraps an HTTP handler with bearer token authentication
func (m *AdminAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeErrorResponse(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			log.Printf("❌ Empty bearer token")
			m.writeErrorResponse(w, "empty bearer token", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.apiToken)) != 1 {
			log.Printf("❌ Invalid admin API token from %s", r.RemoteAddr)
			m.writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (m *AdminAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("❌ Failed to write error response: %v", err)
	}
}
