package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/bizdir/internal/core"
)

// errorBody mirrors the JSON error shape written by the web package.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// AccessGate returns the access policy for the storage mode chosen at
// startup:
//   - postgres: X-API-Key must match one of keys
//   - unavailable: every request gets 503 (STO001)
//   - memory: open access
func AccessGate(mode core.StorageMode, keys []string) func(http.Handler) http.Handler {
	switch {
	case !mode.Available():
		return StorageUnavailable
	case mode.AuthRequired():
		return APIKeyAuth(keys)
	default:
		return func(next http.Handler) http.Handler { return next }
	}
}

// StorageUnavailable rejects every request. It is installed when a
// database was configured but could not be reached, so the service never
// falls back to memory.
func StorageUnavailable(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusServiceUnavailable, errorBody{
			Error:   "Service temporarily unavailable",
			Message: "Database connection required but unavailable",
			Code:    "STO001",
		})
	})
}

// APIKeyAuth returns middleware that validates the X-API-Key header
// against keys. With no keys configured every request is rejected.
func APIKeyAuth(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"ip", ClientIP(r),
				)
				writeError(w, http.StatusUnauthorized, errorBody{
					Error:   "missing API key",
					Message: "Send a valid key in the X-API-Key header",
					Code:    "AUTH_MISSING_KEY",
				})
				return
			}

			if !isValidAPIKey(apiKey, keys) {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"ip", ClientIP(r),
				)
				writeError(w, http.StatusForbidden, errorBody{
					Error:   "invalid API key",
					Message: "The X-API-Key header does not match a configured key",
					Code:    "AUTH_INVALID_KEY",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey checks if the provided key matches any configured key.
// Every key is compared in constant time, whether or not an earlier one
// matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("auth: write error response", "error", err)
	}
}
