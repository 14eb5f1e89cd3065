// Package middleware provides HTTP middleware for the directory API.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Logger is an HTTP middleware that logs one structured entry per request.
//
// Entries carry chi's request id through logging.FromContext.
//
// Log fields:
//   - method: HTTP method (GET, POST, etc.)
//   - path: Request URL path
//   - status: HTTP response status code
//   - bytes: Response body size
//   - duration_ms: Request processing time in milliseconds
//   - ip: Client IP address (after TrustedRealIP)
//   - user_agent: Client user agent string
//
// 5xx responses are logged at error level, 4xx at warn.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		logger := logging.FromContext(r.Context())
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ClientIP(r),
			"user_agent", r.UserAgent(),
		}

		switch {
		case ww.status >= http.StatusInternalServerError:
			logger.Error("request", args...)
		case ww.status >= http.StatusBadRequest:
			logger.Warn("request", args...)
		default:
			logger.Info("request", args...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// body size.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap exposes the underlying ResponseWriter to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
