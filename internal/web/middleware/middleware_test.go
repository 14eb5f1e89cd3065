package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/bizdir/internal/core"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestAccessGate(t *testing.T) {
	keys := []string{"key-one", "key-two"}

	tests := []struct {
		name     string
		mode     core.StorageMode
		apiKey   string
		wantCode int
		wantBody string
	}{
		{"memory is open", core.StorageMemory, "", http.StatusNoContent, ""},
		{"postgres missing key", core.StoragePostgres, "", http.StatusUnauthorized, "AUTH_MISSING_KEY"},
		{"postgres invalid key", core.StoragePostgres, "nope", http.StatusForbidden, "AUTH_INVALID_KEY"},
		{"postgres valid key", core.StoragePostgres, "key-two", http.StatusNoContent, ""},
		{"unavailable ignores key", core.StorageUnavailable, "key-one", http.StatusServiceUnavailable, "STO001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/businesses", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			rec := httptest.NewRecorder()

			AccessGate(tt.mode, keys)(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", rec.Body, tt.wantBody)
			}
		})
	}
}

func TestStorageUnavailable_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	StorageUnavailable(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/import", nil))

	want := `{"error":"Service temporarily unavailable","message":"Database connection required but unavailable","code":"STO001"}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s\nwant %s", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAPIKeyAuth_NoKeysConfigured(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()

	APIKeyAuth(nil)(okHandler).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps remote", nil, "198.51.100.1:5000", map[string]string{"X-Real-IP": "203.0.113.9"}, "198.51.100.1"},
		{"trusted real ip", []string{"10.0.0.0/8"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"trusted forwarded for", []string{"10.0.0.1"}, "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"trusted but garbage header", []string{"10.0.0.0/8"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "not-an-ip"}, "10.1.2.3"},
		{"invalid cidr skipped", []string{"bogus"}, "10.1.2.3:5000", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ClientIP(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "no"})
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("body not passed through")
	}
}
