// Package web provides the HTTP JSON API for the business directory.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	mw "github.com/JonMunkholm/bizdir/internal/web/middleware"
)

// Server is the HTTP server for the directory API.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a Server. A nil cfg uses defaults.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.securityHeaders)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	importLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		importLimit = s.newRateLimiter(s.cfg.Rate.UploadLimit, time.Minute).middleware
	}

	// Imports are bounded by UPLOAD_TIMEOUT instead of the request timeout.
	timeout := func(next http.Handler) http.Handler { return next }
	if s.cfg.Server.RequestTimeout > 0 {
		timeout = middleware.Timeout(s.cfg.Server.RequestTimeout)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.With(timeout).Get("/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(mw.AccessGate(s.service.Mode(), s.cfg.Security.APIKeys))

			r.With(importLimit).Post("/import", s.handleImport)

			r.Group(func(r chi.Router) {
				r.Use(timeout)

				r.Get("/businesses", s.handleListBusinesses)
				r.Post("/businesses", s.handleCreateBusiness)
				r.Post("/businesses/bulk", s.handleBulkCreate)
				r.Get("/businesses/{id}", s.handleGetBusiness)
				r.Patch("/businesses/{id}", s.handleUpdateBusiness)
				r.Delete("/businesses/{id}", s.handleDeleteBusiness)

				r.Get("/tags", s.handleListTags)

				r.Post("/export", s.handleExport)
			})
		})
	})
}

// Start listens until Shutdown, which makes it return http.ErrServerClosed.
func (s *Server) Start() error {
	slog.Info("starting server",
		"addr", s.server.Addr,
		"storage", s.service.Mode(),
		"auth_required", s.service.Mode().AuthRequired(),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, l := range s.limiters {
		l.stop()
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// The API serves JSON and downloads only.
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimiter is a fixed-window request counter per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
	done     chan struct{}
	once     sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a limiter whose cleanup goroutine ends on Shutdown.
func (s *Server) newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		done:     make(chan struct{}),
	}
	s.limiters = append(s.limiters, rl)
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every window.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
		}
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists || time.Since(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: time.Now(),
		}
		return true
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by client IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(mw.ClientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeJSON(w, r, http.StatusTooManyRequests, ErrorResponse{
				Error:   "Too many requests",
				Message: "Rate limit exceeded",
				Action:  "Wait a minute and try again",
				Code:    "RATE001",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v with the given status. Encoding errors are logged
// since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "path", r.URL.Path, "error", err)
	}
}
