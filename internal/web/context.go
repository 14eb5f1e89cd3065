package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/bizdir/internal/core"
	mw "github.com/JonMunkholm/bizdir/internal/web/middleware"
)

// withClient adds the client IP and User-Agent to the request context so
// service logs can name the caller.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), mw.ClientIP(r), r.UserAgent())
}
