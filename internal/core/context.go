package core

import "context"

type contextKey string

const (
	ctxKeyClientIP  contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "user_agent"
)

// ContextWithClient records who issued a request so import and export
// logs can name the caller.
func ContextWithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyClientIP, ip)
	return context.WithValue(ctx, ctxKeyUserAgent, userAgent)
}

// ClientIPFromContext returns the recorded client IP, or "".
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}

// UserAgentFromContext returns the recorded user agent, or "".
func UserAgentFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return v
	}
	return ""
}

// clientLogFields returns slog key/value pairs for the recorded client.
func clientLogFields(ctx context.Context) []any {
	var fields []any
	if ip := ClientIPFromContext(ctx); ip != "" {
		fields = append(fields, "ip", ip)
	}
	if ua := UserAgentFromContext(ctx); ua != "" {
		fields = append(fields, "user_agent", ua)
	}
	return fields
}
