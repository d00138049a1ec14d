// Package middleware provides the HTTP middleware chain: client IP
// extraction and request logging.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey struct{ name string }

var clientIPKey = contextKey{"client_ip"}

// WithClientIP returns a context carrying the client IP. The audit recorder
// reads it via GetClientIP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from ctx, or "" if not set.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// ClientIPFromRequest resolves the client IP from X-Forwarded-For, X-Real-IP,
// or the connection's remote address, in that order.
func ClientIPFromRequest(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-IP")); s != "" {
		return s
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ClientIP is middleware that stores the resolved client IP in the request
// context.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientIP(r.Context(), ClientIPFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
