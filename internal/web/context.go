package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/qbank/internal/core"
)

// clientIP returns the request's client address without the port.
// RemoteAddr has already been rewritten by TrustedRealIP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// clientContext stores the client IP and User-Agent for the session journal.
func clientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClient(r.Context(), clientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
