package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "journal_ip"
	ctxKeyUserAgent contextKey = "journal_ua"
)

// ContextWithClient records who is driving the session, for the journal.
func ContextWithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIPAddress, ip)
	return context.WithValue(ctx, ctxKeyUserAgent, userAgent)
}

// clientFromContext returns the values stored by ContextWithClient.
func clientFromContext(ctx context.Context) (ip, userAgent string) {
	ip, _ = ctx.Value(ctxKeyIPAddress).(string)
	userAgent, _ = ctx.Value(ctxKeyUserAgent).(string)
	return ip, userAgent
}
