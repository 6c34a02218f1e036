package middleware

import "context"

type contextKey string

const (
	ctxUsername contextKey = "username"
	ctxTokenJTI contextKey = "token_jti"
)

// UsernameFromContext returns the authenticated staff username, if present.
func UsernameFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(ctxUsername).(string)
	return value, ok
}

// TokenJTIFromContext returns the session identifier of the presented token.
func TokenJTIFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(ctxTokenJTI).(string)
	return value, ok
}
