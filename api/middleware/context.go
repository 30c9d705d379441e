package middleware

import "context"

type contextKey string

const ctxSessionToken contextKey = "session_token"

// SessionTokenFromContext returns the resolved session token, or "" when the
// session middleware did not run.
func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionToken).(string); ok {
		return v
	}
	return ""
}

// WithSessionToken injects the session token into the context.
func WithSessionToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionToken, token)
}
