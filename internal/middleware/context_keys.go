package middleware

import (
	"context"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
)

const (
	sessionCtxKey = contextKey("session")
	bearerCtxKey  = contextKey("bearerToken")
)

// GetSessionFromCtx retrieves the parsed session from a request context.
func GetSessionFromCtx(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey).(*domain.Session)
	return sess, ok
}

// GetBearerFromCtx retrieves the raw bearer token to forward upstream.
func GetBearerFromCtx(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerCtxKey).(string)
	return token, ok
}

// WithSession stores a session in a context. Used by tests and internal
// callers that bypass the HTTP layer.
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// WithBearer stores a raw bearer token in a context.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerCtxKey, token)
}
