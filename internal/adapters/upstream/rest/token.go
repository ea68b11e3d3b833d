package rest

import (
	"context"
	"errors"

	"github.com/orbitcrm/record_console_app/internal/middleware"
)

// ContextTokenProvider forwards the caller's own bearer token, placed in the
// request context by the auth middleware. The console never mints tokens of
// its own.
type ContextTokenProvider struct{}

// Token returns the bearer token carried on ctx.
func (ContextTokenProvider) Token(ctx context.Context) (string, error) {
	token, ok := middleware.GetBearerFromCtx(ctx)
	if !ok {
		return "", errors.New("no bearer token in context")
	}
	return token, nil
}
