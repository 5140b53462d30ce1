package userctx

import (
	"context"

	"github.com/equipsight/equipsight/engine/auth/model"
)

type contextKey struct{}

// WithUser adds the authenticated user to the context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext retrieves the authenticated user from context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*model.User)
	return user, ok
}
