package auth

import (
	"context"

	"github.com/LaviAzankot/CharityChick/internal/models"
)

type contextKey string

const userKey contextKey = "currentUser"

// WithUser returns a context carrying the authenticated user for the
// duration of one request.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user from the context, or nil if the
// request is anonymous.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
