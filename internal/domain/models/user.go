package models

import (
	"context"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/google/uuid"
)

// User is the authenticated caller. Drivers get an identity from a demo token.
type User struct {
	ID   uuid.UUID      `json:"id"`
	Name string         `json:"name"`
	Role types.UserRole `json:"role"`
}

func AnonymousUser() *User {
	return &User{Role: types.RoleAnonymous}
}

func (u *User) IsAnonymous() bool {
	return u == nil || u.Role == types.RoleAnonymous
}

type userCtxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user stored by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
