package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
)

// tokenQueryParam carries the token on websocket requests, where browsers cannot set headers.
const tokenQueryParam = "access_token"

// Auth validates the bearer token and injects the user into the context.
// Requests without a token continue as anonymous; RequireRoles rejects them on protected routes.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := requestToken(r)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}
		if token == "" {
			next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, models.AnonymousUser())))
			return
		}

		user, err := m.auth.RoleCheck(ctx, token)
		if err != nil || user == nil {
			m.log.Warn(wrap.ErrorCtx(ctx, err), "failed to authenticate driver")
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = wrap.WithDriverID(ctx, user.ID.String())
		next.ServeHTTP(w, r.WithContext(models.WithUser(ctx, user)))
	})
}

// RequireRoles allows only users with one of the given roles.
func (m *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := models.UserFromContext(r.Context())
		if user.IsAnonymous() {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[user.Role]; !ok {
				errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireDriver is RequireRoles for drivers.
func (m *Middleware) RequireDriver(next http.HandlerFunc) http.Handler {
	return m.RequireRoles(next, types.RoleDriver)
}

func requestToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		return extractBearerToken(header)
	}
	return r.URL.Query().Get(tokenQueryParam), nil
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}
