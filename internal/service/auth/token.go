package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "fastlane"

// TokenService issues and validates driver access tokens (HS256).
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	log       logger.Logger
}

func NewTokenService(secret string, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
		log:       log,
	}
}

// Issue creates a driver identity for name and signs an access token for it.
// There are no accounts: every call yields a new driver id.
func (s *TokenService) Issue(ctx context.Context, name string) (*models.AccessToken, *models.User, error) {
	const op = "TokenService.Issue"
	ctx = wrap.WithAction(ctx, "issue_token")

	user := &models.User{
		ID:   uuid.New(),
		Name: strings.TrimSpace(name),
		Role: types.RoleDriver,
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.accessTTL)

	claims := models.DriverClaims{
		Name: user.Name,
		Role: user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.log.Info(wrap.WithDriverID(ctx, user.ID.String()), "access token issued", "expires_at", expiresAt)

	return &models.AccessToken{Token: signed, ExpiresAt: expiresAt}, user, nil
}

// Validate parses token and returns its claims. Any failure is reported as types.ErrInvalidToken.
func (s *TokenService) Validate(token string) (*models.DriverClaims, error) {
	claims := &models.DriverClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", types.ErrInvalidToken)
		}
		return nil, types.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, types.ErrInvalidToken
	}
	return claims, nil
}

// RoleCheck validates token and returns the user it was issued to.
func (s *TokenService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	const op = "TokenService.RoleCheck"
	ctx = wrap.WithAction(ctx, "validate_token")

	claims, err := s.Validate(token)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: bad subject: %w", op, types.ErrInvalidToken))
	}

	role := types.UserRole(claims.Role)
	if role != types.RoleDriver {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: role %q: %w", op, claims.Role, types.ErrInvalidToken))
	}

	return &models.User{ID: id, Name: claims.Name, Role: role}, nil
}
