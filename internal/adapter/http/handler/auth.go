package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/fastlane/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/validator"
)

type TokenIssuer interface {
	Issue(ctx context.Context, name string) (*models.AccessToken, *models.User, error)
}

type Auth struct {
	tokens TokenIssuer
	l      logger.Logger
}

func NewAuth(tokens TokenIssuer, l logger.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		l:      l,
	}
}

// IssueToken godoc
// @Summary      Issue a driver token
// @Description  Creates a driver identity and returns a bearer token for it
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.IssueTokenRequest  true  "Driver"
// @Success      201      {object}  map[string]any
// @Failure      400      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /auth/token [post]
func (h *Auth) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "issue_token")

	req := &dto.IssueTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, user, err := h.tokens.Issue(ctx, req.DriverName)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to issue token", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"access_token": token.Token,
		"token_type":   "Bearer",
		"expires_at":   token.ExpiresAt,
		"driver":       user,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
