package middleware

import (
	"context"
	"net/http"

	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/infrastructure/tokenstore"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Tokens   *utils.TokenManager
	Revoked  tokenstore.Store
}

// NewAuthMiddleware only lets requests through that carry a valid,
// unrevoked bearer token whose user still exists.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			tokenData, err := cfg.Tokens.ParseTokenDataCtx(c)
			if err != nil {
				log.Debugf("rejected token: %v", err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			ctx := c.Request().Context()
			revoked, err := cfg.Revoked.IsRevoked(ctx, tokenData.JTI)
			if err != nil {
				log.Errorf("failed to check revocation of token %s: %v", tokenData.JTI, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if revoked {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(ctx, tokenData.Sub)
			if err != nil {
				log.Errorf("failed to fetch user %s: %v", tokenData.Sub, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				return c.JSON(http.StatusUnauthorized, apierror.UserNotFoundError)
			}

			c.Set(utils.ContextKeyUser, user)
			c.Set(utils.ContextKeyToken, tokenData)
			return next(c)
		}
	}
}
