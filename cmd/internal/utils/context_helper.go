package utils

import (
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	ContextKeyUser  = "user"
	ContextKeyToken = "token"
)

func GetUserFromContext(c echo.Context) (*entity.User, apierror.ErrorResponse) {
	val := c.Get(ContextKeyUser)
	if val == nil {
		log.Warnf("route %s attempted to read nil user from context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	user, ok := val.(*entity.User)
	if !ok {
		log.Warnf("expected user type at '%s' context key, got %T", ContextKeyUser, val)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func GetTokenFromContext(c echo.Context) (*TokenData, apierror.ErrorResponse) {
	val := c.Get(ContextKeyToken)
	if val == nil {
		return nil, apierror.UnauthorizedError
	}

	token, ok := val.(*TokenData)
	if !ok {
		log.Warnf("expected token data at '%s' context key, got %T", ContextKeyToken, val)
		return nil, apierror.InternalServerError
	}
	return token, nil
}
