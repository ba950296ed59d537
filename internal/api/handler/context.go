package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/learnscope/examprep-web/internal/api/middleware"
	"github.com/learnscope/examprep-web/internal/core/domain"
)

// ctxToken returns the bearer token stored by middleware.RequireBearer.
// An empty token means the route was mounted without the middleware.
func ctxToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.TokenKey).(string)
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	return token, nil
}
