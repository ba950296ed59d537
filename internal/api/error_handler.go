package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

// errorResponse matches the backend's error envelope.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler renders every error as {"message": "..."}. Known
// domain errors get their status; anything else is logged and answered
// with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logError(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusBadRequest, "No token provided"
	case errors.Is(err, domain.ErrInvalidAttempt):
		return http.StatusBadRequest, err.Error()
	}

	// Transport, schema and storage failures all land here: the cause is
	// logged, the caller only sees the generic message.
	logError(log, c, err)
	return http.StatusInternalServerError, "Internal server error"
}

func logError(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
