package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/api/metrics"
	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/ports"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

// AttemptHandler stores finished attempts and serves statistics. The user
// is always resolved through the backend profile of the bearer token.
type AttemptHandler struct {
	backend  Backend
	attempts ports.AttemptService
	log      zerolog.Logger
}

func NewAttemptHandler(b Backend, attempts ports.AttemptService, log zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{backend: b, attempts: attempts, log: log}
}

// Record stores a finished attempt.
//
// @Summary      Record an exam attempt
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      attemptRequest  true  "Attempt tally"
// @Success      201   {object}  domain.Attempt
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/attempts [post]
func (h *AttemptHandler) Record(c echo.Context) error {
	var req attemptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	user, err := h.currentUser(c, "attempts")
	if err != nil {
		return err
	}

	a, err := h.attempts.Record(c.Request().Context(), user.Username, ports.AttemptInput{
		ExamID:          req.ExamID,
		Correct:         req.Correct,
		ClosedTotal:     req.ClosedTotal,
		OpenTotal:       req.OpenTotal,
		Answered:        req.Answered,
		DurationSeconds: req.DurationSeconds,
		TimedOut:        req.TimedOut,
	})
	if err != nil {
		return err
	}

	metrics.AttemptsRecordedTotal.WithLabelValues(strconv.FormatBool(a.TimedOut)).Inc()
	return c.JSON(http.StatusCreated, a)
}

// Statistics aggregates the caller's attempts.
//
// @Summary      Attempt statistics
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Recent attempts to include (default 20, max 100)"
// @Success      200    {object}  domain.Statistics
// @Failure      400    {object}  messageResponse
// @Failure      401    {object}  messageResponse
// @Failure      500    {object}  messageResponse
// @Router       /api/statistics [get]
func (h *AttemptHandler) Statistics(c echo.Context) error {
	var q statisticsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "limit must be an integer"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	user, err := h.currentUser(c, "statistics")
	if err != nil {
		return err
	}

	stats, err := h.attempts.Statistics(c.Request().Context(), user.Username, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// currentUser fetches the profile for the request's token. A non-2xx
// backend answer is relayed with its status and message.
func (h *AttemptHandler) currentUser(c echo.Context, route string) (*domain.Profile, error) {
	token, err := ctxToken(c)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := h.backend.Profile(c.Request().Context(), token)
	var profile domain.Profile
	if err == nil && resp.OK() {
		profile, err = backend.Decode[domain.Profile](resp.Body)
	}
	observe(route, start, resp, err)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	if !resp.OK() {
		msg := resp.Message()
		if msg == "" {
			msg = http.StatusText(resp.Status)
		}
		return nil, echo.NewHTTPError(resp.Status, msg)
	}
	return &profile, nil
}
