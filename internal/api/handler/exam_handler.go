package handler

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

type ExamHandler struct {
	backend Backend
}

func NewExamHandler(b Backend) *ExamHandler {
	return &ExamHandler{backend: b}
}

// List forwards the user's exam list.
//
// @Summary      List exams
// @Tags         exams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ExamListing
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/exams [get]
func (h *ExamHandler) List(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.backend.Exams(c.Request().Context(), token)
	if err == nil && resp.OK() {
		_, err = backend.Decode[[]domain.ExamListing](resp.Body)
	}
	observe("exams", start, resp, err)
	if err != nil {
		return fmt.Errorf("proxy exams: %w", err)
	}

	return c.JSONBlob(resp.Status, resp.Body)
}
