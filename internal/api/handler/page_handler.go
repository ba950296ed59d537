package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the page shell. Rendering is left to the client; the
// shell only answers navigations that passed the route guard.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": c.Request().URL.Path})
}
