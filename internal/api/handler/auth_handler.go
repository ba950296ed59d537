package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/api/middleware"
	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

// CookieSettings describes the session mirror cookie.
type CookieSettings struct {
	Name   string
	MaxAge int
	Secure bool
}

// AuthHandler forwards the credential routes to the backend.
type AuthHandler struct {
	backend Backend
	cookie  CookieSettings
	log     zerolog.Logger
}

func NewAuthHandler(b Backend, cookie CookieSettings, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{backend: b, cookie: cookie, log: log}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials; remember keeps the cookie past the browser session"
// @Success      200   {object}  backend.TokenResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return unreadableBody("login", err)
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Missing fields"})
	}

	start := time.Now()
	resp, err := h.backend.Login(c.Request().Context(), backend.Credentials{Username: req.Username, Password: req.Password})
	if err == nil && resp.OK() {
		var tok backend.TokenResponse
		if tok, err = backend.Decode[backend.TokenResponse](resp.Body); err == nil {
			h.setSessionCookie(c, tok.AccessToken, req.Remember)
		}
	}
	observe("login", start, resp, err)
	if err != nil {
		return fmt.Errorf("proxy login: %w", err)
	}

	return c.JSONBlob(resp.Status, resp.Body)
}

// Register creates a backend account.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return unreadableBody("register", err)
	}

	start := time.Now()
	resp, err := h.backend.Register(c.Request().Context(), backend.Registration(req))
	observe("register", start, resp, err)
	if err != nil {
		return fmt.Errorf("proxy register: %w", err)
	}

	return c.JSONBlob(resp.Status, resp.Body)
}

// Profile returns the profile of the bearer token's user.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.backend.Profile(c.Request().Context(), token)
	if err == nil && resp.OK() {
		_, err = backend.Decode[domain.Profile](resp.Body)
	}
	observe("profile", start, resp, err)
	if err != nil {
		return fmt.Errorf("proxy profile: %w", err)
	}

	return c.JSONBlob(resp.Status, resp.Body)
}

// Logout invalidates the token on the backend. The session cookie is
// cleared whatever the outcome.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)

	token, ok := middleware.BearerToken(c.Request())
	if !ok {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "No token provided"})
	}

	start := time.Now()
	resp, err := h.backend.Logout(c.Request().Context(), token)
	observe("logout", start, resp, err)
	if err != nil {
		return fmt.Errorf("proxy logout: %w", err)
	}

	if !resp.OK() {
		msg := resp.Message()
		if msg == "" {
			msg = "Logout failed"
		}
		return c.JSON(resp.Status, messageResponse{Message: msg})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// setSessionCookie mirrors the token for the route guard. Remembered
// sessions get a browser-session cookie; the others expire after MaxAge.
func (h *AuthHandler) setSessionCookie(c echo.Context, token string, remember bool) {
	ck := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !remember {
		ck.MaxAge = h.cookie.MaxAge
	}
	c.SetCookie(ck)
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
