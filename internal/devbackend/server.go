// Package devbackend is a local stand-in for the exam backend: accounts,
// bearer tokens and a per-user exam list, all in memory.
package devbackend

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/api"
	"github.com/learnscope/examprep-web/internal/api/middleware"
)

const claimsKey = "claims"

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Log        zerolog.Logger
}

type Server struct {
	users  *users
	tokens *issuer
	exams  *exams
	log    zerolog.Logger
}

type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// profileResponse keeps the capitalised keys the real backend sends.
type profileResponse struct {
	Username string `json:"Username"`
	Email    string `json:"Email"`
}

var validate = validator.New()

func New(opts Options) *Server {
	return &Server{
		users:  newUsers(opts.BcryptCost),
		tokens: newIssuer(opts.JWTSecret, opts.TokenTTL),
		exams:  newExams(),
		log:    opts.Log,
	}
}

// Router builds the Echo instance with the backend routes.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(s.log)

	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger(s.log))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, messageResponse{Message: "Hello, World"})
	})
	e.POST("/register", s.register)
	e.POST("/login", s.login)

	e.GET("/profile", s.profile, s.requireToken)
	e.POST("/logout", s.logout, s.requireToken)
	e.GET("/exams", s.listExams, s.requireToken)

	return e
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil || validate.Struct(&req) != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Missing fields"})
	}

	err := s.users.create(req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		return c.JSON(http.StatusConflict, messageResponse{Message: err.Error()})
	case err != nil:
		return err
	}
	s.exams.seed(req.Username)

	s.log.Info().Str("username", req.Username).Msg("user registered")
	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil || validate.Struct(&req) != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Missing fields"})
	}

	u, err := s.users.authenticate(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: err.Error()})
	}
	token, err := s.tokens.issue(u.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) profile(c echo.Context) error {
	claims := c.Get(claimsKey).(*jwt.RegisteredClaims)
	u, err := s.users.find(claims.Subject)
	if err != nil {
		return c.JSON(http.StatusNotFound, messageResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, profileResponse{Username: u.Username, Email: u.Email})
}

func (s *Server) logout(c echo.Context) error {
	claims := c.Get(claimsKey).(*jwt.RegisteredClaims)
	s.tokens.revoke(claims)
	s.log.Info().Str("username", claims.Subject).Msg("token revoked")
	return c.JSON(http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (s *Server) listExams(c echo.Context) error {
	claims := c.Get(claimsKey).(*jwt.RegisteredClaims)
	return c.JSON(http.StatusOK, s.exams.list(claims.Subject))
}

// requireToken verifies the bearer token and stores its claims.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := middleware.BearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization Header")
		}
		claims, err := s.tokens.parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}
