package api

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/learnscope/examprep-web/internal/api/handler"
	"github.com/learnscope/examprep-web/internal/api/middleware"
	"github.com/learnscope/examprep-web/internal/core/ports"
	"github.com/learnscope/examprep-web/internal/pkg/config"

	_ "github.com/learnscope/examprep-web/docs"
)

// Deps are the collaborators of the gateway router.
type Deps struct {
	Config   *config.Config
	Backend  handler.Backend
	Attempts ports.AttemptService
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
	// Registry receives the HTTP request metrics. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

var publicPages = []string{"/", "/about", "/terms", "/privacy"}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	promMW, err := echoprometheus.MiddlewareConfig{
		Namespace:  "examprep",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("prometheus middleware: %w", err)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(promMW)
	e.Use(middleware.Guard(middleware.GuardConfig{
		ProtectedPaths: d.Config.Guard.ProtectedPaths,
		AuthPaths:      d.Config.Guard.AuthPaths,
		LoginPath:      d.Config.Guard.LoginPath,
		HomePath:       d.Config.Guard.HomePath,
		CookieName:     d.Config.Cookie.Name,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Backend, handler.CookieSettings{
		Name:   d.Config.Cookie.Name,
		MaxAge: d.Config.Cookie.MaxAge,
		Secure: d.Config.Cookie.Secure,
	}, d.Log)
	examHandler := handler.NewExamHandler(d.Backend)
	attemptHandler := handler.NewAttemptHandler(d.Backend, d.Attempts, d.Log)
	pageHandler := handler.NewPageHandler()
	healthHandler := handler.NewHealthHandler(d.Health)
	bearer := middleware.RequireBearer()

	// --- Proxy routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/logout", authHandler.Logout)
	apiGroup.GET("/profile", authHandler.Profile, bearer)
	apiGroup.GET("/exams", examHandler.List, bearer)
	apiGroup.POST("/attempts", attemptHandler.Record, bearer)
	apiGroup.GET("/statistics", attemptHandler.Statistics, bearer)

	// --- Page shell (guarded) ---
	pages := append([]string{}, publicPages...)
	pages = append(pages, d.Config.Guard.AuthPaths...)
	for _, p := range d.Config.Guard.ProtectedPaths {
		pages = append(pages, p, p+"/*")
	}
	for _, p := range pages {
		e.GET(p, pageHandler.Show)
	}

	// --- Operational ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
