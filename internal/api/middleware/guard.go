package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/learnscope/examprep-web/internal/api/metrics"
	"github.com/learnscope/examprep-web/internal/core/domain"
)

// GuardConfig configures the page route guard.
type GuardConfig struct {
	// Skipper defaults to SkipNonPages.
	Skipper        echomiddleware.Skipper
	ProtectedPaths []string
	AuthPaths      []string
	LoginPath      string
	HomePath       string
	CookieName     string
}

// excludedPrefixes are never evaluated by the guard: the proxy surface,
// static assets and operational endpoints. Matching is per path segment,
// so /apidocs is a page and stays guarded while /api/profile is skipped.
var excludedPrefixes = []string{
	"/api", "/_next", "/static", "/images", "/media",
	"/health", "/metrics", "/swagger",
}

// SkipNonPages skips requests that are not page navigations.
func SkipNonPages(c echo.Context) bool {
	path := c.Request().URL.Path
	if path == "/favicon.ico" {
		return true
	}
	for _, p := range excludedPrefixes {
		if matchPrefix(path, p) {
			return true
		}
	}
	return false
}

// Classify returns the access class of path. Protected wins when a path
// appears in both lists.
func Classify(path string, protected, authOnly []string) domain.AccessClass {
	for _, p := range protected {
		if matchPrefix(path, p) {
			return domain.AccessProtected
		}
	}
	for _, p := range authOnly {
		if matchPrefix(path, p) {
			return domain.AccessAuthOnly
		}
	}
	return domain.AccessPublic
}

// matchPrefix reports whether path is prefix itself or lies below it.
func matchPrefix(path, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Guard redirects page navigations by session cookie presence. It never
// validates the token itself.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = SkipNonPages
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "auth_token"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			path := c.Request().URL.Path
			hasToken := false
			if ck, err := c.Cookie(cfg.CookieName); err == nil && ck.Value != "" {
				hasToken = true
			}

			switch Classify(path, cfg.ProtectedPaths, cfg.AuthPaths) {
			case domain.AccessProtected:
				if !hasToken {
					metrics.GuardDecisionsTotal.WithLabelValues(metrics.DecisionRedirectLogin).Inc()
					return c.Redirect(http.StatusFound, cfg.LoginPath+"?redirect="+url.QueryEscape(path))
				}
			case domain.AccessAuthOnly:
				if hasToken {
					metrics.GuardDecisionsTotal.WithLabelValues(metrics.DecisionRedirectHome).Inc()
					return c.Redirect(http.StatusFound, cfg.HomePath)
				}
			}

			metrics.GuardDecisionsTotal.WithLabelValues(metrics.DecisionAllow).Inc()
			return next(c)
		}
	}
}
