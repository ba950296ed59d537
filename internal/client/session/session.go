// Package session is the single writer of the client's credential: the
// token store scopes and the mirrored gateway cookie are always updated
// together.
package session

import (
	"context"
	"net/http"
	"net/url"

	"github.com/learnscope/examprep-web/internal/client/tokenstore"
)

const (
	DefaultCookieName = "auth_token"
	// DefaultMaxAge applies to cookies of sessions that are not remembered.
	DefaultMaxAge = 86400
)

// Session owns the stored token and its cookie mirror for one gateway
// origin.
type Session struct {
	store      *tokenstore.Store
	jar        http.CookieJar
	origin     *url.URL
	cookieName string
	maxAge     int
}

type Option func(*Session)

func WithCookieName(name string) Option {
	return func(s *Session) { s.cookieName = name }
}

func WithMaxAge(seconds int) Option {
	return func(s *Session) { s.maxAge = seconds }
}

// New binds the store and jar to origin. jar may be nil when no cookie
// mirror is wanted.
func New(store *tokenstore.Store, jar http.CookieJar, origin *url.URL, opts ...Option) *Session {
	s := &Session{
		store:      store,
		jar:        jar,
		origin:     origin,
		cookieName: DefaultCookieName,
		maxAge:     DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores token in the scope chosen by remember and mirrors the cookie.
// A remembered session gets a session cookie; otherwise the cookie carries
// the max age.
func (s *Session) Save(ctx context.Context, token string, remember bool) {
	s.store.SetToken(ctx, token, remember)

	ck := &http.Cookie{Name: s.cookieName, Value: token, Path: "/"}
	if !remember {
		ck.MaxAge = s.maxAge
	}
	s.setCookie(ck)
}

// Clear removes the token from both scopes and expires the cookie.
func (s *Session) Clear(ctx context.Context) {
	s.store.ClearToken(ctx)
	s.setCookie(&http.Cookie{Name: s.cookieName, Value: "", Path: "/", MaxAge: -1})
}

// Token reads through the store: session scope first, then durable.
func (s *Session) Token(ctx context.Context) (string, bool) {
	return s.store.GetToken(ctx)
}

// Cookie returns the mirrored cookie value, if any.
func (s *Session) Cookie() (string, bool) {
	if s.jar == nil || s.origin == nil {
		return "", false
	}
	for _, ck := range s.jar.Cookies(s.origin) {
		if ck.Name == s.cookieName && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}

func (s *Session) setCookie(ck *http.Cookie) {
	if s.jar == nil || s.origin == nil {
		return
	}
	s.jar.SetCookies(s.origin, []*http.Cookie{ck})
}
