// Package tokenstore keeps the bearer token in one of two scopes: a
// session scope that dies with the process and a durable scope that
// survives restarts. Reads prefer the session scope.
package tokenstore

import (
	"context"

	"github.com/rs/zerolog"
)

// Key is the fixed storage key for the bearer token.
const Key = "learn_scope_auth_token"

// Storage is a string key/value scope. Get reports false for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes the token across both scopes. A nil scope behaves
// as if storage were unavailable: writes are dropped and reads are absent.
// Storage errors are logged and never returned.
type Store struct {
	session Storage
	durable Storage
	log     zerolog.Logger
}

func New(session, durable Storage, log zerolog.Logger) *Store {
	return &Store{session: session, durable: durable, log: log}
}

// SetToken writes token to the durable scope when remember is set and to the
// session scope otherwise.
func (s *Store) SetToken(ctx context.Context, token string, remember bool) {
	scope, name := s.session, "session"
	if remember {
		scope, name = s.durable, "durable"
	}
	if scope == nil {
		return
	}
	if err := scope.Set(ctx, Key, token); err != nil {
		s.log.Warn().Err(err).Str("scope", name).Msg("token store write failed")
	}
}

// GetToken returns the session value, then the durable value.
func (s *Store) GetToken(ctx context.Context) (string, bool) {
	if tok, ok := s.read(ctx, s.session, "session"); ok {
		return tok, true
	}
	return s.read(ctx, s.durable, "durable")
}

func (s *Store) read(ctx context.Context, scope Storage, name string) (string, bool) {
	if scope == nil {
		return "", false
	}
	tok, ok, err := scope.Get(ctx, Key)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", name).Msg("token store read failed")
		return "", false
	}
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// ClearToken removes the token from both scopes.
func (s *Store) ClearToken(ctx context.Context) {
	for name, scope := range map[string]Storage{"session": s.session, "durable": s.durable} {
		if scope == nil {
			continue
		}
		if err := scope.Delete(ctx, Key); err != nil {
			s.log.Warn().Err(err).Str("scope", name).Msg("token store delete failed")
		}
	}
}

func (s *Store) HasToken(ctx context.Context) bool {
	_, ok := s.GetToken(ctx)
	return ok
}
