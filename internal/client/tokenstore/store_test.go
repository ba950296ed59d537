package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{}

var errDisabled = errors.New("storage disabled")

func (failingStorage) Get(context.Context, string) (string, bool, error) { return "", false, errDisabled }
func (failingStorage) Set(context.Context, string, string) error         { return errDisabled }
func (failingStorage) Delete(context.Context, string) error              { return errDisabled }

func newStore() (*Store, *MemoryStorage, *MemoryStorage) {
	session, durable := NewMemoryStorage(), NewMemoryStorage()
	return New(session, durable, zerolog.Nop()), session, durable
}

func TestSetToken_RememberUsesDurableScope(t *testing.T) {
	ctx := context.Background()
	s, session, durable := newStore()

	s.SetToken(ctx, "abc123", true)

	_, inSession, _ := session.Get(ctx, Key)
	require.False(t, inSession)
	v, ok, _ := durable.Get(ctx, Key)
	require.True(t, ok)
	require.Equal(t, "abc123", v)

	tok, ok := s.GetToken(ctx)
	require.True(t, ok)
	require.Equal(t, "abc123", tok)
}

func TestSetToken_DefaultUsesSessionScope(t *testing.T) {
	ctx := context.Background()
	s, session, durable := newStore()

	s.SetToken(ctx, "short-lived", false)

	v, ok, _ := session.Get(ctx, Key)
	require.True(t, ok)
	require.Equal(t, "short-lived", v)
	_, inDurable, _ := durable.Get(ctx, Key)
	require.False(t, inDurable)
}

func TestGetToken_SessionTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newStore()

	s.SetToken(ctx, "durable-token", true)
	s.SetToken(ctx, "session-token", false)

	tok, ok := s.GetToken(ctx)
	require.True(t, ok)
	require.Equal(t, "session-token", tok)
}

func TestClearToken_RemovesBothScopes(t *testing.T) {
	ctx := context.Background()
	for _, remember := range []bool{true, false} {
		s, _, _ := newStore()
		s.SetToken(ctx, "durable-token", true)
		s.SetToken(ctx, "token", remember)

		s.ClearToken(ctx)

		_, ok := s.GetToken(ctx)
		require.False(t, ok)
		require.False(t, s.HasToken(ctx))
	}
}

func TestStore_NilScopesAreNoOps(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil, zerolog.Nop())

	s.SetToken(ctx, "x", true)
	s.SetToken(ctx, "x", false)
	s.ClearToken(ctx)

	_, ok := s.GetToken(ctx)
	require.False(t, ok)
}

func TestStore_StorageFailureMeansNoToken(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStorage()
	s := New(failingStorage{}, durable, zerolog.Nop())

	s.SetToken(ctx, "lost", false)
	_, ok := s.GetToken(ctx)
	require.False(t, ok)

	s.SetToken(ctx, "kept", true)
	tok, ok := s.GetToken(ctx)
	require.True(t, ok)
	require.Equal(t, "kept", tok)

	s.ClearToken(ctx)
	require.False(t, s.HasToken(ctx))
}

func TestGetToken_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	s, session, _ := newStore()
	require.NoError(t, session.Set(ctx, Key, ""))

	_, ok := s.GetToken(ctx)
	require.False(t, ok)
}
