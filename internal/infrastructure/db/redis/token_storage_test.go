package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *TokenStorage) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewTokenStorage(client, "alice")
}

func TestTokenStorage_RoundTrip(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "learn_scope_auth_token", "abc123"))

	v, ok, err := s.Get(ctx, "learn_scope_auth_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc123", v)

	require.True(t, mr.Exists("examprep:client:alice:learn_scope_auth_token"))
	require.Equal(t, time.Duration(0), mr.TTL("examprep:client:alice:learn_scope_auth_token"))
}

func TestTokenStorage_MissingKey(t *testing.T) {
	_, s := setup(t)

	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenStorage_Delete(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	require.False(t, mr.Exists("examprep:client:alice:k"))
}

func TestTokenStorage_NamespacesAreIsolated(t *testing.T) {
	mr, alice := setup(t)
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	bob := NewTokenStorage(client, "bob")

	require.NoError(t, alice.Set(ctx, "k", "alice-token"))

	_, ok, err := bob.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokenStorage_ServerDown(t *testing.T) {
	mr, s := setup(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.Error(t, err)
}
