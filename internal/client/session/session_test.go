package session

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/learnscope/examprep-web/internal/client/tokenstore"
)

func newSession(t *testing.T) (*Session, *tokenstore.MemoryStorage, *tokenstore.MemoryStorage) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	origin, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)

	sess, dur := tokenstore.NewMemoryStorage(), tokenstore.NewMemoryStorage()
	store := tokenstore.New(sess, dur, zerolog.Nop())
	return New(store, jar, origin), sess, dur
}

func TestSave_WritesStoreAndCookie(t *testing.T) {
	ctx := context.Background()
	s, sess, _ := newSession(t)

	s.Save(ctx, "abc123", false)

	v, ok, _ := sess.Get(ctx, tokenstore.Key)
	require.True(t, ok)
	require.Equal(t, "abc123", v)

	ck, ok := s.Cookie()
	require.True(t, ok)
	require.Equal(t, "abc123", ck)

	tok, ok := s.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "abc123", tok)
}

func TestSave_RememberUsesDurableScope(t *testing.T) {
	ctx := context.Background()
	s, sess, dur := newSession(t)

	s.Save(ctx, "keep-me", true)

	_, inSession, _ := sess.Get(ctx, tokenstore.Key)
	require.False(t, inSession)
	v, ok, _ := dur.Get(ctx, tokenstore.Key)
	require.True(t, ok)
	require.Equal(t, "keep-me", v)

	ck, ok := s.Cookie()
	require.True(t, ok)
	require.Equal(t, "keep-me", ck)
}

func TestClear_RemovesEverything(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t)

	s.Save(ctx, "one", true)
	s.Save(ctx, "two", false)
	s.Clear(ctx)

	_, ok := s.Token(ctx)
	require.False(t, ok)
	_, ok = s.Cookie()
	require.False(t, ok)
}

func TestSession_WithoutJar(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(tokenstore.NewMemoryStorage(), nil, zerolog.Nop())
	s := New(store, nil, nil, WithCookieName("session"), WithMaxAge(60))

	s.Save(ctx, "abc", false)
	tok, ok := s.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	_, ok = s.Cookie()
	require.False(t, ok)
	s.Clear(ctx)
	_, ok = s.Token(ctx)
	require.False(t, ok)
}
