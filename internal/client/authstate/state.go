// Package authstate holds the client's authentication state: whether a
// session exists, who the user is and whether a check is in flight.
package authstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

// LoginPath is where Logout navigates.
const LoginPath = "/login"

const defaultNotifyTimeout = 5 * time.Second

// Credentials is the stored session token.
type Credentials interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context)
}

// ProfileAPI resolves tokens against the backend.
type ProfileAPI interface {
	Profile(ctx context.Context, token string) (*domain.Profile, error)
	Logout(ctx context.Context, token string) error
}

// Navigator moves the client to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Snapshot is a copy of the state at one point in time.
type Snapshot struct {
	IsAuthenticated bool
	User            *domain.Profile
	Loading         bool
}

type Option func(*State)

// WithNotifyTimeout bounds the backend logout notification.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *State) { s.notifyTimeout = d }
}

// State is the single source of truth for authentication in a client
// session. Construct one per application.
type State struct {
	creds         Credentials
	api           ProfileAPI
	nav           Navigator
	log           zerolog.Logger
	notifyTimeout time.Duration

	init    sync.Once
	pending sync.WaitGroup

	// notifyMu orders deliveries so the last one a listener sees is the
	// current state. Listeners must not change the state synchronously.
	notifyMu sync.Mutex

	mu        sync.Mutex
	snap      Snapshot
	listeners []func(Snapshot)
}

func New(creds Credentials, api ProfileAPI, nav Navigator, log zerolog.Logger, opts ...Option) *State {
	s := &State{
		creds:         creds,
		api:           api,
		nav:           nav,
		log:           log,
		notifyTimeout: defaultNotifyTimeout,
		snap:          Snapshot{Loading: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.copy()
}

// Subscribe registers fn to receive state changes. Deliveries never run
// concurrently and the last one always carries the current state. The
// returned function removes fn.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[idx] = nil
	}
}

// Init runs Refresh the first time it is called on s and does nothing
// afterwards.
func (s *State) Init(ctx context.Context) {
	s.init.Do(func() { s.Refresh(ctx) })
}

// Refresh re-reads the stored token and resolves it to a profile. A
// rejected or unreadable token clears the session; an unreachable gateway
// keeps it. Errors are logged, never returned. Concurrent calls are not
// deduplicated; the last answer wins.
func (s *State) Refresh(ctx context.Context) {
	token, ok := s.creds.Token(ctx)
	if !ok {
		s.update(func(sn *Snapshot) {
			sn.IsAuthenticated = false
			sn.User = nil
			sn.Loading = false
		})
		return
	}

	s.update(func(sn *Snapshot) {
		sn.IsAuthenticated = true
		sn.Loading = true
	})

	profile, err := s.api.Profile(ctx, token)
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		s.log.Warn().Err(err).Msg("profile fetch unreachable, keeping session")
		s.update(func(sn *Snapshot) {
			sn.Loading = false
		})
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("profile fetch failed, clearing session")
		s.creds.Clear(ctx)
		s.update(func(sn *Snapshot) {
			sn.IsAuthenticated = false
			sn.User = nil
			sn.Loading = false
		})
		return
	}

	s.update(func(sn *Snapshot) {
		sn.IsAuthenticated = true
		sn.User = profile
		sn.Loading = false
	})
}

// Logout notifies the backend in the background, clears the local session
// unconditionally and navigates to the login view.
func (s *State) Logout(ctx context.Context) {
	if token, ok := s.creds.Token(ctx); ok {
		s.pending.Add(1)
		go s.notify(context.WithoutCancel(ctx), token)
	}

	s.creds.Clear(ctx)
	s.update(func(sn *Snapshot) {
		sn.IsAuthenticated = false
		sn.User = nil
		sn.Loading = false
	})
	if s.nav != nil {
		s.nav.Navigate(LoginPath)
	}
}

func (s *State) notify(ctx context.Context, token string) {
	defer s.pending.Done()
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.api.Logout(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("backend logout notification failed")
	}
}

// Wait blocks until background logout notifications have finished.
func (s *State) Wait() {
	s.pending.Wait()
}

// UpdateUser replaces the in-memory profile after a manual edit.
func (s *State) UpdateUser(p domain.Profile) {
	s.update(func(sn *Snapshot) {
		sn.User = &p
	})
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	// Re-read under notifyMu: a racing update may already have landed.
	s.mu.Lock()
	snap := s.snap.copy()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, l := range s.listeners {
		if l != nil {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (sn Snapshot) copy() Snapshot {
	if sn.User != nil {
		u := *sn.User
		sn.User = &u
	}
	return sn
}
