// Package app wires the client together: gateway calls, the stored
// session and the auth state.
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/client/api"
	"github.com/learnscope/examprep-web/internal/client/authstate"
	"github.com/learnscope/examprep-web/internal/client/forms"
	"github.com/learnscope/examprep-web/internal/client/session"
	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/exam"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

const (
	DashboardPath  = "/dashboard"
	RegisteredPath = "/login?registered=true"
)

// ErrNotLoggedIn is returned by calls that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in")

type App struct {
	api     *api.Client
	session *session.Session
	state   *authstate.State
	log     zerolog.Logger
}

func New(client *api.Client, sess *session.Session, state *authstate.State, log zerolog.Logger) *App {
	return &App{api: client, session: sess, state: state, log: log}
}

func (a *App) State() *authstate.State { return a.state }

// Login validates the form, stores the issued token and refreshes the auth
// state. It returns the page to continue to.
func (a *App) Login(ctx context.Context, f forms.LoginForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	token, err := a.api.Login(ctx, f.Username, f.Password, f.Remember)
	if err != nil {
		return "", err
	}
	a.session.Save(ctx, token, f.Remember)
	a.state.Refresh(ctx)

	a.log.Info().Str("username", f.Username).Bool("remember", f.Remember).Msg("logged in")
	return redirectTarget(f.Redirect), nil
}

// redirectTarget only follows same-origin paths.
func redirectTarget(r string) string {
	if !strings.HasPrefix(r, "/") || strings.HasPrefix(r, "//") {
		return DashboardPath
	}
	return r
}

// Register validates the form and creates the account. It returns the
// login page flagged with the registration notice.
func (a *App) Register(ctx context.Context, f forms.RegisterForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	if _, err := a.api.Register(ctx, backend.Registration{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	}); err != nil {
		return "", err
	}
	return RegisteredPath, nil
}

func (a *App) Logout(ctx context.Context) {
	a.state.Logout(ctx)
}

func (a *App) Exams(ctx context.Context) ([]domain.ExamSummary, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.Exams(ctx, token)
}

// SubmitAttempt records the outcome of a finished attempt.
func (a *App) SubmitAttempt(ctx context.Context, examID string, out exam.Outcome) (*domain.Attempt, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.RecordAttempt(ctx, token, api.AttemptRequest{
		ExamID:          examID,
		Correct:         out.Result.Correct,
		ClosedTotal:     out.Result.ClosedTotal,
		OpenTotal:       out.Result.OpenTotal,
		Answered:        out.Result.Answered,
		DurationSeconds: int(out.Duration.Seconds()),
		TimedOut:        out.TimedOut,
	})
}

func (a *App) Statistics(ctx context.Context, limit int) (*domain.Statistics, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}
	return a.api.Statistics(ctx, token, limit)
}

func (a *App) token(ctx context.Context) (string, error) {
	token, ok := a.session.Token(ctx)
	if !ok {
		return "", ErrNotLoggedIn
	}
	return token, nil
}
