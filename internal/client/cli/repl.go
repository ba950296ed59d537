// Package cli is the interactive terminal client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/learnscope/examprep-web/internal/client/api"
	"github.com/learnscope/examprep-web/internal/client/app"
	"github.com/learnscope/examprep-web/internal/client/forms"
	"github.com/learnscope/examprep-web/internal/core/domain"
)

const helpText = `Commands:
  register             create an account
  login [--remember]   log in; --remember keeps the session across restarts
  logout               end the session
  whoami               show the current user
  exams                list available exams
  take <exam.json>     sit an exam from a file
  stats                show your attempt history
  help                 show this help
  exit                 quit
`

type REPL struct {
	app      *app.App
	lines    *lineReader
	password func() (string, error)
	tick     time.Duration
	log      zerolog.Logger

	outMu sync.Mutex
	out   io.Writer
}

type Option func(*REPL)

// WithPasswordReader reads passwords without echo. Without it passwords
// are read as ordinary lines.
func WithPasswordReader(fn func() (string, error)) Option {
	return func(r *REPL) { r.password = fn }
}

// WithTickInterval sets the wall-clock length of one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(r *REPL) { r.tick = d }
}

// TerminalPassword returns a no-echo password reader for f, or nil when f
// is not a terminal.
func TerminalPassword(f *os.File) func() (string, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

func New(a *app.App, in io.Reader, out io.Writer, log zerolog.Logger, opts ...Option) *REPL {
	r := &REPL{
		app:   a,
		lines: newLineReader(in),
		out:   out,
		tick:  time.Second,
		log:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run restores the session once and then reads commands until exit, end
// of input or ctx cancellation.
func (r *REPL) Run(ctx context.Context) error {
	defer r.lines.close()

	r.app.State().Init(ctx)
	r.whoami()

	for {
		r.printf("> ")
		line, err := r.lines.read(ctx, nil)
		if errors.Is(err, io.EOF) {
			r.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := r.dispatch(ctx, cmd, args); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.printf("%s\n", describe(err))
		}
	}
}

func (r *REPL) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		r.printf("%s", helpText)
		return nil
	case "register":
		return r.register(ctx)
	case "login":
		return r.login(ctx, args)
	case "logout":
		r.app.Logout(ctx)
		r.printf("Logged out.\n")
		return nil
	case "whoami":
		r.whoami()
		return nil
	case "exams":
		return r.exams(ctx)
	case "take":
		if len(args) != 1 {
			return errors.New("usage: take <exam.json>")
		}
		return r.take(ctx, args[0])
	case "stats":
		return r.stats(ctx)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	var se *api.StatusError
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "Unable to reach the server. Please try again."
	case errors.Is(err, domain.ErrInvalidUpstreamResponse):
		return "The server sent an unexpected response."
	case errors.Is(err, app.ErrNotLoggedIn):
		return "You are not logged in."
	default:
		return err.Error()
	}
}

func (r *REPL) login(ctx context.Context, args []string) error {
	f := forms.LoginForm{}
	for _, a := range args {
		switch a {
		case "--remember", "-r":
			f.Remember = true
		default:
			return fmt.Errorf("unknown flag %q", a)
		}
	}

	var err error
	if f.Username, err = r.ask(ctx, "Username: "); err != nil {
		return err
	}
	if f.Password, err = r.askPassword(ctx, "Password: "); err != nil {
		return err
	}

	next, err := r.app.Login(ctx, f)
	if err != nil {
		return err
	}
	if u := r.app.State().Snapshot().User; u != nil {
		r.printf("Welcome back, %s.\n", u.Username)
	}
	r.printf("Continue to %s\n", next)
	return nil
}

func (r *REPL) register(ctx context.Context) error {
	var (
		f   forms.RegisterForm
		err error
	)
	if f.Username, err = r.ask(ctx, "Username: "); err != nil {
		return err
	}
	if f.Email, err = r.ask(ctx, "Email: "); err != nil {
		return err
	}
	if f.Password, err = r.askPassword(ctx, "Password: "); err != nil {
		return err
	}
	if f.ConfirmPassword, err = r.askPassword(ctx, "Confirm password: "); err != nil {
		return err
	}
	accept, err := r.ask(ctx, "I agree to the terms and conditions [y/N]: ")
	if err != nil {
		return err
	}
	f.AcceptTerms = strings.EqualFold(accept, "y") || strings.EqualFold(accept, "yes")

	if _, err := r.app.Register(ctx, f); err != nil {
		return err
	}
	r.printf("Registration successful! Please log in with your new account.\n")
	return nil
}

func (r *REPL) whoami() {
	snap := r.app.State().Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		r.printf("Not logged in.\n")
		return
	}
	r.printf("Logged in as %s <%s>\n", snap.User.Username, snap.User.Email)
}

func (r *REPL) exams(ctx context.Context) error {
	list, err := r.app.Exams(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		r.printf("No exams available yet.\n")
		return nil
	}

	r.outMu.Lock()
	defer r.outMu.Unlock()
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS\tMINUTES\tDIFFICULTY\tDESCRIPTION")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			e.ID, e.Title, e.QuestionCount, e.EstimatedMinutes, e.Difficulty, e.Description)
	}
	return tw.Flush()
}

func (r *REPL) stats(ctx context.Context) error {
	s, err := r.app.Statistics(ctx, 10)
	if err != nil {
		return err
	}
	r.printf("Attempts: %d\nAverage score: %.1f%%\nBest score: %.1f%%\nTime spent: %s\n",
		s.Attempts, s.AverageScore, s.BestScore,
		(time.Duration(s.TotalTimeSeconds) * time.Second).String())
	for _, a := range s.Recent {
		flag := ""
		if a.TimedOut {
			flag = " (timed out)"
		}
		r.printf("  %s  exam %s  %.1f%%%s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.ExamID, a.Score, flag)
	}
	return nil
}

func (r *REPL) ask(ctx context.Context, prompt string) (string, error) {
	r.printf("%s", prompt)
	return r.lines.read(ctx, nil)
}

func (r *REPL) askPassword(ctx context.Context, prompt string) (string, error) {
	if r.password == nil || !r.lines.idle() {
		return r.ask(ctx, prompt)
	}
	r.printf("%s", prompt)
	pw, err := r.password()
	r.printf("\n")
	return pw, err
}

func (r *REPL) printf(format string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
