package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/learnscope/examprep-web/internal/core/exam"
)

func (r *REPL) take(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open exam: %w", err)
	}
	e, err := exam.Load(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	attempt := exam.NewAttempt(e,
		exam.WithTickInterval(r.tick),
		exam.WithOnTick(func(remaining time.Duration) {
			if remaining%time.Minute == 0 || remaining == 10*time.Second {
				r.printf("\n[%s remaining]\n", exam.FormatRemaining(remaining))
			}
		}),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	attempt.Start(ctx)
	defer attempt.Finish()

	r.printf("%s: %d questions, %s. Type an option id or an answer, n/p to move, submit to finish.\n",
		e.Title, len(e.Questions), exam.FormatRemaining(e.Limit()))

	for !attempt.Finished() {
		q, idx := attempt.Current()
		r.showQuestion(q, idx, len(e.Questions), attempt.Answers()[q.ID])

		line, err := r.lines.read(ctx, attempt.Done())
		if errors.Is(err, errInterrupted) {
			break
		}
		if err != nil {
			return err
		}

		switch line {
		case "submit":
			attempt.Finish()
		case "n", "":
			if !attempt.Next() {
				r.printf("This is the last question. Type submit to finish.\n")
			}
		case "p":
			if !attempt.Previous() {
				r.printf("This is the first question.\n")
			}
		default:
			err := attempt.Answer(q.ID, line)
			switch {
			case err == nil:
				attempt.Next()
			case !errors.Is(err, exam.ErrFinished):
				r.printf("%s is not one of the options.\n", line)
			}
		}
	}

	out := attempt.Finish()
	if out.TimedOut {
		r.printf("\nTime's up! Your answers were submitted automatically.\n")
	}
	r.printf("Score: %s (%d of %d closed questions correct, %d open questions not graded)\n",
		out.Result.Display(), out.Result.Correct, out.Result.ClosedTotal, out.Result.OpenTotal)

	if _, err := r.app.SubmitAttempt(ctx, e.ID, out); err != nil {
		r.printf("Attempt not saved: %s\n", describe(err))
		return nil
	}
	r.printf("Attempt saved.\n")
	return nil
}

func (r *REPL) showQuestion(q exam.Question, idx, total int, current string) {
	r.printf("\nQuestion %d of %d", idx+1, total)
	if q.Topic != "" {
		r.printf(" [%s]", q.Topic)
	}
	r.printf("\n%s\n", q.Prompt)
	for _, o := range q.Options {
		mark := " "
		if o.ID == current {
			mark = "*"
		}
		r.printf(" %s %s) %s\n", mark, o.ID, o.Text)
	}
	if q.Type == exam.Open {
		if current != "" {
			r.printf("Your answer: %s\n", current)
		}
		r.printf("(open question, not graded)\n")
	}
	r.printf("answer> ")
}
