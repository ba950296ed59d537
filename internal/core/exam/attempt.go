package exam

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrFinished        = errors.New("attempt already finished")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
)

// Outcome is what a finished attempt reports.
type Outcome struct {
	Result   Result
	Duration time.Duration
	TimedOut bool
}

type AttemptOption func(*Attempt)

// WithTickInterval changes the wall-clock time between countdown ticks.
func WithTickInterval(d time.Duration) AttemptOption {
	return func(a *Attempt) { a.interval = d }
}

func WithOnTick(fn func(remaining time.Duration)) AttemptOption {
	return func(a *Attempt) { a.onTick = fn }
}

// WithOnFinish registers a callback that runs once, after the attempt has
// been finished by the user or by the countdown.
func WithOnFinish(fn func(Outcome)) AttemptOption {
	return func(a *Attempt) { a.onFinish = fn }
}

func withClock(now func() time.Time) AttemptOption {
	return func(a *Attempt) { a.now = now }
}

// Attempt is one sitting of an exam.
type Attempt struct {
	exam     Exam
	interval time.Duration
	onTick   func(time.Duration)
	onFinish func(Outcome)
	now      func() time.Time

	mu        sync.Mutex
	answers   map[string]string
	index     int
	started   time.Time
	finished  bool
	outcome   Outcome
	countdown *Countdown
	done      chan struct{}
}

func NewAttempt(e Exam, opts ...AttemptOption) *Attempt {
	a := &Attempt{
		exam:    e,
		now:     time.Now,
		answers: make(map[string]string, len(e.Questions)),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.countdown = NewCountdown(e.Limit(), a.interval, a.onTick, func() { a.finish(true) })
	return a
}

// Start records the start time and launches the countdown. Cancelling ctx
// stops the countdown without finishing the attempt.
func (a *Attempt) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started.IsZero() {
		a.started = a.now()
	}
	a.mu.Unlock()
	a.countdown.Start(ctx)
}

func (a *Attempt) Exam() Exam { return a.exam }

func (a *Attempt) Remaining() time.Duration { return a.countdown.Remaining() }

// Current returns the question under the cursor and its zero-based index.
func (a *Attempt) Current() (Question, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.exam.Questions) == 0 {
		return Question{}, -1
	}
	return a.exam.Questions[a.index], a.index
}

// Next moves forward; it reports false at the last question.
func (a *Attempt) Next() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index >= len(a.exam.Questions)-1 {
		return false
	}
	a.index++
	return true
}

// Previous moves back; it reports false at the first question.
func (a *Attempt) Previous() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index == 0 {
		return false
	}
	a.index--
	return true
}

// Answer records an answer, replacing any earlier one for the same question.
// Closed questions only accept one of their option ids.
func (a *Attempt) Answer(questionID, answer string) error {
	q, ok := a.exam.question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if q.Type == Closed && !q.hasOption(answer) {
		return ErrUnknownOption
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return ErrFinished
	}
	a.answers[questionID] = answer
	return nil
}

func (a *Attempt) Answers() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}

// Finish stops the countdown and grades the attempt. Later calls return the
// first outcome.
func (a *Attempt) Finish() Outcome {
	return a.finish(false)
}

func (a *Attempt) finish(timedOut bool) Outcome {
	a.mu.Lock()
	if a.finished {
		out := a.outcome
		a.mu.Unlock()
		return out
	}
	a.finished = true
	var elapsed time.Duration
	if !a.started.IsZero() {
		elapsed = a.now().Sub(a.started)
	}
	if timedOut {
		elapsed = a.exam.Limit()
	}
	a.outcome = Outcome{
		Result:   Score(a.exam, a.answers),
		Duration: elapsed,
		TimedOut: timedOut,
	}
	out := a.outcome
	a.mu.Unlock()

	a.countdown.Stop()
	if a.onFinish != nil {
		a.onFinish(out)
	}
	close(a.done)
	return out
}

// Done is closed once the attempt is finished.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

func (a *Attempt) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished
}
