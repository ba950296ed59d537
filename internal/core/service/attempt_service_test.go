package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAttemptRepo struct {
	inserted  []domain.Attempt
	lastLimit int
	insertErr error
	totalsErr error
	totals    ports.AttemptTotals
}

func (r *stubAttemptRepo) Insert(_ context.Context, a *domain.Attempt) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *a)
	return nil
}

func (r *stubAttemptRepo) Recent(_ context.Context, username string, limit int) ([]domain.Attempt, error) {
	r.lastLimit = limit
	var out []domain.Attempt
	for _, a := range r.inserted {
		if a.Username == username {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAttemptRepo) Totals(context.Context, string) (ports.AttemptTotals, error) {
	return r.totals, r.totalsErr
}

func (r *stubAttemptRepo) Ping(context.Context) error { return nil }

func newAttemptSvc(repo *stubAttemptRepo) *AttemptService {
	svc := NewAttemptService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.FixedZone("X", 3600)) }
	return svc
}

func validInput() ports.AttemptInput {
	return ports.AttemptInput{ExamID: "7", Correct: 2, ClosedTotal: 3, OpenTotal: 2, Answered: 5, DurationSeconds: 1200}
}

// ---------------------------------------------------------------------------
// Record
// ---------------------------------------------------------------------------

func TestAttemptService_Record_Success(t *testing.T) {
	repo := &stubAttemptRepo{}
	a, err := newAttemptSvc(repo).Record(context.Background(), "alice", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if a.Score < 66.66 || a.Score > 66.67 {
		t.Fatalf("expected score 66.67, got %v", a.Score)
	}
	if a.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", a.CreatedAt.Location())
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Username != "alice" {
		t.Fatalf("attempt not persisted: %+v", repo.inserted)
	}
}

func TestAttemptService_Record_Validation(t *testing.T) {
	cases := map[string]func(*ports.AttemptInput){
		"missing exam":     func(in *ports.AttemptInput) { in.ExamID = "" },
		"negative correct": func(in *ports.AttemptInput) { in.Correct = -1 },
		"too many correct": func(in *ports.AttemptInput) { in.Correct = 4 },
		"too many answers": func(in *ports.AttemptInput) { in.Answered = 6 },
		"negative time":    func(in *ports.AttemptInput) { in.DurationSeconds = -5 },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		repo := &stubAttemptRepo{}
		_, err := newAttemptSvc(repo).Record(context.Background(), "alice", in)
		if !errors.Is(err, domain.ErrInvalidAttempt) {
			t.Errorf("%s: expected ErrInvalidAttempt, got %v", name, err)
		}
		if len(repo.inserted) != 0 {
			t.Errorf("%s: invalid attempt must not be stored", name)
		}
	}
}

func TestAttemptService_Record_RepoError(t *testing.T) {
	repo := &stubAttemptRepo{insertErr: domain.ErrStorageUnavailable}
	_, err := newAttemptSvc(repo).Record(context.Background(), "alice", validInput())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

func TestAttemptService_Statistics_DefaultLimit(t *testing.T) {
	repo := &stubAttemptRepo{}
	stats, err := newAttemptSvc(repo).Statistics(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 20 {
		t.Errorf("expected default limit 20, got %d", repo.lastLimit)
	}
	if stats.Recent == nil {
		t.Errorf("recent must encode as an empty array, not null")
	}
}

func TestAttemptService_Statistics_LimitCappedAt100(t *testing.T) {
	repo := &stubAttemptRepo{}
	if _, err := newAttemptSvc(repo).Statistics(context.Background(), "alice", 999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 100 {
		t.Errorf("expected limit 100, got %d", repo.lastLimit)
	}
}

func TestAttemptService_Statistics_CopiesTotals(t *testing.T) {
	repo := &stubAttemptRepo{totals: ports.AttemptTotals{Attempts: 3, AverageScore: 70, BestScore: 90, TotalTimeSeconds: 3600}}
	svc := newAttemptSvc(repo)
	if _, err := svc.Record(context.Background(), "alice", validInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stats, err := svc.Statistics(context.Background(), "alice", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Attempts != 3 || stats.BestScore != 90 || stats.TotalTimeSeconds != 3600 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if len(stats.Recent) != 1 {
		t.Fatalf("expected one recent attempt, got %d", len(stats.Recent))
	}
}

func TestAttemptService_Statistics_RepoError(t *testing.T) {
	repo := &stubAttemptRepo{totalsErr: errors.New("boom")}
	if _, err := newAttemptSvc(repo).Statistics(context.Background(), "alice", 0); err == nil {
		t.Fatalf("expected error")
	}
}
