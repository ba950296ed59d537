package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/ports"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type AttemptService struct {
	repo   ports.AttemptRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewAttemptService(repo ports.AttemptRepository, logger zerolog.Logger) *AttemptService {
	return &AttemptService{repo: repo, logger: logger, now: time.Now}
}

// Record scores and stores a finished attempt for username.
func (s *AttemptService) Record(ctx context.Context, username string, in ports.AttemptInput) (*domain.Attempt, error) {
	if err := checkAttempt(username, in); err != nil {
		return nil, err
	}

	a := &domain.Attempt{
		ID:              uuid.NewString(),
		Username:        username,
		ExamID:          in.ExamID,
		Correct:         in.Correct,
		ClosedTotal:     in.ClosedTotal,
		OpenTotal:       in.OpenTotal,
		Answered:        in.Answered,
		Score:           domain.ScorePercent(in.Correct, in.ClosedTotal),
		DurationSeconds: in.DurationSeconds,
		TimedOut:        in.TimedOut,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	s.logger.Info().
		Str("username", username).
		Str("exam_id", a.ExamID).
		Float64("score", a.Score).
		Bool("timed_out", a.TimedOut).
		Msg("attempt recorded")
	return a, nil
}

// Statistics aggregates the history of username. limit bounds the recent
// list: default 20, capped at 100.
func (s *AttemptService) Statistics(ctx context.Context, username string, limit int) (*domain.Statistics, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	totals, err := s.repo.Totals(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("statistics totals: %w", err)
	}
	recent, err := s.repo.Recent(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("statistics recent: %w", err)
	}
	if recent == nil {
		recent = []domain.Attempt{}
	}

	return &domain.Statistics{
		Attempts:         totals.Attempts,
		AverageScore:     totals.AverageScore,
		BestScore:        totals.BestScore,
		TotalTimeSeconds: totals.TotalTimeSeconds,
		Recent:           recent,
	}, nil
}

func checkAttempt(username string, in ports.AttemptInput) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: missing username", domain.ErrInvalidAttempt)
	case in.ExamID == "":
		return fmt.Errorf("%w: missing exam id", domain.ErrInvalidAttempt)
	case in.Correct < 0 || in.ClosedTotal < 0 || in.OpenTotal < 0 || in.Answered < 0 || in.DurationSeconds < 0:
		return fmt.Errorf("%w: negative counts", domain.ErrInvalidAttempt)
	case in.Correct > in.ClosedTotal:
		return fmt.Errorf("%w: correct exceeds closed questions", domain.ErrInvalidAttempt)
	case in.Answered > in.ClosedTotal+in.OpenTotal:
		return fmt.Errorf("%w: answered exceeds questions", domain.ErrInvalidAttempt)
	}
	return nil
}
