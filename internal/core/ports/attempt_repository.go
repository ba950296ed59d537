package ports

import (
	"context"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

// AttemptTotals is the aggregate of every attempt of one user.
type AttemptTotals struct {
	Attempts         int
	AverageScore     float64
	BestScore        float64
	TotalTimeSeconds int
}

// AttemptRepository persists finished exam attempts.
type AttemptRepository interface {
	Insert(ctx context.Context, a *domain.Attempt) error
	// Recent returns at most limit attempts of username, newest first.
	Recent(ctx context.Context, username string, limit int) ([]domain.Attempt, error)
	Totals(ctx context.Context, username string) (AttemptTotals, error)
	Ping(ctx context.Context) error
}
