package ports

import (
	"context"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

// AttemptInput is the DTO passed from the transport layer to AttemptService.
type AttemptInput struct {
	ExamID          string
	Correct         int
	ClosedTotal     int
	OpenTotal       int
	Answered        int
	DurationSeconds int
	TimedOut        bool
}

type AttemptService interface {
	Record(ctx context.Context, username string, in AttemptInput) (*domain.Attempt, error)
	Statistics(ctx context.Context, username string, limit int) (*domain.Statistics, error)
}
