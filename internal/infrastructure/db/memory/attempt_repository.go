// Package memory keeps attempt history in process memory. It is used when
// no MongoDB URI is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/ports"
)

type AttemptRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Attempt
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{byUser: make(map[string][]domain.Attempt)}
}

func (r *AttemptRepository) Insert(_ context.Context, a *domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[a.Username] = append(r.byUser[a.Username], *a)
	return nil
}

func (r *AttemptRepository) Recent(_ context.Context, username string, limit int) ([]domain.Attempt, error) {
	r.mu.RLock()
	list := append([]domain.Attempt(nil), r.byUser[username]...)
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *AttemptRepository) Totals(_ context.Context, username string) (ports.AttemptTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var t ports.AttemptTotals
	var sum float64
	for _, a := range r.byUser[username] {
		t.Attempts++
		sum += a.Score
		t.TotalTimeSeconds += a.DurationSeconds
		if a.Score > t.BestScore {
			t.BestScore = a.Score
		}
	}
	if t.Attempts > 0 {
		t.AverageScore = sum / float64(t.Attempts)
	}
	return t, nil
}

func (r *AttemptRepository) Ping(context.Context) error { return nil }
