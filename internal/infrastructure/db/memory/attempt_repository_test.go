package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

func TestAttemptRepository_RecentNewestFirst(t *testing.T) {
	r := NewAttemptRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Insert(ctx, &domain.Attempt{ID: id, Username: "alice", CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, r.Insert(ctx, &domain.Attempt{ID: "x", Username: "bob", CreatedAt: base}))

	got, err := r.Recent(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}

func TestAttemptRepository_Totals(t *testing.T) {
	r := NewAttemptRepository()
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &domain.Attempt{Username: "alice", Score: 50, DurationSeconds: 600}))
	require.NoError(t, r.Insert(ctx, &domain.Attempt{Username: "alice", Score: 100, DurationSeconds: 300}))

	totals, err := r.Totals(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, totals.Attempts)
	require.InDelta(t, 75.0, totals.AverageScore, 0.001)
	require.InDelta(t, 100.0, totals.BestScore, 0.001)
	require.Equal(t, 900, totals.TotalTimeSeconds)

	empty, err := r.Totals(ctx, "nobody")
	require.NoError(t, err)
	require.Zero(t, empty.Attempts)
	require.Zero(t, empty.AverageScore)
}
