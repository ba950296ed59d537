package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/core/ports"
)

const collectionAttempts = "attempts"

// AttemptRepository implements ports.AttemptRepository using MongoDB.
type AttemptRepository struct {
	col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{col: db.Collection(collectionAttempts)}
}

// EnsureIndexes creates the history index used by Recent and Totals.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *AttemptRepository) Insert(ctx context.Context, a *domain.Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("%w: insert attempt: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *AttemptRepository) Recent(ctx context.Context, username string, limit int) ([]domain.Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find attempts: %w", domain.ErrStorageUnavailable, err)
	}
	defer cur.Close(ctx)

	out := []domain.Attempt{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: decode attempts: %w", domain.ErrStorageUnavailable, err)
	}
	return out, nil
}

type totalsDoc struct {
	Attempts         int     `bson:"attempts"`
	AverageScore     float64 `bson:"average_score"`
	BestScore        float64 `bson:"best_score"`
	TotalTimeSeconds int     `bson:"total_time_seconds"`
}

func (r *AttemptRepository) Totals(ctx context.Context, username string) (ports.AttemptTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "attempts", Value: bson.M{"$sum": 1}},
			{Key: "average_score", Value: bson.M{"$avg": "$score"}},
			{Key: "best_score", Value: bson.M{"$max": "$score"}},
			{Key: "total_time_seconds", Value: bson.M{"$sum": "$duration_seconds"}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return ports.AttemptTotals{}, fmt.Errorf("%w: aggregate attempts: %w", domain.ErrStorageUnavailable, err)
	}
	defer cur.Close(ctx)

	var docs []totalsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return ports.AttemptTotals{}, fmt.Errorf("%w: decode totals: %w", domain.ErrStorageUnavailable, err)
	}
	if len(docs) == 0 {
		return ports.AttemptTotals{}, nil
	}
	d := docs[0]
	return ports.AttemptTotals{
		Attempts:         d.Attempts,
		AverageScore:     d.AverageScore,
		BestScore:        d.BestScore,
		TotalTimeSeconds: d.TotalTimeSeconds,
	}, nil
}

func (r *AttemptRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}
