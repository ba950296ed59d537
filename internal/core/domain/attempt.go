package domain

import "time"

// Attempt is one finished exam sitting of a user.
type Attempt struct {
	ID              string    `json:"id"               bson:"_id"`
	Username        string    `json:"username"         bson:"username"`
	ExamID          string    `json:"exam_id"          bson:"exam_id"`
	Correct         int       `json:"correct"          bson:"correct"`
	ClosedTotal     int       `json:"closed_total"     bson:"closed_total"`
	OpenTotal       int       `json:"open_total"       bson:"open_total"`
	Answered        int       `json:"answered"         bson:"answered"`
	Score           float64   `json:"score"            bson:"score"`
	DurationSeconds int       `json:"duration_seconds" bson:"duration_seconds"`
	TimedOut        bool      `json:"timed_out"        bson:"timed_out"`
	CreatedAt       time.Time `json:"created_at"       bson:"created_at"`
}

// ScorePercent is the share of correctly answered closed questions. Open
// questions never enter the denominator.
func ScorePercent(correct, closedTotal int) float64 {
	if closedTotal <= 0 {
		return 0
	}
	return float64(correct) / float64(closedTotal) * 100
}

// Statistics aggregates a user's attempt history.
type Statistics struct {
	Attempts         int       `json:"attempts"`
	AverageScore     float64   `json:"average_score"`
	BestScore        float64   `json:"best_score"`
	TotalTimeSeconds int       `json:"total_time_seconds"`
	Recent           []Attempt `json:"recent"`
}
