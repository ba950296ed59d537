package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExamID accepts both numeric and string identifiers from the backend.
type ExamID string

func (id *ExamID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ExamID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("exam id: %w", err)
	}
	*id = ExamID(n.String())
	return nil
}

// ExamListing is one entry of the backend's GET /exams answer.
type ExamListing struct {
	ID             ExamID `json:"id"              validate:"required"`
	QuestionCount  int    `json:"question_count"  validate:"gte=0"`
	TemplateTopics string `json:"template_topics,omitempty"`
}

// ExamSummary is the card shown in the exam list.
type ExamSummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Difficulty       string `json:"difficulty"`
	QuestionCount    int    `json:"question_count"`
}

// Summarize derives the display card for a listing: three minutes per
// question with a fifteen minute floor, difficulty by question count.
func Summarize(l ExamListing) ExamSummary {
	topics := l.TemplateTopics
	if topics == "" {
		topics = "various topics"
	}
	minutes := l.QuestionCount * 3
	if minutes < 15 {
		minutes = 15
	}
	return ExamSummary{
		ID:               string(l.ID),
		Title:            "Exam " + string(l.ID),
		Description:      "Based on " + topics,
		EstimatedMinutes: minutes,
		Difficulty:       Difficulty(l.QuestionCount),
		QuestionCount:    l.QuestionCount,
	}
}

func Difficulty(questionCount int) string {
	switch {
	case questionCount <= 5:
		return "easy"
	case questionCount <= 10:
		return "medium"
	default:
		return "hard"
	}
}
