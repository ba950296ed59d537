// Package exam holds the exam-taking logic: the question model, scoring of
// closed questions, the countdown and the attempt runner that ties them
// together.
package exam

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultTimeLimit applies when an exam does not declare its own limit.
const DefaultTimeLimit = 45 * time.Minute

type QuestionType string

const (
	Closed QuestionType = "closed"
	Open   QuestionType = "open"
)

type Option struct {
	ID   string `json:"id"   validate:"required"`
	Text string `json:"text" validate:"required"`
}

type Question struct {
	ID            string       `json:"id"                    validate:"required"`
	Type          QuestionType `json:"type"                  validate:"required,oneof=closed open"`
	Prompt        string       `json:"question"              validate:"required"`
	Options       []Option     `json:"options,omitempty"     validate:"required_if=Type closed,dive"`
	CorrectAnswer string       `json:"correctAnswer"         validate:"required_if=Type closed"`
	Explanation   string       `json:"explanation,omitempty"`
	Topic         string       `json:"topic,omitempty"`
	Difficulty    string       `json:"difficulty,omitempty"`
}

func (q Question) hasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

type Exam struct {
	ID          string     `json:"id"                     validate:"required"`
	Title       string     `json:"title"                  validate:"required"`
	Description string     `json:"description,omitempty"`
	TimeLimit   Duration   `json:"time_limit,omitempty"   validate:"gte=0"`
	Questions   []Question `json:"questions"              validate:"required,min=1,dive"`
}

// Limit returns the declared time limit or DefaultTimeLimit.
func (e Exam) Limit() time.Duration {
	if e.TimeLimit <= 0 {
		return DefaultTimeLimit
	}
	return time.Duration(e.TimeLimit)
}

func (e Exam) question(id string) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Duration decodes either a Go duration string ("45m") or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val) * time.Second)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("time limit: %w", err)
		}
		*d = Duration(parsed)
	default:
		return errors.New("time limit: expected seconds or duration string")
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

var validate = validator.New()

// Load decodes an exam definition and checks it is complete enough to take.
func Load(r io.Reader) (Exam, error) {
	var e Exam
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Exam{}, fmt.Errorf("decode exam: %w", err)
	}
	if err := validate.Struct(e); err != nil {
		return Exam{}, fmt.Errorf("invalid exam: %w", err)
	}
	seen := make(map[string]struct{}, len(e.Questions))
	for _, q := range e.Questions {
		if _, dup := seen[q.ID]; dup {
			return Exam{}, fmt.Errorf("invalid exam: duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return e, nil
}
