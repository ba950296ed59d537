package exam

import "fmt"

// Result is the tally of an attempt.
type Result struct {
	Correct     int     `json:"correct"`
	ClosedTotal int     `json:"closed_total"`
	OpenTotal   int     `json:"open_total"`
	Answered    int     `json:"answered"`
	Percent     float64 `json:"percent"`
}

// Display renders the percentage with one decimal, e.g. "66.7%".
func (r Result) Display() string {
	return fmt.Sprintf("%.1f%%", r.Percent)
}

// Score grades answers (question id to option id). Only closed questions
// are graded; open questions count towards Answered but never towards the
// percentage.
func Score(e Exam, answers map[string]string) Result {
	var r Result
	for _, q := range e.Questions {
		ans, ok := answers[q.ID]
		if ok && ans != "" {
			r.Answered++
		}
		switch q.Type {
		case Closed:
			r.ClosedTotal++
			if ok && ans == q.CorrectAnswer {
				r.Correct++
			}
		case Open:
			r.OpenTotal++
		}
	}
	if r.ClosedTotal > 0 {
		r.Percent = float64(r.Correct) / float64(r.ClosedTotal) * 100
	}
	return r
}
