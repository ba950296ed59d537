package devbackend

import (
	"sync"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

// sampleExams is what every new account starts with.
var sampleExams = []domain.ExamListing{
	{ID: "1", QuestionCount: 5, TemplateTopics: "Computer science fundamentals"},
	{ID: "2", QuestionCount: 10, TemplateTopics: "Data structures, Algorithms"},
	{ID: "3", QuestionCount: 20},
}

type exams struct {
	mu     sync.RWMutex
	byUser map[string][]domain.ExamListing
}

func newExams() *exams {
	return &exams{byUser: make(map[string][]domain.ExamListing)}
}

func (e *exams) seed(username string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byUser[username] = append([]domain.ExamListing(nil), sampleExams...)
}

func (e *exams) list(username string) []domain.ExamListing {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := append([]domain.ExamListing{}, e.byUser[username]...)
	return out
}
