package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnscope/examprep-web/internal/api/middleware"
	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

func TestExamHandler_List(t *testing.T) {
	stub := &stubBackend{
		examsFn: func(_ context.Context, token string) (*backend.Response, error) {
			if token != "abc123" {
				t.Fatalf("unexpected token %q", token)
			}
			return reply(http.StatusOK, `[{"id":1,"question_count":4,"template_topics":"graphs"}]`)
		},
	}
	rec := httptest.NewRecorder()
	c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/api/exams", nil), rec)
	c.Set(middleware.TokenKey, "abc123")

	if err := NewExamHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestExamHandler_List_InvalidSchema(t *testing.T) {
	stub := &stubBackend{
		examsFn: func(context.Context, string) (*backend.Response, error) {
			return reply(http.StatusOK, `{"exams":[]}`)
		},
	}
	c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/api/exams", nil), httptest.NewRecorder())
	c.Set(middleware.TokenKey, "abc123")

	if err := NewExamHandler(stub).List(c); !errors.Is(err, domain.ErrInvalidUpstreamResponse) {
		t.Fatalf("expected ErrInvalidUpstreamResponse, got %v", err)
	}
}
