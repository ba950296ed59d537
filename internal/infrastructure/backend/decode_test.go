package backend

import (
	"errors"
	"testing"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

func TestDecode_RejectsMissingFields(t *testing.T) {
	cases := map[string]string{
		"empty object": `{}`,
		"wrong type":   `{"access_token": 12}`,
		"null":         `null`,
		"truncated":    `{"access_token":`,
		"empty token":  `{"access_token": ""}`,
	}
	for name, body := range cases {
		_, err := Decode[TokenResponse]([]byte(body))
		if !errors.Is(err, domain.ErrInvalidUpstreamResponse) {
			t.Errorf("%s: expected ErrInvalidUpstreamResponse, got %v", name, err)
		}
	}
}

func TestDecode_ExamListValidatesItems(t *testing.T) {
	items, err := Decode[[]domain.ExamListing]([]byte(`[{"id":1,"question_count":3},{"id":"b","question_count":0,"template_topics":"trees"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[1].TemplateTopics != "trees" {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, err := Decode[[]domain.ExamListing]([]byte(`[{"question_count":3}]`)); !errors.Is(err, domain.ErrInvalidUpstreamResponse) {
		t.Fatalf("expected missing id to fail, got %v", err)
	}
	if _, err := Decode[[]domain.ExamListing]([]byte(`{"id":1}`)); !errors.Is(err, domain.ErrInvalidUpstreamResponse) {
		t.Fatalf("expected object body to fail, got %v", err)
	}
	if _, err := Decode[[]domain.ExamListing]([]byte(`null`)); !errors.Is(err, domain.ErrInvalidUpstreamResponse) {
		t.Fatalf("expected null body to fail, got %v", err)
	}
}

func TestDecode_EmptyArrayIsValid(t *testing.T) {
	items, err := Decode[[]domain.ExamListing]([]byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
