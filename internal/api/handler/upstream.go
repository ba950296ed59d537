package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnscope/examprep-web/internal/api/metrics"
	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

// Backend is the subset of the backend client the proxy routes call.
type Backend interface {
	Login(ctx context.Context, in backend.Credentials) (*backend.Response, error)
	Register(ctx context.Context, in backend.Registration) (*backend.Response, error)
	Profile(ctx context.Context, token string) (*backend.Response, error)
	Logout(ctx context.Context, token string) (*backend.Response, error)
	Exams(ctx context.Context, token string) (*backend.Response, error)
}

type messageResponse struct {
	Message string `json:"message"`
}

// observe records the outcome of one backend call. err is either the call
// error or a later schema failure.
func observe(route string, start time.Time, resp *backend.Response, err error) {
	metrics.ProxyUpstreamDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	metrics.ProxyUpstreamTotal.WithLabelValues(route, outcome(resp, err)).Inc()
}

func outcome(resp *backend.Response, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidUpstreamResponse):
		return metrics.OutcomeInvalidResponse
	case err != nil:
		return metrics.OutcomeTransportError
	case resp.OK():
		return metrics.OutcomeOK
	default:
		return metrics.OutcomeBackendError
	}
}

// unreadableBody turns a bind failure into a plain error so the error
// handler answers with the generic 500 instead of echo's 400.
func unreadableBody(route string, err error) error {
	return fmt.Errorf("decode %s body: %v", route, err)
}
