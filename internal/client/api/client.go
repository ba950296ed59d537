// Package api is the client of the gateway's same-origin /api surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
)

const maxBodyBytes = 1 << 20

// StatusError is a non-2xx gateway answer.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Message)
}

// Unauthorized reports whether the gateway rejected the credential.
func (e *StatusError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// AttemptRequest is the body of POST /api/attempts.
type AttemptRequest struct {
	ExamID          string `json:"exam_id"`
	Correct         int    `json:"correct"`
	ClosedTotal     int    `json:"closed_total"`
	OpenTotal       int    `json:"open_total"`
	Answered        int    `json:"answered"`
	DurationSeconds int    `json:"duration_seconds"`
	TimedOut        bool   `json:"timed_out"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New builds a client for the gateway at baseURL. httpClient carries the
// cookie jar shared with the session; nil uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Login returns the access token issued for the credentials.
func (c *Client) Login(ctx context.Context, username, password string, remember bool) (string, error) {
	body := map[string]any{"username": username, "password": password, "remember": remember}
	raw, err := c.do(ctx, http.MethodPost, "/api/login", "", body)
	if err != nil {
		return "", err
	}
	tok, err := backend.Decode[backend.TokenResponse](raw)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Register creates an account and returns the confirmation message.
func (c *Client) Register(ctx context.Context, in backend.Registration) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/register", "", in)
	if err != nil {
		return "", err
	}
	msg, err := backend.Decode[backend.MessageResponse](raw)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/profile", token, nil)
	if err != nil {
		return nil, err
	}
	p, err := backend.Decode[domain.Profile](raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/logout", token, nil)
	return err
}

// Exams returns the display cards of the caller's exams.
func (c *Client) Exams(ctx context.Context, token string) ([]domain.ExamSummary, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/exams", token, nil)
	if err != nil {
		return nil, err
	}
	listings, err := backend.Decode[[]domain.ExamListing](raw)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExamSummary, 0, len(listings))
	for _, l := range listings {
		out = append(out, domain.Summarize(l))
	}
	return out, nil
}

func (c *Client) RecordAttempt(ctx context.Context, token string, in AttemptRequest) (*domain.Attempt, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/attempts", token, in)
	if err != nil {
		return nil, err
	}
	var a domain.Attempt
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUpstreamResponse, err)
	}
	return &a, nil
}

// Statistics fetches the caller's history. A zero limit leaves the
// gateway default.
func (c *Client) Statistics(ctx context.Context, token string, limit int) (*domain.Statistics, error) {
	path := "/api/statistics"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	var s domain.Statistics
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUpstreamResponse, err)
	}
	return &s, nil
}

// do returns the body of a 2xx answer. Non-2xx answers become *StatusError
// carrying the gateway's message.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("gateway call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r := backend.Response{Status: resp.StatusCode, Body: raw}
		msg := r.Message()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &StatusError{Status: resp.StatusCode, Message: msg}
	}
	return raw, nil
}
