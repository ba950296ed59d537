// Package backend is the HTTP client for the exam backend service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/core/domain"
)

const maxBodyBytes = 1 << 20

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the success body of POST /login.
type TokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// MessageResponse is the body of register, logout and most error answers.
type MessageResponse struct {
	Message string `json:"message"`
}

// Response is a backend answer: its status and raw JSON body.
type Response struct {
	Status int
	Body   json.RawMessage
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Message returns the "message" field of the body, or "" when absent.
func (r *Response) Message() string {
	var m MessageResponse
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return ""
	}
	return m.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New builds a client for baseURL. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) Login(ctx context.Context, in Credentials) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/login", "", in)
}

func (c *Client) Register(ctx context.Context, in Registration) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/register", "", in)
}

func (c *Client) Profile(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/profile", token, nil)
}

func (c *Client) Logout(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/logout", token, nil)
}

func (c *Client) Exams(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/exams", token, nil)
}

// Ping reports whether the backend answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", method, path, domain.ErrUpstreamUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s %s: status %d with non-JSON body: %w", method, path, resp.StatusCode, domain.ErrInvalidUpstreamResponse)
	}
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
