package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnscope/examprep-web/internal/api/handler"
	"github.com/learnscope/examprep-web/internal/core/service"
	"github.com/learnscope/examprep-web/internal/infrastructure/backend"
	"github.com/learnscope/examprep-web/internal/infrastructure/db/memory"
	"github.com/learnscope/examprep-web/internal/pkg/config"
)

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		BackendURL: backendURL,
		Timeout:    5 * time.Second,
		Cookie: config.CookieConfig{
			Name:   "auth_token",
			MaxAge: 86400,
		},
		Guard: config.GuardConfig{
			ProtectedPaths: []string{"/dashboard", "/profile", "/courses", "/learning"},
			AuthPaths:      []string{"/login", "/register", "/forgot-password"},
			LoginPath:      "/login",
			HomePath:       "/dashboard",
		},
	}
}

// fakeBackend answers like the upstream auth service for a single user.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var in backend.Credentials
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in.Username != "alice" || in.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-alice"}`))
	})
	mux.HandleFunc("GET /profile", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok-alice" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"username":"alice","email":"alice@example.com"}`))
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Successfully logged out"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	upstream := fakeBackend(t)
	cfg := testConfig(upstream.URL)
	client := backend.New(cfg.BackendURL, cfg.Timeout, zerolog.Nop())

	e, err := NewRouter(Deps{
		Config:   cfg,
		Backend:  client,
		Attempts: service.NewAttemptService(memory.NewAttemptRepository(), zerolog.Nop()),
		Health:   map[string]handler.Pinger{"backend": client},
		Log:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return e
}

func TestRouter_GuardRedirectsProtectedPage(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirect=%2Fdashboard%2Fstats" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestRouter_GuardRedirectsLoggedInAwayFromLogin(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok-alice"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_LoginThenProfile(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tok backend.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil || tok.AccessToken != "tok-alice" {
		t.Fatalf("unexpected login body %s", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "auth_token=tok-alice") {
		t.Fatalf("expected auth cookie, got %q", rec.Header().Get("Set-Cookie"))
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected profile body %s", rec.Body.String())
	}
}

func TestRouter_ProfileWithoutBearer(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_LoginRejected(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("no cookie expected on rejected login")
	}
}

func TestRouter_UnreadableBodyIsGeneric500(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/login", "/api/register"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"username":`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rec.Code)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid json: %v", path, err)
		}
		if body.Message != "Internal server error" {
			t.Fatalf("%s: expected generic message, got %q", path, body.Message)
		}
	}
}

func TestRouter_AttemptRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attempts",
		strings.NewReader(`{"exam_id":"1","correct":3,"closed_total":4,"answered":4,"duration_seconds":600}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok-alice")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/statistics", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("statistics: expected 200, got %d", rec.Code)
	}
	var stats struct {
		Attempts  int     `json:"attempts"`
		BestScore float64 `json:"best_score"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if stats.Attempts != 1 || stats.BestScore != 75 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/swagger/doc.json"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
