package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/learnscope/examprep-web/internal/client/api"
	"github.com/learnscope/examprep-web/internal/client/app"
	"github.com/learnscope/examprep-web/internal/client/authstate"
	"github.com/learnscope/examprep-web/internal/client/session"
	"github.com/learnscope/examprep-web/internal/client/tokenstore"
)

const examJSON = `{
  "id": "cs-1",
  "title": "Computer Science Fundamentals",
  "time_limit": %s,
  "questions": [
    {"id": "q1", "type": "closed", "question": "2+2?", "options": [{"id": "a", "text": "3"}, {"id": "b", "text": "4"}], "correctAnswer": "b"},
    {"id": "q2", "type": "open", "question": "Explain recursion."},
    {"id": "q3", "type": "closed", "question": "Stack order?", "options": [{"id": "a", "text": "FIFO"}, {"id": "c", "text": "LIFO"}], "correctAnswer": "c"},
    {"id": "q4", "type": "closed", "question": "O(log n)?", "options": [{"id": "a", "text": "linear scan"}, {"id": "c", "text": "binary search"}], "correctAnswer": "c"},
    {"id": "q5", "type": "open", "question": "Describe a hash map."}
  ]
}`

func writeExam(t *testing.T, limit string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exam.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(examJSON, "%s", limit, 1)), 0o600))
	return path
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"abc123"}`))
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"username":"alice","email":"alice@example.com"}`))
	})
	mux.HandleFunc("GET /api/exams", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"question_count":4,"template_topics":"graphs"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := tokenstore.New(tokenstore.NewMemoryStorage(), tokenstore.NewMemoryStorage(), zerolog.Nop())
	sess := session.New(store, nil, nil)
	client := api.New(srv.URL, srv.Client(), zerolog.Nop())
	return app.New(client, sess, authstate.New(sess, client, nil, zerolog.Nop()), zerolog.Nop())
}

func TestRun_LoginWhoamiExams(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("whoami\nlogin\nalice\nsecret\nwhoami\nexams\nbogus\nexit\n")
	r := New(newTestApp(t), in, &out, zerolog.Nop())

	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	require.Contains(t, got, "Not logged in.")
	require.Contains(t, got, "Welcome back, alice.")
	require.Contains(t, got, "Continue to /dashboard")
	require.Contains(t, got, "Logged in as alice <alice@example.com>")
	require.Contains(t, got, "Exam 1")
	require.Contains(t, got, "Based on graphs")
	require.Contains(t, got, `unknown command "bogus"`)
}

func TestRun_LoginValidation(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("login\nalice\n\n")
	r := New(newTestApp(t), in, &out, zerolog.Nop())

	require.NoError(t, r.Run(context.Background()))
	require.Contains(t, out.String(), "Username and password are required")
}

func TestRun_PasswordReader(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("login --remember\nalice\nexit\n")
	calls := 0
	r := New(newTestApp(t), in, &out, zerolog.Nop(), WithPasswordReader(func() (string, error) {
		calls++
		return "secret", nil
	}))

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 1, calls)
	require.Contains(t, out.String(), "Welcome back, alice.")
}

func TestTake_ScoresAndSkipsSaveWhenLoggedOut(t *testing.T) {
	var out bytes.Buffer
	path := writeExam(t, "60")
	in := strings.NewReader("take " + path + "\nb\nan essay\nx\nc\na\nanother essay\nsubmit\nexit\n")
	r := New(newTestApp(t), in, &out, zerolog.Nop())

	require.NoError(t, r.Run(context.Background()))

	got := out.String()
	require.Contains(t, got, "x is not one of the options.")
	require.Contains(t, got, "Score: 66.7% (2 of 3 closed questions correct, 2 open questions not graded)")
	require.Contains(t, got, "Attempt not saved: You are not logged in.")
	require.NotContains(t, got, "Time's up!")
}

func TestTake_AutoSubmitsOnExpiry(t *testing.T) {
	var out bytes.Buffer
	path := writeExam(t, "3")
	pr, pw := io.Pipe()
	defer pw.Close()

	r := New(newTestApp(t), pr, &out, zerolog.Nop(), WithTickInterval(time.Millisecond))
	defer r.lines.close()

	done := make(chan error, 1)
	go func() { done <- r.take(context.Background(), path) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("attempt did not expire")
	}

	got := out.String()
	require.Contains(t, got, "Time's up!")
	require.Contains(t, got, "Score: 0.0%")
}
