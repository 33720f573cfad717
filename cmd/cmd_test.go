package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/identity"
	"github.com/spigell/mock-interview/internal/interview"
	"github.com/spigell/mock-interview/internal/voice"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation sentinel",
			err:  fmt.Errorf("submit: %w", interview.ErrEmptyAnswer),
			want: "submit: please provide an answer before submitting",
		},
		{
			name: "backend detail",
			err:  fmt.Errorf("start interview: %w", &backend.RequestError{StatusCode: 400, Status: "400 Bad Request", Body: `{"detail":"Profile not found"}`}),
			want: "Profile not found",
		},
		{
			name: "unauthorized",
			err:  &backend.RequestError{StatusCode: 401, Status: "401 Unauthorized", Body: `{"detail":"Incorrect email or password"}`},
			want: "Incorrect email or password; try logging in again",
		},
		{
			name: "server error without body",
			err:  &backend.RequestError{StatusCode: 500, Status: "500 Internal Server Error"},
			want: "the interview service answered 500 Internal Server Error",
		},
		{
			name: "not logged in",
			err:  identity.ErrNoIdentity,
			want: "you are not logged in; run `mock-interview login` or `mock-interview guest`",
		},
		{
			name: "cancelled",
			err:  errCancelled,
			want: "cancelled",
		},
		{
			name: "timeout",
			err:  fmt.Errorf("list: %w", context.DeadlineExceeded),
			want: "the interview service did not answer in time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUserMessageTransportError(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://localhost:1/", Err: errors.New("connection refused")}
	if got := userMessage(err); !strings.HasPrefix(got, "could not reach the interview service") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetConfigDefaults(t *testing.T) {
	t.Cleanup(func() { viper.Set("request-timeout", nil) })
	viper.Set("request-timeout", "15s")

	cfg, err := getConfig()
	if err != nil {
		t.Fatalf("getConfig: %v", err)
	}

	if cfg.APIURL != backend.DefaultAPIURL {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout)
	}
	if cfg.Voice == nil || !cfg.Voice.Enabled || cfg.Voice.Language != voice.DefaultLanguage || cfg.Voice.SampleRate != voice.DefaultSampleRate {
		t.Fatalf("unexpected voice config %+v", cfg.Voice)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}
	for _, arg := range []string{"", "0", "-1", "abc"} {
		if _, err := parseID(arg); err == nil {
			t.Fatalf("expected error for %q", arg)
		}
	}
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) (*env, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := identity.Open(filepath.Join(t.TempDir(), "identity.yaml"))
	if err != nil {
		t.Fatalf("open identity: %v", err)
	}

	client := backend.New(zap.NewNop(), store, srv.URL)
	client.HTTPClient = srv.Client()

	out := &bytes.Buffer{}
	return &env{
		logger:   zap.NewNop(),
		config:   &Config{Voice: &voice.Config{}},
		identity: store,
		client:   client,
		out:      out,
	}, out
}

func TestRequireIdentityWithoutTerminal(t *testing.T) {
	e, _ := newTestEnv(t, http.NotFound)

	if err := requireIdentity(context.Background(), e); !errors.Is(err, identity.ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}

	if err := e.identity.Set(identity.Identity{Email: "ada@example.com"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := requireIdentity(context.Background(), e); err != nil {
		t.Fatalf("requireIdentity: %v", err)
	}
}

func TestLoginStoresIdentityOnlyOnSuccess(t *testing.T) {
	e, out := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("X-User-Email") != "" {
			t.Errorf("login must not carry an identity header")
		}
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "wrong") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"token","token_type":"bearer"}`))
	})

	err := loginWith(context.Background(), e, backend.Credentials{Email: "ada@example.com", Password: "wrong"})
	if backend.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if !e.identity.Current().Empty() {
		t.Fatalf("identity must stay empty after a failed login")
	}

	if err := loginWith(context.Background(), e, backend.Credentials{Email: "ada@example.com", Password: "secret"}); err != nil {
		t.Fatalf("loginWith: %v", err)
	}
	if got := e.identity.Current(); got.Email != "ada@example.com" || got.AccessToken != "token" {
		t.Fatalf("unexpected identity %+v", got)
	}
	if !strings.Contains(out.String(), "Logged in as ada@example.com.") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShowSummary(t *testing.T) {
	e, out := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/interviews/42":
			_, _ = w.Write([]byte(`{"id":42,"job_role":"SRE","interview_mode":"mixed","duration_minutes":30,"is_completed":true,"questions":[{"id":1,"question_text":"Why SRE?","question_type":"initial","user_response":"I like pagers"},{"id":2,"question_text":"Tell me about an outage","question_type":"follow_up","user_response":null}]}`))
		case "/interviews/42/feedback":
			_, _ = w.Write([]byte(`{"feedback":["Good motivation."]}`))
		default:
			http.NotFound(w, r)
		}
	})

	if err := showSummary(context.Background(), e, 42); err != nil {
		t.Fatalf("showSummary: %v", err)
	}

	for _, want := range []string{
		"1. Why SRE?",
		"Answer: I like pagers",
		"Feedback: Good motivation.",
		"2. Tell me about an outage",
		"Answer: No answer given.",
		"Feedback: Feedback not available.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output misses %q:\n%s", want, out.String())
		}
	}
}

// fakeInterviewServer serves one interview with a single open question and
// appends a new question on every generation request.
type fakeInterviewServer struct {
	mu        sync.Mutex
	answers   map[int]string
	questions int
	generated int
}

func (f *fakeInterviewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/interviews/42":
		var qs []string
		for id := 1; id <= f.questions; id++ {
			response := "null"
			if a, ok := f.answers[id]; ok {
				response = fmt.Sprintf("%q", a)
			}
			qs = append(qs, fmt.Sprintf(`{"id":%d,"question_text":"question %d","question_type":"follow_up","user_response":%s}`, id, id, response))
		}
		fmt.Fprintf(w, `{"id":42,"profile_id":7,"job_role":"SRE","interview_mode":"mixed","duration_minutes":30,"questions":[%s]}`, strings.Join(qs, ","))
	case r.URL.Path == "/profiles/7":
		_, _ = w.Write([]byte(`{"id":7,"full_name":"Ada","career_role":"SRE","skills":"Go"}`))
	case r.URL.Path == "/interviews/42/generate-question":
		f.generated++
		f.questions++
		_, _ = w.Write([]byte(`{"question":"next","question_type":"follow_up","prompt":""}`))
	case strings.HasPrefix(r.URL.Path, "/interviews/42/questions/"):
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/interviews/42/questions/%d/respond", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.answers[id] = strings.Trim(string(body), `"`)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	default:
		http.NotFound(w, r)
	}
}

func TestInterviewStepAnswerAndNext(t *testing.T) {
	srv := &fakeInterviewServer{answers: map[int]string{}, questions: 1}
	e, out := newTestEnv(t, srv.ServeHTTP)

	if err := interviewStep(context.Background(), e, 42, "my answer", true, true, false); err != nil {
		t.Fatalf("interviewStep: %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.answers[1] != "my answer" {
		t.Fatalf("unexpected answers %v", srv.answers)
	}
	if srv.generated != 1 {
		t.Fatalf("expected one generation request, got %d", srv.generated)
	}
	if !strings.Contains(out.String(), "Question 2 (follow_up):") {
		t.Fatalf("expected the generated question in output:\n%s", out.String())
	}
}

func TestInterviewStepNextWithOpenQuestion(t *testing.T) {
	srv := &fakeInterviewServer{answers: map[int]string{}, questions: 1}
	e, out := newTestEnv(t, srv.ServeHTTP)

	if err := interviewStep(context.Background(), e, 42, "", false, true, false); err != nil {
		t.Fatalf("interviewStep: %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.generated != 0 {
		t.Fatalf("expected no generation request, got %d", srv.generated)
	}
	if !strings.Contains(out.String(), "question 1") {
		t.Fatalf("expected the open question in output:\n%s", out.String())
	}
}
