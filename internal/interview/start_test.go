package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
)

type fakeCreator struct {
	calls   int
	request backend.InterviewCreate
}

func (f *fakeCreator) CreateInterview(_ context.Context, r backend.InterviewCreate) (*backend.Interview, error) {
	f.calls++
	f.request = r
	return &backend.Interview{ID: 42, ProfileID: r.ProfileID, JobRole: r.JobRole}, nil
}

func TestStartRequestValidate(t *testing.T) {
	profile := &backend.Profile{ID: 7}

	tests := []struct {
		name string
		req  StartRequest
		want error
	}{
		{
			name: "valid",
			req:  StartRequest{Profile: profile, JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: 30},
		},
		{
			name: "no profile",
			req:  StartRequest{JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: 30},
			want: ErrNoProfileSelected,
		},
		{
			name: "profile without id",
			req:  StartRequest{Profile: &backend.Profile{}, JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: 30},
			want: ErrNoProfileSelected,
		},
		{
			name: "short role",
			req:  StartRequest{Profile: profile, JobRole: " a ", Mode: backend.ModeMixed, DurationMinutes: 30},
			want: ErrInvalidJobRole,
		},
		{
			name: "unknown mode",
			req:  StartRequest{Profile: profile, JobRole: "SRE", Mode: "casual", DurationMinutes: 30},
			want: ErrInvalidMode,
		},
		{
			name: "too short",
			req:  StartRequest{Profile: profile, JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: MinDuration - 1},
			want: ErrInvalidDuration,
		},
		{
			name: "too long",
			req:  StartRequest{Profile: profile, JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: MaxDuration + 1},
			want: ErrInvalidDuration,
		},
		{
			name: "bounds inclusive",
			req:  StartRequest{Profile: profile, JobRole: "SRE", Mode: backend.ModeTechnical, DurationMinutes: MaxDuration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStartRejectsInvalidRequestWithoutCall(t *testing.T) {
	api := &fakeCreator{}
	_, err := Start(context.Background(), api, StartRequest{JobRole: "SRE", Mode: backend.ModeMixed, DurationMinutes: 30})
	if !errors.Is(err, ErrNoProfileSelected) {
		t.Fatalf("expected ErrNoProfileSelected, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no create request, got %d", api.calls)
	}
}

func TestStartTrimsFields(t *testing.T) {
	api := &fakeCreator{}
	_, err := Start(context.Background(), api, StartRequest{
		Profile:         &backend.Profile{ID: 3},
		JobRole:         "  Platform Engineer ",
		JobDescription:  " k8s ",
		Mode:            backend.ModeBehavioral,
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if api.request.JobRole != "Platform Engineer" || api.request.JobDescription != "k8s" {
		t.Fatalf("unexpected request %+v", api.request)
	}
}

func TestStartSendsExactBodyAndReturnsID(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/interviews/" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"profile_id":7,"job_role":"Backend Engineer","interview_mode":"technical","duration_minutes":30,"is_completed":false,"started_at":"2024-05-01T10:00:00"}`))
	}))
	defer srv.Close()

	client := backend.New(zap.NewNop(), nil, srv.URL)
	client.HTTPClient = srv.Client()

	created, err := Start(context.Background(), client, StartRequest{
		Profile:         &backend.Profile{ID: 7},
		JobRole:         "Backend Engineer",
		Mode:            backend.ModeTechnical,
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("expected interview 42, got %d", created.ID)
	}

	want := map[string]any{
		"profile_id":       float64(7),
		"job_role":         "Backend Engineer",
		"job_description":  "",
		"interview_mode":   "technical",
		"duration_minutes": float64(30),
	}
	if len(body) != len(want) {
		t.Fatalf("unexpected body %v", body)
	}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("field %s: expected %v, got %v", k, v, body[k])
		}
	}
}

func TestPresets(t *testing.T) {
	for _, p := range Presets {
		req := StartRequest{Profile: &backend.Profile{ID: 1}, JobRole: p.JobRole, Mode: p.Mode, DurationMinutes: p.DurationMinutes}
		if err := req.Validate(); err != nil {
			t.Fatalf("preset %s is invalid: %v", p.Name, err)
		}
	}

	p, ok := FindPreset("product-manager")
	if !ok || p.Mode != backend.ModeBehavioral || p.DurationMinutes != 45 {
		t.Fatalf("unexpected preset %+v (found=%v)", p, ok)
	}
	if _, ok := FindPreset("astronaut"); ok {
		t.Fatalf("unexpected preset match")
	}
}
