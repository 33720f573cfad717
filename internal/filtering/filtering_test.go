package filtering

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/mock-interview/internal/backend"
)

func history() *backend.Interviews {
	return &backend.Interviews{Items: []*backend.Interview{
		{ID: 1, JobRole: "Backend Engineer", InterviewMode: backend.ModeTechnical, IsCompleted: true},
		{ID: 2, JobRole: "Product Manager", InterviewMode: backend.ModeBehavioral},
		{ID: 3, JobRole: "Senior backend developer", InterviewMode: backend.ModeMixed},
		{ID: 4, JobRole: "Data Scientist", InterviewMode: backend.ModeTechnical, IsCompleted: true},
	}}
}

func ids(v *backend.Interviews) []int {
	out := make([]int, 0, v.Len())
	for _, i := range v.Items {
		out = append(out, i.ID)
	}
	return out
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []int
		wantErr bool
	}{
		{name: "no filters", opts: Options{}, want: []int{1, 2, 3, 4}},
		{name: "all statuses", opts: Options{Status: StatusAll}, want: []int{1, 2, 3, 4}},
		{name: "completed", opts: Options{Status: StatusCompleted}, want: []int{1, 4}},
		{name: "in progress", opts: Options{Status: StatusInProgress}, want: []int{2, 3}},
		{name: "mode", opts: Options{Mode: "Technical"}, want: []int{1, 4}},
		{name: "role substring ignores case", opts: Options{Role: "backend"}, want: []int{1, 3}},
		{name: "combined", opts: Options{Status: StatusCompleted, Role: "backend"}, want: []int{1}},
		{name: "unknown status", opts: Options{Status: "paused"}, wantErr: true},
		{name: "unknown mode", opts: Options{Mode: "casual"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(context.Background(), zap.NewNop(), Steps(tt.opts), history())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			gotIDs := ids(got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, gotIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, gotIDs)
				}
			}
		})
	}
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	_, err := Run(context.Background(), zap.New(core), Steps(Options{Status: StatusCompleted}), history())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	steps := observed.FilterMessage("filter step").All()
	if len(steps) != 1 {
		t.Fatalf("expected one applied step, got %d", len(steps))
	}
	fields := steps[0].ContextMap()
	if fields["name"] != statusFilterName || fields["initial"] != int64(4) || fields["dropped"] != int64(2) || fields["left"] != int64(2) {
		t.Fatalf("unexpected step fields %v", fields)
	}
	if observed.FilterMessage("filter disabled").Len() != 2 {
		t.Fatalf("expected disabled filters to be logged")
	}
}

func TestDescribe(t *testing.T) {
	statuses := Describe(Steps(Options{Role: "sre"}))
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	byName := map[string]Status{}
	for _, s := range statuses {
		byName[s.Name] = s
	}
	if byName[roleFilterName].Details["role"] != "sre" || !byName[roleFilterName].Enabled {
		t.Fatalf("unexpected role status %+v", byName[roleFilterName])
	}
	if byName[statusFilterName].Enabled || byName[statusFilterName].Reason == "" {
		t.Fatalf("status filter should be disabled with a reason: %+v", byName[statusFilterName])
	}
	if byName[modeFilterName].Enabled {
		t.Fatalf("mode filter should be disabled")
	}
}
