package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/mock-interview/internal/backend"
)

const (
	statusFilterName = "status"

	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"
)

type statusFilter struct {
	status  string
	enabled bool
	reason  string
}

// NewStatus creates a filter that keeps interviews with the given completion status.
func NewStatus(status string) Filter {
	return &statusFilter{status: status, enabled: true}
}

func (f *statusFilter) Name() string { return statusFilterName }

func (f *statusFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *statusFilter) IsEnabled() bool { return f.enabled }

func (f *statusFilter) Validate() error {
	switch f.status {
	case StatusAll, StatusCompleted, StatusInProgress:
		return nil
	default:
		return fmt.Errorf("unknown status %q, expected one of %s, %s, %s", f.status, StatusAll, StatusCompleted, StatusInProgress)
	}
}

func (f *statusFilter) Apply(_ context.Context, v *backend.Interviews) (*backend.Interviews, Step, error) {
	initial := v.Len()
	if f.status == StatusAll {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	wantCompleted := f.status == StatusCompleted
	excluded := v.Exclude(func(i *backend.Interview) bool {
		return i.IsCompleted != wantCompleted
	})

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *statusFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: map[string]string{"status": f.status}}
}
