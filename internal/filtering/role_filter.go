package filtering

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/mock-interview/internal/backend"
)

const roleFilterName = "role"

type roleFilter struct {
	role    string
	enabled bool
	reason  string
}

// NewRole creates a filter that keeps interviews whose job role contains role.
func NewRole(role string) Filter {
	return &roleFilter{role: strings.TrimSpace(role), enabled: true}
}

func (f *roleFilter) Name() string { return roleFilterName }

func (f *roleFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *roleFilter) IsEnabled() bool { return f.enabled }

func (f *roleFilter) Validate() error {
	if f.role == "" {
		return errors.New("role must not be empty")
	}
	return nil
}

func (f *roleFilter) Apply(_ context.Context, v *backend.Interviews) (*backend.Interviews, Step, error) {
	initial := v.Len()
	excluded := v.Exclude(func(i *backend.Interview) bool {
		return !i.MatchRole(f.role)
	})

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *roleFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: map[string]string{"role": f.role}}
}
