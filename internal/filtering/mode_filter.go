package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/mock-interview/internal/backend"
)

const modeFilterName = "mode"

type modeFilter struct {
	mode    string
	enabled bool
	reason  string
}

// NewMode creates a filter that keeps interviews of one mode.
func NewMode(mode string) Filter {
	return &modeFilter{mode: strings.ToLower(strings.TrimSpace(mode)), enabled: true}
}

func (f *modeFilter) Name() string { return modeFilterName }

func (f *modeFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *modeFilter) IsEnabled() bool { return f.enabled }

func (f *modeFilter) Validate() error {
	if !backend.ValidMode(f.mode) {
		return fmt.Errorf("unknown mode %q, expected one of %s", f.mode, strings.Join(backend.Modes, ", "))
	}
	return nil
}

func (f *modeFilter) Apply(_ context.Context, v *backend.Interviews) (*backend.Interviews, Step, error) {
	initial := v.Len()
	excluded := v.Exclude(func(i *backend.Interview) bool {
		return i.InterviewMode != f.mode
	})

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}
