package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
)

// Filter represents a single filtering step applied to the interview history.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, v *backend.Interviews) (*backend.Interviews, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Options are the history filters selected on the command line.
type Options struct {
	Status string
	Mode   string
	Role   string
}

// Steps builds the filter pipeline for the options. Filters without a value
// are kept in the list but disabled.
func Steps(opts Options) []Filter {
	steps := []Filter{
		NewStatus(opts.Status),
		NewMode(opts.Mode),
		NewRole(opts.Role),
	}

	if opts.Status == "" || opts.Status == StatusAll {
		DisableByName(steps, statusFilterName, "all statuses requested")
	}
	if opts.Mode == "" {
		DisableByName(steps, modeFilterName, "no mode requested")
	}
	if opts.Role == "" {
		DisableByName(steps, roleFilterName, "no role requested")
	}

	return steps
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the remaining interviews.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, v *backend.Interviews) (*backend.Interviews, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		v = next
	}

	return v, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
