package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/mock-interview/internal/backend"
)

const (
	MinDuration     = 5
	MaxDuration     = 120
	DefaultDuration = 30
	DefaultMode     = backend.ModeMixed
	minJobRoleLen   = 2
)

var (
	ErrNoProfileSelected = errors.New("please select a profile first")
	ErrInvalidJobRole    = errors.New("job role must be at least 2 characters")
	ErrInvalidMode       = fmt.Errorf("interview mode must be one of %s", strings.Join(backend.Modes, ", "))
	ErrInvalidDuration   = fmt.Errorf("duration must be between %d and %d minutes", MinDuration, MaxDuration)
)

type Creator interface {
	CreateInterview(ctx context.Context, r backend.InterviewCreate) (*backend.Interview, error)
}

// StartRequest is the start-interview form.
type StartRequest struct {
	Profile         *backend.Profile
	JobRole         string
	JobDescription  string
	Mode            string
	DurationMinutes int
}

// Preset is a quick-start template for the start form.
type Preset struct {
	Name            string
	JobRole         string
	Mode            string
	DurationMinutes int
}

var Presets = []Preset{
	{Name: "software-engineer", JobRole: "Software Engineer", Mode: backend.ModeTechnical, DurationMinutes: 30},
	{Name: "product-manager", JobRole: "Product Manager", Mode: backend.ModeBehavioral, DurationMinutes: 45},
	{Name: "data-scientist", JobRole: "Data Scientist", Mode: backend.ModeMixed, DurationMinutes: 60},
}

func FindPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

func (r StartRequest) Validate() error {
	if r.Profile == nil || r.Profile.ID == 0 {
		return ErrNoProfileSelected
	}
	if len([]rune(strings.TrimSpace(r.JobRole))) < minJobRoleLen {
		return ErrInvalidJobRole
	}
	if !backend.ValidMode(r.Mode) {
		return ErrInvalidMode
	}
	if r.DurationMinutes < MinDuration || r.DurationMinutes > MaxDuration {
		return ErrInvalidDuration
	}
	return nil
}

// Start creates the interview. The caller continues with the returned id.
// The profile's resume is not needed here; generation falls back to the role
// and description when it is empty.
func Start(ctx context.Context, api Creator, r StartRequest) (*backend.Interview, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	created, err := api.CreateInterview(ctx, backend.InterviewCreate{
		ProfileID:       r.Profile.ID,
		JobRole:         strings.TrimSpace(r.JobRole),
		JobDescription:  strings.TrimSpace(r.JobDescription),
		InterviewMode:   r.Mode,
		DurationMinutes: r.DurationMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("start interview: %w", err)
	}

	return created, nil
}
