package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/logger"
)

var ErrNoProfile = errors.New("interview has no profile")

// Fetcher loads the records a store holds.
type Fetcher interface {
	GetInterview(ctx context.Context, id int) (*backend.Interview, error)
	GetProfile(ctx context.Context, id int) (*backend.Profile, error)
}

// State is a point-in-time copy of the store.
type State struct {
	Interview *backend.Interview
	Profile   *backend.Profile

	Loading    bool
	Generating bool
	Submitting bool
	Recording  bool
	Err        string
	// Stale is set when the last refresh failed: the records may lag behind
	// the backend.
	Stale bool
}

// Store holds one interview and its profile as last returned by the backend.
// It never patches records locally: after every write the owner calls Refresh.
type Store struct {
	api         Fetcher
	interviewID int
	logger      *zap.Logger

	mu    sync.RWMutex
	state State
}

func NewStore(api Fetcher, interviewID int, log *zap.Logger) *Store {
	return &Store{
		api:         api,
		interviewID: interviewID,
		logger:      logger.WithInterview(log, interviewID),
	}
}

func (s *Store) InterviewID() int {
	return s.interviewID
}

// Refresh re-fetches the interview and then its profile. On failure the
// previous records are kept, Err is set and the state is marked stale.
func (s *Store) Refresh(ctx context.Context) error {
	s.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})
	defer s.update(func(st *State) { st.Loading = false })

	interview, err := s.api.GetInterview(ctx, s.interviewID)
	if err != nil {
		err = fmt.Errorf("load interview %d: %w", s.interviewID, err)
		s.fail(err)
		return err
	}

	if interview.ProfileID == 0 {
		err = fmt.Errorf("load interview %d: %w", s.interviewID, ErrNoProfile)
		s.fail(err)
		return err
	}

	profile, err := s.api.GetProfile(ctx, interview.ProfileID)
	if err != nil {
		err = fmt.Errorf("load profile %d: %w", interview.ProfileID, err)
		s.fail(err)
		return err
	}

	s.update(func(st *State) {
		st.Interview = interview
		st.Profile = profile
		st.Stale = false
	})

	s.logger.Debug("session refreshed",
		zap.Int("questions", len(interview.Questions)),
		zap.Bool("completed", interview.IsCompleted),
	)

	return nil
}

// Snapshot returns a deep copy that callers may keep and modify.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Interview = copyInterview(s.state.Interview)
	if s.state.Profile != nil {
		profile := *s.state.Profile
		st.Profile = &profile
	}
	return st
}

func (s *Store) SetGenerating(v bool) { s.update(func(st *State) { st.Generating = v }) }

func (s *Store) SetSubmitting(v bool) { s.update(func(st *State) { st.Submitting = v }) }

func (s *Store) SetRecording(v bool) { s.update(func(st *State) { st.Recording = v }) }

// SetError records a short message for display; nil clears it.
func (s *Store) SetError(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.update(func(st *State) { st.Err = msg })
}

// Stale reports whether the last refresh failed.
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Stale
}

func (s *Store) fail(err error) {
	s.update(func(st *State) {
		st.Err = err.Error()
		st.Stale = true
	})
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func copyInterview(in *backend.Interview) *backend.Interview {
	if in == nil {
		return nil
	}

	out := *in
	out.Questions = make([]*backend.Question, 0, len(in.Questions))
	for _, q := range in.Questions {
		cp := *q
		if q.UserResponse != nil {
			answer := *q.UserResponse
			cp.UserResponse = &answer
		}
		out.Questions = append(out.Questions, &cp)
	}
	return &out
}
