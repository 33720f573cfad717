package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/logger"
	"github.com/spigell/mock-interview/internal/session"
	"github.com/spigell/mock-interview/internal/utils"
)

const maxPromptLog = 200

var (
	ErrEmptyAnswer         = errors.New("please provide an answer before submitting")
	ErrNoOpenQuestion      = errors.New("there is no unanswered question")
	ErrQuestionOutstanding = errors.New("answer the current question first")
	ErrGenerationInFlight  = errors.New("a question is already being generated")
	ErrSubmitInFlight      = errors.New("an answer is already being submitted")
	ErrNotLoaded           = errors.New("interview is not loaded")
	ErrCompleted           = errors.New("interview is completed")
)

// API is the part of the backend the controller talks to.
type API interface {
	session.Fetcher
	GenerateQuestion(ctx context.Context, id int, r backend.GenerateRequest) (*backend.GeneratedQuestion, error)
	RespondToQuestion(ctx context.Context, id, questionID int, answer string) error
	CompleteInterview(ctx context.Context, id int) error
}

// Controller drives one interview: it decides when to ask the backend for the
// next question and when to wait for the candidate. It is safe for concurrent use;
// at most one generation request is outstanding at a time.
type Controller struct {
	api    API
	store  *session.Store
	logger *zap.Logger

	generating atomic.Bool
	submitting atomic.Bool
	completed  atomic.Bool
}

func NewController(api API, interviewID int, log *zap.Logger) *Controller {
	log = logger.WithInterview(log, interviewID)
	return &Controller{
		api:    api,
		store:  session.NewStore(api, interviewID, log),
		logger: log,
	}
}

func (c *Controller) Store() *session.Store {
	return c.store
}

func (c *Controller) InterviewID() int {
	return c.store.InterviewID()
}

// Phase derives the current phase from the store and the controller flags.
func (c *Controller) Phase() Phase {
	if c.completed.Load() {
		return Completed
	}

	st := c.store.Snapshot()
	switch {
	case st.Interview == nil || st.Profile == nil:
		return Loading
	case st.Interview.IsCompleted:
		return Completed
	case c.submitting.Load():
		return Submitting
	case len(st.Interview.Questions) == 0:
		return AwaitingFirstQuestion
	case st.Interview.CurrentQuestion() == nil && st.Interview.LastQuestion().Answered():
		return AwaitingNextQuestion
	default:
		return AwaitingAnswer
	}
}

// CurrentQuestion returns a copy of the unanswered question, or nil.
func (c *Controller) CurrentQuestion() *backend.Question {
	st := c.store.Snapshot()
	if st.Interview == nil {
		return nil
	}
	return st.Interview.CurrentQuestion()
}

// Load fetches the interview and its profile, then evaluates once.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.store.Refresh(ctx); err != nil {
		return err
	}
	return c.Evaluate(ctx)
}

// Evaluate issues a generation request when the interview has no questions yet
// or the last one was just answered. Re-entry while a request is outstanding is
// suppressed.
func (c *Controller) Evaluate(ctx context.Context) error {
	phase := c.Phase()
	if phase != AwaitingFirstQuestion && phase != AwaitingNextQuestion {
		return nil
	}

	err := c.generate(ctx)
	switch {
	case errors.Is(err, ErrGenerationInFlight), errors.Is(err, ErrQuestionOutstanding):
		c.logger.Debug("automatic generation suppressed", zap.String("phase", phase.String()), zap.Error(err))
		return nil
	case err != nil:
		return err
	}

	return nil
}

// NextQuestion is the explicit request for another question. It never creates
// a second unanswered question.
func (c *Controller) NextQuestion(ctx context.Context) error {
	return c.generate(ctx)
}

func (c *Controller) generate(ctx context.Context) error {
	if !c.generating.CompareAndSwap(false, true) {
		return ErrGenerationInFlight
	}
	defer c.generating.Store(false)

	// A failed refresh after an earlier generation leaves the new question
	// out of the store, so the decision must be made on fresh records.
	if err := c.syncIfStale(ctx); err != nil {
		return err
	}

	// State is re-read under the guard: a refresh by a previous holder may
	// already have appended the question this caller wanted.
	st := c.store.Snapshot()
	switch {
	case st.Interview == nil || st.Profile == nil:
		return ErrNotLoaded
	case c.completed.Load() || st.Interview.IsCompleted:
		return ErrCompleted
	case st.Interview.Unanswered() > 0:
		return ErrQuestionOutstanding
	}

	c.store.SetGenerating(true)
	defer c.store.SetGenerating(false)

	req := backend.GenerateRequest{
		ConversationHistory: st.Interview.History(),
		ResumeContent:       st.Profile.ResumeContent,
		JobRole:             st.Interview.JobRole,
		JobDescription:      st.Interview.JobDescription,
	}

	generated, err := c.api.GenerateQuestion(ctx, st.Interview.ID, req)
	if err != nil {
		err = fmt.Errorf("generate question: %w", err)
		c.store.SetError(err)
		return err
	}

	c.logger.Debug("question generated",
		zap.Int("history_length", len(req.ConversationHistory)),
		zap.String("question_type", generated.QuestionType),
		zap.String("prompt_preview", utils.TruncateForLog(generated.Prompt, maxPromptLog)),
	)

	return c.store.Refresh(ctx)
}

func (c *Controller) syncIfStale(ctx context.Context) error {
	if !c.store.Stale() {
		return nil
	}
	c.logger.Debug("session is stale, refreshing")
	return c.store.Refresh(ctx)
}

// Submit records the answer for the current question and then evaluates,
// which asks for the next question automatically.
func (c *Controller) Submit(ctx context.Context, answer string) error {
	if strings.TrimSpace(answer) == "" {
		c.store.SetError(ErrEmptyAnswer)
		return ErrEmptyAnswer
	}

	if err := c.respond(ctx, answer); err != nil {
		return err
	}

	if err := c.Evaluate(ctx); err != nil {
		return fmt.Errorf("answer recorded, but the next question failed: %w", err)
	}

	return nil
}

func (c *Controller) respond(ctx context.Context, answer string) error {
	if !c.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer c.submitting.Store(false)

	if err := c.syncIfStale(ctx); err != nil {
		return err
	}

	st := c.store.Snapshot()
	if st.Interview == nil {
		return ErrNotLoaded
	}
	if c.completed.Load() || st.Interview.IsCompleted {
		return ErrCompleted
	}

	question := st.Interview.CurrentQuestion()
	if question == nil {
		c.store.SetError(ErrNoOpenQuestion)
		return ErrNoOpenQuestion
	}

	c.store.SetSubmitting(true)
	defer c.store.SetSubmitting(false)

	if err := c.api.RespondToQuestion(ctx, st.Interview.ID, question.ID, answer); err != nil {
		err = fmt.Errorf("submit answer: %w", err)
		c.store.SetError(err)
		return err
	}

	c.logger.Info("answer submitted", logger.InterviewFields(st.Interview.ID, question.ID)...)

	return c.store.Refresh(ctx)
}

// Finish marks the interview completed. The backend call is best effort: a
// failure is logged and the controller still moves to Completed so the caller
// can show the summary.
func (c *Controller) Finish(ctx context.Context) {
	id := c.store.InterviewID()

	if err := c.api.CompleteInterview(ctx, id); err != nil {
		c.logger.Warn("completing interview failed, continuing to summary", zap.Error(err))
	} else if err := c.store.Refresh(ctx); err != nil {
		c.logger.Warn("refreshing completed interview", zap.Error(err))
	}

	c.completed.Store(true)
	c.logger.Info("interview finished")
}
