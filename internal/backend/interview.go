package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const (
	interviewsPath = "interviews/"

	ModeTechnical  = "technical"
	ModeBehavioral = "behavioral"
	ModeMixed      = "mixed"
)

// Modes lists the interview modes accepted by the backend.
var Modes = []string{ModeTechnical, ModeBehavioral, ModeMixed}

type Interviews struct {
	Items []*Interview
}

type Interview struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id,omitempty"`
	ProfileID       int         `json:"profile_id,omitempty"`
	JobRole         string      `json:"job_role"`
	JobDescription  string      `json:"job_description,omitempty"`
	InterviewMode   string      `json:"interview_mode"`
	DurationMinutes int         `json:"duration_minutes"`
	IsCompleted     bool        `json:"is_completed"`
	StartedAt       Timestamp   `json:"started_at"`
	CompletedAt     Timestamp   `json:"completed_at"`
	Questions       []*Question `json:"questions,omitempty"`
}

type Question struct {
	ID                int       `json:"id"`
	InterviewID       int       `json:"interview_id"`
	QuestionText      string    `json:"question_text"`
	QuestionType      string    `json:"question_type"`
	UserResponse      *string   `json:"user_response,omitempty"`
	ResponseTimestamp Timestamp `json:"response_timestamp"`
	CreatedAt         Timestamp `json:"created_at"`
}

// InterviewCreate is the start-interview body. Every field is always sent.
type InterviewCreate struct {
	ProfileID       int    `json:"profile_id"`
	JobRole         string `json:"job_role"`
	JobDescription  string `json:"job_description"`
	InterviewMode   string `json:"interview_mode"`
	DurationMinutes int    `json:"duration_minutes"`
}

type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GenerateRequest struct {
	ConversationHistory []Exchange `json:"conversation_history"`
	ResumeContent       string     `json:"resume_content"`
	JobRole             string     `json:"job_role"`
	JobDescription      string     `json:"job_description"`
}

type GeneratedQuestion struct {
	Question     string `json:"question"`
	QuestionType string `json:"question_type"`
	Prompt       string `json:"prompt,omitempty"`
}

type Feedback struct {
	Feedback    []string        `json:"feedback"`
	RawResponse json.RawMessage `json:"raw_response,omitempty"`
}

type message struct {
	Message string `json:"message"`
}

func (c *Client) ListInterviews(ctx context.Context) (*Interviews, error) {
	var items []*Interview
	if err := c.doJSON(ctx, http.MethodGet, interviewsPath, nil, &items); err != nil {
		return nil, err
	}

	return &Interviews{Items: items}, nil
}

func (c *Client) GetInterview(ctx context.Context, id int) (*Interview, error) {
	var interview Interview
	if err := c.doJSON(ctx, http.MethodGet, interviewPath(id, ""), nil, &interview); err != nil {
		return nil, err
	}

	return &interview, nil
}

func (c *Client) CreateInterview(ctx context.Context, r InterviewCreate) (*Interview, error) {
	var interview Interview
	if err := c.doJSON(ctx, http.MethodPost, interviewsPath, r, &interview); err != nil {
		return nil, err
	}

	if interview.ID == 0 {
		return nil, fmt.Errorf("create interview: %w", ErrEmptyResponse)
	}

	return &interview, nil
}

func (c *Client) DeleteInterview(ctx context.Context, id int) error {
	var m message
	return c.doJSON(ctx, http.MethodPost, interviewPath(id, "delete"), emptyBody, &m)
}

func (c *Client) CompleteInterview(ctx context.Context, id int) error {
	var m message
	return c.doJSON(ctx, http.MethodPost, interviewPath(id, "complete"), emptyBody, &m)
}

func (c *Client) GenerateQuestion(ctx context.Context, id int, r GenerateRequest) (*GeneratedQuestion, error) {
	if r.ConversationHistory == nil {
		r.ConversationHistory = []Exchange{}
	}

	var q GeneratedQuestion
	if err := c.doJSON(ctx, http.MethodPost, interviewPath(id, "generate-question"), r, &q); err != nil {
		return nil, err
	}

	return &q, nil
}

// RespondToQuestion records the answer verbatim; the body is the answer as a JSON string.
func (c *Client) RespondToQuestion(ctx context.Context, id, questionID int, answer string) error {
	var m message
	path := interviewPath(id, fmt.Sprintf("questions/%d/respond", questionID))
	return c.doJSON(ctx, http.MethodPost, path, answer, &m)
}

func (c *Client) Feedback(ctx context.Context, id int) (*Feedback, error) {
	var f Feedback
	if err := c.doJSON(ctx, http.MethodPost, interviewPath(id, "feedback"), emptyBody, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

func interviewPath(id int, action string) string {
	if action == "" {
		return fmt.Sprintf("%s%d", interviewsPath, id)
	}
	return fmt.Sprintf("%s%d/%s", interviewsPath, id, action)
}

// ValidMode reports whether mode is one of Modes.
func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func (q *Question) Answered() bool {
	return q.UserResponse != nil && *q.UserResponse != ""
}

func (q *Question) Answer() string {
	if q.UserResponse == nil {
		return ""
	}
	return *q.UserResponse
}

// CurrentQuestion returns the first unanswered question, or nil.
func (i *Interview) CurrentQuestion() *Question {
	for _, q := range i.Questions {
		if !q.Answered() {
			return q
		}
	}
	return nil
}

// LastQuestion returns the most recently asked question, or nil.
func (i *Interview) LastQuestion() *Question {
	if len(i.Questions) == 0 {
		return nil
	}
	return i.Questions[len(i.Questions)-1]
}

// Unanswered counts questions without a response.
func (i *Interview) Unanswered() int {
	count := 0
	for _, q := range i.Questions {
		if !q.Answered() {
			count++
		}
	}
	return count
}

// History returns the ordered question/answer pairs sent with a generation request.
func (i *Interview) History() []Exchange {
	history := make([]Exchange, 0, len(i.Questions))
	for _, q := range i.Questions {
		history = append(history, Exchange{Question: q.QuestionText, Answer: q.Answer()})
	}
	return history
}

func (i *Interview) Status() string {
	if i.IsCompleted {
		return "completed"
	}
	return "in progress"
}

func (i *Interview) Label() string {
	return fmt.Sprintf("%d %s / %s / %d min / %s / %s",
		i.ID, i.JobRole, i.InterviewMode, i.DurationMinutes, i.Status(), i.StartedAt,
	)
}

func (v *Interviews) Len() int {
	return len(v.Items)
}

func (v *Interviews) FindByID(id int) *Interview {
	for _, interview := range v.Items {
		if interview.ID == id {
			return interview
		}
	}
	return nil
}

// Remove drops the interview with the given id, preserving order. It reports
// whether an entry was removed.
func (v *Interviews) Remove(id int) bool {
	for idx, interview := range v.Items {
		if interview.ID == id {
			v.Items = append(v.Items[:idx:idx], v.Items[idx+1:]...)
			return true
		}
	}
	return false
}

func (v *Interviews) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "mock-interview-history-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Labels returns one human readable line per interview, in list order.
func (v *Interviews) Labels() []string {
	labels := make([]string, 0, len(v.Items))
	for _, interview := range v.Items {
		labels = append(labels, interview.Label())
	}
	return labels
}

// MatchRole reports whether the job role contains substr, ignoring case.
func (i *Interview) MatchRole(substr string) bool {
	return strings.Contains(strings.ToLower(i.JobRole), strings.ToLower(strings.TrimSpace(substr)))
}

// Exclude removes interviews matching the predicate and returns their ids.
func (v *Interviews) Exclude(match func(*Interview) bool) []int {
	var excluded []int
	kept := make([]*Interview, 0, len(v.Items))

	for _, interview := range v.Items {
		if match(interview) {
			excluded = append(excluded, interview.ID)
			continue
		}
		kept = append(kept, interview)
	}

	v.Items = kept
	return excluded
}
