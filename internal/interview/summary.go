package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/mock-interview/internal/backend"
)

const (
	noFeedback = "Feedback not available."
	noAnswer   = "No answer given."
)

type SummaryAPI interface {
	GetInterview(ctx context.Context, id int) (*backend.Interview, error)
	Feedback(ctx context.Context, id int) (*backend.Feedback, error)
}

type SummaryItem struct {
	Number   int
	Question string
	Type     string
	Answer   string
	Feedback string
}

type Summary struct {
	Interview *backend.Interview
	Items     []SummaryItem
}

// LoadSummary fetches the interview and its feedback. Feedback entries are
// matched to questions by position.
func LoadSummary(ctx context.Context, api SummaryAPI, id int) (*Summary, error) {
	interview, err := api.GetInterview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load interview summary: %w", err)
	}

	summary := &Summary{Interview: interview}
	if len(interview.Questions) == 0 {
		return summary, nil
	}

	feedback, err := api.Feedback(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load interview summary: %w", err)
	}

	for idx, q := range interview.Questions {
		item := SummaryItem{
			Number:   idx + 1,
			Question: q.QuestionText,
			Type:     q.QuestionType,
			Answer:   q.Answer(),
			Feedback: noFeedback,
		}
		if item.Answer == "" {
			item.Answer = noAnswer
		}
		if idx < len(feedback.Feedback) && strings.TrimSpace(feedback.Feedback[idx]) != "" {
			item.Feedback = strings.TrimSpace(feedback.Feedback[idx])
		}
		summary.Items = append(summary.Items, item)
	}

	return summary, nil
}
