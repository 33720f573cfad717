package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/mock-interview/internal/backend"
)

type fakeSummaryAPI struct {
	interview     *backend.Interview
	feedback      *backend.Feedback
	feedbackErr   error
	feedbackCalls int
}

func (f *fakeSummaryAPI) GetInterview(_ context.Context, _ int) (*backend.Interview, error) {
	return f.interview, nil
}

func (f *fakeSummaryAPI) Feedback(_ context.Context, _ int) (*backend.Feedback, error) {
	f.feedbackCalls++
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback, nil
}

func TestLoadSummaryPairsFeedbackByPosition(t *testing.T) {
	api := &fakeSummaryAPI{
		interview: &backend.Interview{
			ID: 42,
			Questions: []*backend.Question{
				answered(1, "q1", "a1"),
				{ID: 2, QuestionText: "q2"},
				answered(3, "q3", "a3"),
			},
		},
		feedback: &backend.Feedback{Feedback: []string{" good ", ""}},
	}

	summary, err := LoadSummary(context.Background(), api, 42)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if len(summary.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(summary.Items))
	}

	want := []SummaryItem{
		{Number: 1, Question: "q1", Answer: "a1", Feedback: "good"},
		{Number: 2, Question: "q2", Answer: noAnswer, Feedback: noFeedback},
		{Number: 3, Question: "q3", Answer: "a3", Feedback: noFeedback},
	}
	for i, item := range summary.Items {
		if item != want[i] {
			t.Fatalf("item %d: expected %+v, got %+v", i, want[i], item)
		}
	}
}

func TestLoadSummarySkipsFeedbackWithoutQuestions(t *testing.T) {
	api := &fakeSummaryAPI{interview: &backend.Interview{ID: 42}}

	summary, err := LoadSummary(context.Background(), api, 42)
	if err != nil {
		t.Fatalf("LoadSummary: %v", err)
	}
	if api.feedbackCalls != 0 || len(summary.Items) != 0 {
		t.Fatalf("unexpected feedback call or items: %d %d", api.feedbackCalls, len(summary.Items))
	}
}

func TestLoadSummaryFeedbackError(t *testing.T) {
	boom := errors.New("boom")
	api := &fakeSummaryAPI{
		interview:   &backend.Interview{ID: 42, Questions: []*backend.Question{answered(1, "q1", "a1")}},
		feedbackErr: boom,
	}

	if _, err := LoadSummary(context.Background(), api, 42); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
