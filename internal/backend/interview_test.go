package backend

import (
	"encoding/json"
	"testing"
	"time"
)

func answer(s string) *string { return &s }

func TestInterviewQuestionHelpers(t *testing.T) {
	interview := &Interview{
		Questions: []*Question{
			{ID: 1, QuestionText: "q1", UserResponse: answer("a1")},
			{ID: 2, QuestionText: "q2"},
		},
	}

	if cur := interview.CurrentQuestion(); cur == nil || cur.ID != 2 {
		t.Fatalf("expected current question 2, got %+v", cur)
	}
	if interview.Unanswered() != 1 {
		t.Fatalf("expected one unanswered question")
	}

	history := interview.History()
	if len(history) != 2 || history[0].Answer != "a1" || history[1].Answer != "" {
		t.Fatalf("unexpected history %+v", history)
	}

	interview.Questions[1].UserResponse = answer("a2")
	if interview.CurrentQuestion() != nil {
		t.Fatalf("expected no current question")
	}
	if interview.LastQuestion().ID != 2 {
		t.Fatalf("unexpected last question")
	}
}

func TestInterviewsRemove(t *testing.T) {
	list := &Interviews{Items: []*Interview{{ID: 4}, {ID: 5}, {ID: 6}}}

	if !list.Remove(5) {
		t.Fatal("expected removal")
	}
	if list.Len() != 2 || list.Items[0].ID != 4 || list.Items[1].ID != 6 {
		t.Fatalf("unexpected list after removal: %+v", list.Items)
	}
	if list.Remove(5) {
		t.Fatal("second removal must report false")
	}
}

func TestTimestampFormats(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect time.Time
		zero   bool
	}{
		{name: "naive with fraction", input: `"2024-05-01T10:00:00.123456"`, expect: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{name: "naive", input: `"2024-05-01T10:00:00"`, expect: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "rfc3339", input: `"2024-05-01T12:00:00+02:00"`, expect: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "null", input: `null`, zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if tt.zero {
				if !ts.IsZero() {
					t.Fatalf("expected zero time, got %v", ts.Time)
				}
				return
			}
			if !ts.Equal(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, ts.Time)
			}
		})
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidMode(t *testing.T) {
	for _, mode := range Modes {
		if !ValidMode(mode) {
			t.Fatalf("mode %q must be valid", mode)
		}
	}
	if ValidMode("guided") {
		t.Fatal("unexpected valid mode")
	}
}
