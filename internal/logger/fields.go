package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldInterviewID = "interview_id"
	FieldQuestionID  = "question_id"
	FieldProfileID   = "profile_id"
	FieldEmail       = "email"
)

// IntField describes an int-valued structured logging field.
type IntField struct {
	Key   string
	Value int
}

// IntFields converts the provided key/value pairs into zap fields, omitting
// entries with empty keys or non-positive ids.
func IntFields(fields ...IntField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" || field.Value <= 0 {
			continue
		}

		result = append(result, zap.Int(key, field.Value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// InterviewFields returns the fields identifying an interview and, optionally, one of its questions.
func InterviewFields(interviewID, questionID int) []zap.Field {
	return IntFields(
		IntField{Key: FieldInterviewID, Value: interviewID},
		IntField{Key: FieldQuestionID, Value: questionID},
	)
}

// WithInterview attaches the interview id to the provided logger.
func WithInterview(logger *zap.Logger, interviewID int) *zap.Logger {
	return WithFields(logger, InterviewFields(interviewID, 0)...)
}
