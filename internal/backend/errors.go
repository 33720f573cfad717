package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedResume = errors.New("resume file type is not supported, allowed: .pdf, .docx, .doc")
	ErrEmptyResponse     = errors.New("backend returned an empty response")
)

// RequestError is returned for every non-2xx response. Body keeps the raw
// response so callers can show it as is.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	detail := e.Detail()
	if detail == "" {
		return fmt.Sprintf("%s %s: bad status: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: bad status: %s: %s", e.Method, e.URL, e.Status, detail)
}

// Detail returns the "detail" message of a FastAPI error body when present,
// falling back to the trimmed raw body.
func (e *RequestError) Detail() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}

	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload.Detail == nil {
		return body
	}

	switch detail := payload.Detail.(type) {
	case string:
		return detail
	case []any:
		// validation errors come as a list of {loc, msg, type}
		msgs := make([]string, 0, len(detail))
		for _, item := range detail {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					msgs = append(msgs, msg)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return body
}

// StatusCode returns the HTTP status of a RequestError in the chain, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
