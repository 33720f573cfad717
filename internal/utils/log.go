package utils

import "strings"

// TruncateForLog flattens s onto one line and cuts it to limit runes,
// appending an ellipsis when something was cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}
