package util

import (
	"regexp"
	"strings"
)

var (
	controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// SanitizeInput strips control characters, collapses whitespace, and caps the
// length of user-supplied text before it is embedded in a prompt.
func SanitizeInput(input string, maxLength int) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := whitespacePattern.ReplaceAllString(withoutControl, " ")
	trimmed := strings.TrimSpace(normalized)

	if maxLength > 0 && len(trimmed) > maxLength {
		return trimmed[:maxLength]
	}
	return trimmed
}

// Truncate caps s at max bytes without splitting the suffix marker.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// SplitAndTrim comma-splits a free-text answer, trimming entries and dropping
// empties.
func SplitAndTrim(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
