// Package validate checks and sanitizes inbound queries and session
// identifiers before they reach the routing engine.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxQueryLength bounds a single query's size in bytes.
	MaxQueryLength = 5000

	// MinQueryLength is the minimum length of a trimmed query.
	MinQueryLength = 1
)

// Error is a validation failure with a message safe to show to the user.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	sessionIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

	// harmfulPatterns are coarse markers for script injection attempts.
	harmfulPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
	}
)

// Query validates a raw user query. A nil return means the query is safe to
// sanitize and route.
func Query(query string) error {
	trimmed := strings.TrimSpace(query)

	if len(trimmed) < MinQueryLength {
		return &Error{Message: "Query is too short"}
	}

	if len(trimmed) > MaxQueryLength {
		return &Error{Message: fmt.Sprintf("Query is too long (max %d characters)", MaxQueryLength)}
	}

	for _, pattern := range harmfulPatterns {
		if pattern.MatchString(trimmed) {
			return &Error{Message: "Query contains potentially harmful content"}
		}
	}

	return nil
}

// Sanitize strips HTML tags and collapses whitespace in a query.
func Sanitize(query string) string {
	query = htmlTagPattern.ReplaceAllString(query, "")
	query = whitespacePattern.ReplaceAllString(query, " ")
	return strings.TrimSpace(query)
}

// SessionID validates a caller-supplied session identifier.
func SessionID(id string) error {
	if id == "" {
		return &Error{Message: "Session ID is required"}
	}

	if len(id) > 255 {
		return &Error{Message: "Session ID is too long"}
	}

	if !sessionIDPattern.MatchString(id) {
		return &Error{Message: "Session ID contains invalid characters"}
	}

	return nil
}
