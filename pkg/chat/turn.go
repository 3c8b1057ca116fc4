// Package chat holds the conversation types shared across the switchboard
// engine: turns, roles, and query classification tags.
package chat

import (
	"strings"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	// RoleUser marks a turn authored by the end user.
	RoleUser Role = "user"

	// RoleBot marks a turn authored by the responder.
	RoleBot Role = "bot"
)

// QueryType is the classification tag attached to a bot turn. It is advisory
// only: callers may surface it, but nothing downstream branches on it after
// the router has dispatched.
type QueryType string

const (
	// QueryCalculation tags input that parsed fully as an arithmetic expression.
	QueryCalculation QueryType = "calculation"

	// QueryConversational tags everything else, including empty input.
	QueryConversational QueryType = "conversational"
)

// Turn is one recorded message within a session. Turns are immutable once
// appended; a session is an append-only log of them, cleared only as a whole.
type Turn struct {
	Role    Role   `json:"type"`
	Content string `json:"content"`

	// QueryType is set on bot turns only; user turns carry nil.
	QueryType *QueryType `json:"query_type,omitempty"`

	// Degraded marks a bot turn whose handler could not produce a normal
	// answer and fell back to a canned message.
	Degraded bool `json:"degraded,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewUserTurn creates a user turn for the given content.
func NewUserTurn(content string) Turn {
	return Turn{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewBotTurn creates a bot turn tagged with its query type and degraded flag.
func NewBotTurn(content string, queryType QueryType, degraded bool) Turn {
	return Turn{
		Role:      RoleBot,
		Content:   content,
		QueryType: &queryType,
		Degraded:  degraded,
		Timestamp: time.Now().UTC(),
	}
}

// FormatHistory renders turns as a plain-text transcript for prompt assembly.
func FormatHistory(turns []Turn) string {
	if len(turns) == 0 {
		return "No previous conversation."
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		speaker := "User"
		if turn.Role == RoleBot {
			speaker = "Assistant"
		}
		lines = append(lines, speaker+": "+turn.Content)
	}

	return strings.Join(lines, "\n")
}
