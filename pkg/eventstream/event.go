// Package eventstream defines the transport-neutral event emitted after a
// turn pair is recorded, plus the publisher contract backends implement.
package eventstream

import (
	"time"

	"github.com/switchboardco/switchboard/pkg/chat"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnRecorded is emitted after a turn pair is persisted.
	EventTypeTurnRecorded = "switchboard.turn.recorded"
)

// TurnRecordedEvent is the payload published once per completed request,
// after the Record step. Publishing is synchronous and best-effort: a
// publish failure is logged, never surfaced to the caller.
type TurnRecordedEvent struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	SessionID     string         `json:"session_id"`
	QueryType     chat.QueryType `json:"query_type"`
	Degraded      bool           `json:"degraded"`
	UserChars     int            `json:"user_chars"`
	BotChars      int            `json:"bot_chars"`
}
