// Package storage defines the session memory store contract: an append-only,
// per-session-ordered log of conversation turns behind pluggable drivers.
package storage

import (
	"context"

	"github.com/switchboardco/switchboard/pkg/chat"
)

// Store persists ordered conversation turns keyed by session identifier.
//
// Appends to the same session serialize inside the driver, so read-back
// order always reflects arrival order at the store. Unknown sessions are not
// errors: Read returns an empty slice and Clear returns false. Only a genuine
// backend outage surfaces as an error, wrapped around ErrUnavailable.
type Store interface {
	// Create mints a new globally unique opaque session identifier.
	// It does not reserve any state; a session exists once it has turns.
	Create(ctx context.Context) (string, error)

	// Append records turns at the tail of the session's log. All turns in
	// one call are appended atomically, so a user/bot pair can never be
	// interleaved with a concurrent request's writes.
	Append(ctx context.Context, sessionID string, turns ...chat.Turn) error

	// Read returns the session's turns in chronological order, most recent
	// last. A positive limit returns only the most recent turns.
	Read(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error)

	// Clear removes every turn of a session. Returns false if the session
	// had no turns.
	Clear(ctx context.Context, sessionID string) (bool, error)

	// TotalTurns returns the number of stored turns across all sessions.
	TotalTurns(ctx context.Context) (int, error)

	// Sessions returns the number of sessions with at least one turn.
	Sessions(ctx context.Context) (int, error)

	// RecentSessions returns up to k session identifiers ordered most
	// recently active first. Sessions without turns never appear.
	RecentSessions(ctx context.Context, k int) ([]string, error)

	// Name identifies the driver ("memory", "sqlite", "postgres").
	Name() string

	// Close releases driver resources.
	Close() error
}
