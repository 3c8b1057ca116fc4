// Package inmemory provides the in-process session store driver used for
// tests and single-node deployments without durability requirements.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/storage"
)

// session is one append-only turn log plus its activity clock.
type session struct {
	turns      []chat.Turn
	lastActive time.Time
	lastSeq    uint64
}

// Driver implements storage.Store using an in-memory map.
type Driver struct {
	// mu serializes all session mutations, which makes append arrival order
	// the single source of truth for turn order.
	mu sync.RWMutex

	sessions map[string]*session

	// seq is a monotonic counter used to break recency ties between
	// sessions appended within the same clock tick.
	seq uint64
}

// NewDriver creates a new in-memory session store.
func NewDriver() *Driver {
	return &Driver{
		sessions: make(map[string]*session),
	}
}

// Create mints a new session identifier. UUIDv4 tokens come from a
// cryptographically strong source, so collisions are negligible.
func (d *Driver) Create(_ context.Context) (string, error) {
	return "session-" + uuid.NewString(), nil
}

// Append records turns at the tail of the session log. All turns in one call
// land contiguously under a single lock hold.
func (d *Driver) Append(_ context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[sessionID]
	if !ok {
		s = &session{}
		d.sessions[sessionID] = s
	}

	s.turns = append(s.turns, turns...)
	s.lastActive = time.Now().UTC()
	d.seq++
	s.lastSeq = d.seq

	return nil
}

// Read returns the session's turns in chronological order. A positive limit
// keeps only the most recent turns.
func (d *Driver) Read(_ context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.sessions[sessionID]
	if !ok {
		return []chat.Turn{}, nil
	}

	turns := s.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	// Copy so callers cannot mutate the log.
	out := make([]chat.Turn, len(turns))
	copy(out, turns)

	return out, nil
}

// Clear deletes the session. Returns false when the session had no turns.
func (d *Driver) Clear(_ context.Context, sessionID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.sessions[sessionID]
	if !ok {
		return false, nil
	}

	delete(d.sessions, sessionID)
	return true, nil
}

// TotalTurns counts stored turns across all sessions.
func (d *Driver) TotalTurns(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0
	for _, s := range d.sessions {
		total += len(s.turns)
	}

	return total, nil
}

// Sessions counts sessions with at least one turn.
func (d *Driver) Sessions(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.sessions), nil
}

// RecentSessions returns up to k session identifiers, most recently active
// first.
func (d *Driver) RecentSessions(_ context.Context, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	type activity struct {
		id  string
		seq uint64
	}

	recent := make([]activity, 0, len(d.sessions))
	for id, s := range d.sessions {
		recent = append(recent, activity{id: id, seq: s.lastSeq})
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].seq > recent[j].seq
	})

	if len(recent) > k {
		recent = recent[:k]
	}

	ids := make([]string, len(recent))
	for i, a := range recent {
		ids[i] = a.id
	}

	return ids, nil
}

// Name identifies the driver.
func (d *Driver) Name() string {
	return "memory"
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ storage.Store = (*Driver)(nil)
