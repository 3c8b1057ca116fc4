// Package sqlite provides a SQLite-backed session store driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/storage"
)

// schema is idempotent and append-only. The autoincrement id is the
// per-session sequence: arrival order at the database is turn order.
const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	query_type TEXT,
	degraded   INTEGER NOT NULL DEFAULT 0,
	timestamp  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id);
CREATE INDEX IF NOT EXISTS idx_turns_recent ON turns(session_id, id DESC);
`

// Driver implements storage.Store over SQLite.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the database at dbPath. Use ":memory:" for an
// ephemeral database.
func NewDriver(dbPath string) (*Driver, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Serialized writes through one connection keep append order stable.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Driver{db: db}, nil
}

// Create mints a new session identifier.
func (d *Driver) Create(_ context.Context) (string, error) {
	return "session-" + uuid.NewString(), nil
}

// Append inserts turns inside one transaction so a user/bot pair lands
// contiguously regardless of concurrent requests.
func (d *Driver) Append(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning append: %v", storage.ErrUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO turns (session_id, role, content, query_type, degraded, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing append: %v", storage.ErrUnavailable, err)
	}
	defer stmt.Close()

	for _, turn := range turns {
		var queryType *string
		if turn.QueryType != nil {
			s := string(*turn.QueryType)
			queryType = &s
		}

		if _, err := stmt.ExecContext(ctx,
			sessionID, string(turn.Role), turn.Content, queryType, turn.Degraded, turn.Timestamp,
		); err != nil {
			return fmt.Errorf("%w: inserting turn: %v", storage.ErrUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing append: %v", storage.ErrUnavailable, err)
	}

	return nil
}

// Read returns the session's turns in chronological order, most recent last.
func (d *Driver) Read(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	query := `SELECT role, content, query_type, degraded, timestamp FROM turns
		WHERE session_id = ? ORDER BY id ASC`
	args := []any{sessionID}

	if limit > 0 {
		// Most recent N, flipped back to chronological order below.
		query = `SELECT role, content, query_type, degraded, timestamp FROM (
			SELECT id, role, content, query_type, degraded, timestamp FROM turns
			WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: reading session: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	turns := []chat.Turn{}
	for rows.Next() {
		var (
			turn      chat.Turn
			role      string
			queryType sql.NullString
		)

		if err := rows.Scan(&role, &turn.Content, &queryType, &turn.Degraded, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scanning turn: %v", storage.ErrUnavailable, err)
		}

		turn.Role = chat.Role(role)
		if queryType.Valid {
			qt := chat.QueryType(queryType.String)
			turn.QueryType = &qt
		}

		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating turns: %v", storage.ErrUnavailable, err)
	}

	return turns, nil
}

// Clear deletes every turn of the session. Returns false when nothing was
// deleted.
func (d *Driver) Clear(ctx context.Context, sessionID string) (bool, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: clearing session: %v", storage.ErrUnavailable, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: counting deletions: %v", storage.ErrUnavailable, err)
	}

	return deleted > 0, nil
}

// TotalTurns counts stored turns across all sessions.
func (d *Driver) TotalTurns(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting turns: %v", storage.ErrUnavailable, err)
	}
	return count, nil
}

// Sessions counts sessions with at least one turn.
func (d *Driver) Sessions(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM turns`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting sessions: %v", storage.ErrUnavailable, err)
	}
	return count, nil
}

// RecentSessions returns up to k session identifiers, most recently active
// first.
func (d *Driver) RecentSessions(ctx context.Context, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT session_id FROM turns GROUP BY session_id ORDER BY MAX(id) DESC LIMIT ?`, k)
	if err != nil {
		return nil, fmt.Errorf("%w: listing recent sessions: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning session id: %v", storage.ErrUnavailable, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sessions: %v", storage.ErrUnavailable, err)
	}

	return ids, nil
}

// Name identifies the driver.
func (d *Driver) Name() string {
	return "sqlite"
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.db.Close()
}

var _ storage.Store = (*Driver)(nil)
