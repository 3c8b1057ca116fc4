// Package postgres provides a PostgreSQL-backed session store driver using
// pgx connection pooling.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	query_type TEXT,
	degraded   BOOLEAN NOT NULL DEFAULT FALSE,
	timestamp  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, id);
`

// Driver implements storage.Store over a pgx pool.
type Driver struct {
	pool *pgxpool.Pool
}

// NewDriver connects to the database at connString and ensures the schema.
func NewDriver(ctx context.Context, connString string) (*Driver, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Driver{pool: pool}, nil
}

// Create mints a new session identifier.
func (d *Driver) Create(_ context.Context) (string, error) {
	return "session-" + uuid.NewString(), nil
}

// Append inserts turns inside one transaction. The BIGSERIAL id assigns
// arrival order, so concurrent requests to the same session cannot
// interleave a user/bot pair.
func (d *Driver) Append(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: beginning append: %v", storage.ErrUnavailable, err)
	}
	defer tx.Rollback(ctx)

	for _, turn := range turns {
		var queryType *string
		if turn.QueryType != nil {
			s := string(*turn.QueryType)
			queryType = &s
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO turns (session_id, role, content, query_type, degraded, timestamp)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			sessionID, string(turn.Role), turn.Content, queryType, turn.Degraded, turn.Timestamp,
		); err != nil {
			return fmt.Errorf("%w: inserting turn: %v", storage.ErrUnavailable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: committing append: %v", storage.ErrUnavailable, err)
	}

	return nil
}

// Read returns the session's turns in chronological order, most recent last.
func (d *Driver) Read(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	query := `SELECT role, content, query_type, degraded, timestamp FROM turns
		WHERE session_id = $1 ORDER BY id ASC`
	args := []any{sessionID}

	if limit > 0 {
		query = `SELECT role, content, query_type, degraded, timestamp FROM (
			SELECT id, role, content, query_type, degraded, timestamp FROM turns
			WHERE session_id = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`
		args = append(args, limit)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: reading session: %v", storage.ErrUnavailable, err)
	}
	defer rows.Close()

	turns := []chat.Turn{}
	for rows.Next() {
		var (
			turn      chat.Turn
			role      string
			queryType *string
		)

		if err := rows.Scan(&role, &turn.Content, &queryType, &turn.Degraded, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scanning turn: %v", storage.ErrUnavailable, err)
		}

		turn.Role = chat.Role(role)
		if queryType != nil {
			qt := chat.QueryType(*queryType)
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
	tag, err := d.pool.Exec(ctx, `DELETE FROM turns WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: clearing session: %v", storage.ErrUnavailable, err)
	}

	return tag.RowsAffected() > 0, nil
}

// TotalTurns counts stored turns across all sessions.
func (d *Driver) TotalTurns(ctx context.Context) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM turns`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting turns: %v", storage.ErrUnavailable, err)
	}
	return count, nil
}

// Sessions counts sessions with at least one turn.
func (d *Driver) Sessions(ctx context.Context) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT session_id) FROM turns`).Scan(&count)
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

	rows, err := d.pool.Query(ctx,
		`SELECT session_id FROM turns GROUP BY session_id ORDER BY MAX(id) DESC LIMIT $1`, k)
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
	return "postgres"
}

// Close releases the connection pool.
func (d *Driver) Close() error {
	d.pool.Close()
	return nil
}

var _ storage.Store = (*Driver)(nil)
