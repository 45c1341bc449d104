package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// sequenceCounter numbers LLM events in insertion order. The single-row
// event_seq table survives restarts, so numbers are never reused and
// QueryOpts.After/Before can page across sessions.
type sequenceCounter struct {
	mu sync.Mutex
	db *sqlx.DB
}

func newSequenceCounter(db *sqlx.DB) (*sequenceCounter, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS event_seq (
			id    INTEGER PRIMARY KEY CHECK (id = 1),
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO event_seq (id, value) VALUES (1, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("prepare event sequence: %w", err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next bumps the counter and returns the new value, starting at 1.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	row := c.db.QueryRowxContext(ctx, `UPDATE event_seq SET value = value + 1 WHERE id = 1 RETURNING value`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
