package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqliteKV stores values in the kv table of the local database.
type sqliteKV struct {
	db *sqlx.DB
}

// NewSQLKV returns a KV over an already opened database that has the kv
// table. The caller owns db.
func NewSQLKV(db *sqlx.DB) KV {
	return &sqliteKV{db: db}
}

func (k *sqliteKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := k.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return value, true, nil
}

func (k *sqliteKV) Save(ctx context.Context, key string, value []byte) error {
	_, err := k.db.ExecContext(ctx, `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (k *sqliteKV) Close() error { return nil }
