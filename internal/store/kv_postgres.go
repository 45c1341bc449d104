package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig configures the shared-history backend.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// pgxQuerier is the part of *pgxpool.Pool the KV uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresKV struct {
	db    pgxQuerier
	close func()
}

// OpenPostgresKV connects a pool, creates the kv table if needed and
// returns a KV over it.
func OpenPostgresKV(ctx context.Context, cfg PostgresConfig) (KV, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	kv := &postgresKV{db: pool, close: pool.Close}
	if err := kv.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return kv, nil
}

func (k *postgresKV) init(ctx context.Context) error {
	_, err := k.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS kv (
            key        TEXT PRIMARY KEY,
            value      BYTEA NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `)
	if err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (k *postgresKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := k.db.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
	return value, true, nil
}

func (k *postgresKV) Save(ctx context.Context, key string, value []byte) error {
	query := `
        INSERT INTO kv (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `
	if _, err := k.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

func (k *postgresKV) Close() error {
	if k.close != nil {
		k.close()
	}
	return nil
}
