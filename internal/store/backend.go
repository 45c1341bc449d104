package store

import (
	"context"
	"fmt"
)

// Backend names accepted by OpenKV.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// BackendConfig selects where the key-value data lives.
type BackendConfig struct {
	Backend  string
	Postgres PostgresConfig
	Redis    RedisConfig
}

// OpenKV returns the KV for cfg. The sqlite backend reuses local.
func OpenKV(ctx context.Context, cfg BackendConfig, local *Store) (KV, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		if local == nil {
			return nil, fmt.Errorf("sqlite backend needs an open store")
		}
		return local.KV(), nil
	case BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("store.postgres.dsn is required for the postgres backend")
		}
		return OpenPostgresKV(ctx, cfg.Postgres)
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("store.redis.addr is required for the redis backend")
		}
		return OpenRedisKV(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}
