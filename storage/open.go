package storage

import (
	"context"
	"fmt"

	"spicymarket/config"
)

// Open returns the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryKV(), nil
	case "sqlite":
		return nonNil(OpenSQLite(ctx, cfg.SQLitePath))
	case "postgres":
		return nonNil(OpenPostgres(ctx, cfg.DatabaseURL))
	case "redis":
		return nonNil(OpenRedis(ctx, cfg.RedisURL))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// nonNil keeps a failed open from returning a typed nil inside KV.
func nonNil[T KV](kv T, err error) (KV, error) {
	if err != nil {
		return nil, err
	}
	return kv, nil
}
