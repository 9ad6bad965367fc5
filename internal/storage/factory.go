package storage

import (
	"context"
	"fmt"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/config"
)

type ClosableStore interface {
	KeyValueStore
	Close() error
}

func NewKeyValueStore(cfg *config.Config, logger internal.Logger) (ClosableStore, error) {
	switch cfg.StorageBackend {
	case "file":
		return NewFileStore(cfg.FileKV, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
}

func NewDatabase(ctx context.Context, cfg *config.Config, logger internal.Logger) (Database, error) {
	switch cfg.DatabaseBackend {
	case "postgres":
		return NewPostgresDatabase(ctx, cfg.PostgresDSN, logger)
	case "memory":
		return NewMemoryDatabase(), nil
	}
	return nil, fmt.Errorf("storage: unknown database backend %q", cfg.DatabaseBackend)
}
