package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/kakeibo/internal/config"
	"github.com/MrJamesThe3rd/kakeibo/internal/database"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// Open builds the backend selected by cfg.Storage.Driver. The returned close
// function releases its connections.
func Open(ctx context.Context, cfg *config.Config) (expense.Backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return NewMemory(), noop, nil

	case config.StorageFile:
		f, err := NewFile(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}

		return f, noop, nil

	case config.StorageSQLite:
		path := cfg.Storage.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Storage.Dir, path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}

		db, err := database.Open(database.DriverSQLite, path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}

		return NewSQL(db, DialectSQLite), db.Close, nil

	case config.StoragePostgres:
		db, err := database.Open(database.DriverPostgres, cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres: %w", err)
		}

		return NewSQL(db, DialectPostgres), db.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("pinging redis: %w", err)
		}

		return NewRedis(client, cfg.Storage.KeyPrefix), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
