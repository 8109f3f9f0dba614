// Package storage is the durable local key/value space the session is
// persisted in. Only the session store reads or writes it.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/elcriollo/station-frontend/internal/config"
)

// Fixed keys the session is persisted under.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a small string key/value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Pinger is implemented by drivers backed by a remote server.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

var (
	_ Pinger = (*Postgres)(nil)
	_ Pinger = (*Redis)(nil)
)

// Open returns the driver selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Storage, log zerolog.Logger) (Storage, error) {
	log = log.With().Str("component", "storage").Str("driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.File.Path, cfg.File.EncryptionKey)
	case "redis":
		return NewRedis(ctx, cfg.Redis)
	case "postgres":
		pg, err := NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(cfg.Database); err != nil {
			_ = pg.Close()
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
