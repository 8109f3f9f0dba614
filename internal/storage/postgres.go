package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/elcriollo/station-frontend/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres stores values in a table shared by several stations; rows are
// namespaced by station id.
type Postgres struct {
	DB      *sqlx.DB
	station string
}

func NewPostgres(ctx context.Context, cfg config.Database, log zerolog.Logger) (*Postgres, error) {
	connStr := databaseURL(cfg)

	// Connect with retries; the database may still be starting.
	var db *sqlx.DB
	var err error

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("Failed to connect to database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 2 * time.Second):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
	}

	// A station holds two rows; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return &Postgres{DB: db, station: cfg.Station}, nil
}

// databaseURL builds the connection URL used by both lib/pq and migrate.
// Credentials are escaped, so passwords may contain any character.
func databaseURL(cfg config.Database) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// Migrate applies the embedded schema migrations.
func (p *Postgres) Migrate(cfg config.Database) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT value FROM client_storage WHERE station = $1 AND key = $2`

	err := p.DB.GetContext(ctx, &value, query, p.station, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_storage (station, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (station, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.DB.ExecContext(ctx, query, p.station, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM client_storage WHERE station = ? AND key IN (?)`, p.station, keys)
	if err != nil {
		return err
	}
	if _, err := p.DB.ExecContext(ctx, p.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// HealthCheck pings the database.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}
