package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// registers the "postgres" driver.
	_ "github.com/lib/pq"
)

func postgresMigrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE kv_entries (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}

// Postgres keeps entries in the kv_entries table.
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres connects to databaseURL and runs pending migrations.
func NewPostgres(ctx context.Context, logger *slog.Logger, databaseURL string) (*Postgres, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := NewPostgresWithDB(ctx, logger, database)
	if err != nil {
		_ = database.Close()

		return nil, err
	}

	return store, nil
}

// NewPostgresWithDB wraps an open database and runs pending migrations.
func NewPostgresWithDB(ctx context.Context, logger *slog.Logger, database *sql.DB) (*Postgres, error) {
	logger = logger.With("module", "kvstore_postgres")

	err := NewMigrationManager(logger, database, postgresMigrations()).RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Postgres{db: database, logger: logger}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey("get", key); err != nil {
		return "", err
	}

	var value string

	err := p.db.QueryRowContext(ctx, "SELECT value FROM kv_entries WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &StoreError{Op: "get", Key: key, Err: ErrNotFound}
	}

	if err != nil {
		return "", &StoreError{Op: "get", Key: key, Err: err}
	}

	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}

	query := `
		INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return &StoreError{Op: "set", Key: key, Err: err}
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = $1", key); err != nil {
		return &StoreError{Op: "delete", Key: key, Err: err}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
