package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"

	"joingate/migrations"
)

// OpenPostgres opens the pool and waits for the server to answer a ping.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	const (
		attempts = 10
		pause    = 500 * time.Millisecond
	)
	for range attempts {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(pause):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("ping postgres: %w", err)
}

// UpMigrations applies the embedded goose migrations.
func UpMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
