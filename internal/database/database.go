// Package database handles PostgreSQL connection management and migration
// execution using goose. It provides a WaitForReady readiness poll, a
// Connect function that returns a ready-to-use *sql.DB pool, and a Migrate
// function for schema management.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// WaitForReady blocks until the database endpoint accepts TCP connections,
// retrying at a fixed interval and logging every attempt. It returns only
// when the endpoint is reachable or the context is cancelled — there is no
// silent fallback to a degraded mode.
func WaitForReady(ctx context.Context, addr string, interval time.Duration) error {
	var d net.Dialer
	for attempt := 1; ; attempt++ {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			slog.Info("database endpoint reachable", "addr", addr, "attempt", attempt)
			return nil
		}

		slog.Info("waiting for database", "addr", addr, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database wait cancelled: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
// Migrations are embedded at compile time so no external files are needed
// at runtime. A migration failure is fatal to startup: callers must not
// begin serving traffic when Migrate returns an error.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
