package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 10

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	err = MigratePostgres(ctx, pool)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies pending migrations.
// Tests pass "file:<name>?mode=memory&cache=shared" for an isolated in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "timetracker.db"
	}

	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer; one connection keeps writes serialized
	// and an in-memory database alive for the lifetime of the handle
	d.SetMaxOpenConns(1)

	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}

	// journal_mode is not supported for in-memory databases
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)

	if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		_ = d.Close()
		return nil, err
	}

	if err := MigrateSQLite(d); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return d, nil
}
