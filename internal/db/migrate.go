package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	upFile  string
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.up\.sql$`)

// loadMigrations returns the up migrations under dir ordered by version.
func loadMigrations(dir string) ([]migration, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}

	out := make([]migration, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() {
			continue
		}

		m := migFileRe.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}

		var ver int
		if _, err := fmt.Sscanf(m[1], "%04d", &ver); err != nil {
			continue
		}

		out = append(out, migration{version: ver, name: m[2], upFile: dir + "/" + de.Name()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })

	return out, nil
}

func MigrateSQLite(d *sql.DB) error {
	migs, err := loadMigrations("migrations/sqlite")
	if err != nil {
		return err
	}

	_, err = d.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
	)`)
	if err != nil {
		return err
	}

	for _, m := range migs {
		var n int
		if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		text, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return err
		}

		tx, err := d.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(text)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %04d_%s failed: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES(?)`, m.version); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	migs, err := loadMigrations("migrations/postgres")
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return err
	}

	for _, m := range migs {
		var applied bool
		err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		text, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return err
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			// no arguments, so pgx sends it over the simple protocol and multiple statements are fine
			if _, err := tx.Exec(ctx, string(text)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations(version) VALUES($1)`, m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %04d_%s failed: %w", m.version, m.name, err)
		}
	}

	return nil
}
