package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationTable = "schema_migrations"

// Migrations exposes the embedded migration files by name.
func Migrations() fs.FS {
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return sub
}

// Migrate applies every pending *.up.sql migration in name order, each in its
// own transaction, recording applied names in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := ensureMigrationTable(ctx, db); err != nil {
		return err
	}

	names, err := migrationNames(".up.sql")
	if err != nil {
		return err
	}

	for _, name := range names {
		var applied bool
		err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM "+migrationTable+" WHERE name = $1)", name).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		if err := ApplyMigration(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMigration runs a single migration file and records it.
func ApplyMigration(ctx context.Context, db *sql.DB, name string) error {
	if err := ensureMigrationTable(ctx, db); err != nil {
		return err
	}
	content, err := fs.ReadFile(Migrations(), name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	if strings.HasSuffix(name, ".up.sql") {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+migrationTable+" (name) VALUES ($1) ON CONFLICT DO NOTHING", name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
	} else {
		up := strings.TrimSuffix(name, ".down.sql") + ".up.sql"
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+migrationTable+" WHERE name = $1", up); err != nil {
			return fmt.Errorf("failed to unrecord migration %s: %w", up, err)
		}
	}
	return tx.Commit()
}

func ensureMigrationTable(ctx context.Context, db *sql.DB) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to ensure migration table: %w", err)
	}
	return nil
}

// FindMigration resolves a partial name such as "create_votes.up" to the
// embedded file it identifies.
func FindMigration(partial string) (string, error) {
	names, err := migrationNames(".sql")
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if strings.HasSuffix(name, partial+".sql") || name == partial {
			return name, nil
		}
	}
	return "", fmt.Errorf("migration file not found: %s", partial)
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(Migrations(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, path.Base(entry.Name()))
		}
	}
	sort.Strings(names)
	return names, nil
}
