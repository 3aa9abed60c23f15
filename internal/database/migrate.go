package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Migration struct {
	Version  int
	Filename string
}

// Pending lists the migrations that have not been applied yet, in order.
func Pending(ctx context.Context, database *sql.DB) ([]Migration, error) {
	if err := ensureMigrationsTable(ctx, database); err != nil {
		return nil, err
	}

	available, err := availableMigrations()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range available {
		var exists int
		err := database.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", migration.Version,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("checking migration %d: %w", migration.Version, err)
		}
		if exists == 0 {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Migrate applies every pending migration, each in its own transaction, and
// returns how many were applied.
func Migrate(ctx context.Context, database *sql.DB) (int, error) {
	pending, err := Pending(ctx, database)
	if err != nil {
		return 0, err
	}

	for _, migration := range pending {
		if err := apply(ctx, database, migration); err != nil {
			return 0, err
		}
		slog.Info("applied migration", "version", migration.Version, "file", migration.Filename)
	}

	return len(pending), nil
}

func ensureMigrationsTable(ctx context.Context, database *sql.DB) error {
	if _, err := database.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}
	return nil
}

func availableMigrations() ([]Migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			migrations = append(migrations, Migration{
				Version:  extractVersion(entry.Name()),
				Filename: entry.Name(),
			})
		}
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func apply(ctx context.Context, database *sql.DB, migration Migration) error {
	content, err := migrationsFS.ReadFile("migrations/" + migration.Filename)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", migration.Filename, err)
	}

	transaction, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction for migration %d: %w", migration.Version, err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("executing migration %s: %w", migration.Filename, err)
	}

	if _, err := transaction.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("recording migration %d: %w", migration.Version, err)
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", migration.Version, err)
	}
	return nil
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
