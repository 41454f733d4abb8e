package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending database migrations embedded in the binary.
// It is safe to call on every startup; already-applied migrations are skipped.
func RunMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// secondaryIndexes supports the dashboard's later querying: natural key is
// already the primary key, so only repository, state, and recency get indexes.
var secondaryIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pull_requests_repository ON pull_requests (repository_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pull_requests_state ON pull_requests (state)`,
	`CREATE INDEX IF NOT EXISTS idx_pull_requests_created ON pull_requests (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_repository ON issues (repository_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_state ON issues (state)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_created ON issues (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_repository ON comments (repository_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments (repository_id, parent_type, parent_number)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_created ON comments (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_contributor_activity_repository ON contributor_activity (repository_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contributor_activity_updated ON contributor_activity (last_updated DESC)`,
}

// EnsureIndexes creates the secondary indexes on every collection. Index
// creation failures are logged and skipped, never fatal; the store works
// without them, just slower.
func EnsureIndexes(ctx context.Context, db *DB) {
	for _, stmt := range secondaryIndexes {
		if _, err := db.Writer.ExecContext(ctx, stmt); err != nil {
			slog.Warn("index creation failed", "stmt", stmt, "error", err)
		}
	}
}
