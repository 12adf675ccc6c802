package migration

import (
	"context"

	"autostat/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range r.statements() {
		if _, err := db.ExecContext(ctx, stmt.sql); err != nil {
			return errors.Wrapf(err, "failed to %s", stmt.name)
		}
	}
	return nil
}

type statement struct {
	name string
	sql  string
}

func (r *MigrationRunner) statements() []statement {
	return []statement{
		{"create report_submissions table", `
		CREATE TABLE IF NOT EXISTS report_submissions (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL DEFAULT '',
			content BYTEA NOT NULL,
			annotations JSONB NOT NULL DEFAULT '[]'::jsonb,
			strategy VARCHAR(50) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`},
		{"create report_submissions expiry index", `
		CREATE INDEX IF NOT EXISTS idx_report_submissions_expires_at
			ON report_submissions(expires_at)`},
	}
}
