package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrationStep pairs a schema version with the statements that establish it.
type migrationStep struct {
	version     int
	description string
	statements  []string
}

// migrations lists every schema change in execution order. Applied versions
// are recorded in schema_migrations and never re-run.
var migrations = []migrationStep{
	{
		version:     1,
		description: "create users, rooms, and reservations tables",
		statements: []string{
			`CREATE TABLE users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE rooms (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				capacity INTEGER NOT NULL CHECK (capacity > 0),
				location TEXT NOT NULL DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE reservations (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				room_id TEXT NOT NULL REFERENCES rooms(id),
				full_name TEXT NOT NULL,
				course_section TEXT NOT NULL,
				reservation_type TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				activity_description TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'Pending',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version:     2,
		description: "index reservations for dashboard filters",
		statements: []string{
			`CREATE INDEX idx_reservations_user_id ON reservations(user_id)`,
			`CREATE INDEX idx_reservations_room_id ON reservations(room_id)`,
			`CREATE INDEX idx_reservations_status ON reservations(status)`,
		},
	},
}

// Migrate brings the schema up to date. Each pending step runs inside its
// own transaction together with its version bookkeeping, so a failed step
// leaves the recorded version consistent with the actual schema.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations: %w", err)
	}

	current, err := cp.currentSchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range migrations {
		if step.version <= current {
			continue
		}

		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range step.statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", step.version, step.description, err)
				}
			}
			_, err := tx.Exec(
				`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
				step.version, step.description, time.Now().UTC().Format(time.RFC3339),
			)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (cp *ConnectionPool) currentSchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := cp.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
