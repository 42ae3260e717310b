package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/room-tracker/internal/persistence/sqlite"
)

func openStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roomtracker.db")
	storage, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestMigrate_AppliesSchema(t *testing.T) {
	t.Parallel()

	storage := openStorage(t)
	ctx := context.Background()

	if err := storage.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	for _, table := range []string{"users", "rooms", "reservations", "schema_migrations"} {
		var name string
		err := storage.Pool().DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	t.Parallel()

	storage := openStorage(t)
	ctx := context.Background()

	if err := storage.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var steps int
	if err := storage.Pool().DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations`,
	).Scan(&steps); err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	if steps != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", steps)
	}
}
