package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
)

func openTestDB(t *testing.T, migrations fstest.MapFS) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"), migrations, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateAppliesOnce(t *testing.T) {
	migrations := fstest.MapFS{
		"002_items.sql": {Data: []byte(`ALTER TABLE items ADD COLUMN note TEXT;`)},
		"001_init.sql":  {Data: []byte(`CREATE TABLE items (id TEXT PRIMARY KEY);`)},
		"README.md":     {Data: []byte(`ignored`)},
	}
	db := openTestDB(t, migrations)

	if _, err := db.Conn.Exec(`INSERT INTO items (id, note) VALUES ('a', 'x')`); err != nil {
		t.Fatalf("schema not migrated in order: %v", err)
	}

	applied, err := db.Migrate(context.Background(), migrations)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("re-applied %v", applied)
	}
}

func TestMigrateFailureLeavesNoRecord(t *testing.T) {
	db := openTestDB(t, fstest.MapFS{})

	_, err := db.Migrate(context.Background(), fstest.MapFS{
		"001_bad.sql": {Data: []byte(`CREATE TABLE ok (id TEXT); CREATE TABLE broken (`)},
	})
	if err == nil {
		t.Fatal("expected migration error")
	}

	var count int
	if err := db.X.Get(&count, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("recorded %d migrations after failure", count)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "realms.db"), Migrations(), zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "sessions", "messages", "notifications", "posts", "comments", "realms", "follows"} {
		var n int
		err := db.X.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil || n != 1 {
			t.Errorf("table %s missing (err = %v)", table, err)
		}
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := openTestDB(t, fstest.MapFS{
		"001.sql": {Data: []byte(`CREATE TABLE items (id TEXT PRIMARY KEY);`)},
	})
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (id) VALUES ('a')`); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}

	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (id) VALUES ('b')`)
		return err
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	var ids []string
	if err := db.X.Select(&ids, `SELECT id FROM items`); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("items = %v, want [b]", ids)
	}
}
