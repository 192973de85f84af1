package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestMigrations(t *testing.T, files map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewRunner_UnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestApplyMigrations(t *testing.T) {
	db := openSQLite(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql":     "CREATE TABLE entries (tag TEXT NOT NULL);",
		"002_settings.sql": "CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);",
		"README.md":        "ignored",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}

	var logs []string
	count, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("ApplyMigrations() applied %d, want 2", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("GetCurrentVersion() = %d, want 2", version)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() second run failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second ApplyMigrations() applied %d, want 0", count)
	}
}

func TestApplyMigrations_RollbackOnError(t *testing.T) {
	db := openSQLite(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql":   "CREATE TABLE entries (tag TEXT NOT NULL);",
		"002_broken.sql": "CREATE TABLE oops (;",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("applied %d before failure, want 1", count)
	}
	if !strings.Contains(err.Error(), "migration 2") {
		t.Errorf("error should name the failing migration, got %v", err)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version after failure = %d, want 1", version)
	}
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": ""}},
		{"non numeric version", map[string]string{"abc_init.sql": ""}},
		{"zero version", map[string]string{"000_init.sql": ""}},
		{"duplicate version", map[string]string{"001_a.sql": "", "001_b.sql": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := NewRunner(nil, setupTestMigrations(t, tt.files), DriverSQLite)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := openSQLite(t)
	runner, _ := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE entries (tag TEXT);",
	}), DriverSQLite)

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error when database is newer than the migrations")
	}
}
