package migrations_test

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	issues "github.com/goliatone/go-issues"
	"github.com/goliatone/go-issues/migrations"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := migrations.Filesystems(issues.GetMigrationsFS())
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}

	var postgresFound bool
	var sqliteFound bool
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		switch entry.Dialect {
		case migrations.DialectPostgres:
			postgresFound = true
		case migrations.DialectSQLite:
			sqliteFound = true
		}
	}
	if !postgresFound || !sqliteFound {
		t.Fatalf("expected postgres and sqlite filesystems")
	}
}

func TestFilesystems_RejectsTreeWithoutMigrations(t *testing.T) {
	empty := fstest.MapFS{"README.md": &fstest.MapFile{Data: []byte("docs")}}
	if _, err := migrations.Filesystems(empty); err == nil {
		t.Fatalf("expected missing migrations error")
	}
	if _, err := migrations.Filesystems(nil); err == nil {
		t.Fatalf("expected nil filesystem error")
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	var label string
	_, err := migrations.Register(context.Background(), issues.GetMigrationsFS(), func(_ context.Context, dialect string, sourceLabel string, _ fs.FS) error {
		calls = append(calls, dialect)
		label = sourceLabel
		return nil
	}, migrations.WithValidationTargets(migrations.DialectSQLite))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(calls) != 1 || calls[0] != migrations.DialectSQLite {
		t.Fatalf("expected a single sqlite registration, got %#v", calls)
	}
	if label != "go-issues" {
		t.Fatalf("unexpected source label %q", label)
	}
}

func TestRegister_RequiresRegisterFunc(t *testing.T) {
	if _, err := migrations.Register(context.Background(), issues.GetMigrationsFS(), nil); err == nil {
		t.Fatalf("expected register function error")
	}
}

func TestDialectFor(t *testing.T) {
	cases := map[string]string{
		"sqlite3":    migrations.DialectSQLite,
		"SQLite":     migrations.DialectSQLite,
		"postgres":   migrations.DialectPostgres,
		"PostgreSQL": migrations.DialectPostgres,
		"pq":         migrations.DialectPostgres,
		"":           migrations.DialectSQLite,
	}
	for driver, want := range cases {
		got, err := migrations.DialectFor(driver)
		if err != nil || got != want {
			t.Fatalf("dialect for %q: want %q, got %q err=%v", driver, want, got, err)
		}
	}
	for _, driver := range []string{"mysql", "pgx"} {
		if _, err := migrations.DialectFor(driver); err == nil {
			t.Fatalf("expected unsupported driver error for %q", driver)
		}
	}
}

func TestTokenMigrationPair_ExistsForBothDialects(t *testing.T) {
	root := issues.GetMigrationsFS()
	paths := []string{
		"data/sql/migrations/00001_issue_oauth_tokens.up.sql",
		"data/sql/migrations/00001_issue_oauth_tokens.down.sql",
		"data/sql/migrations/sqlite/00001_issue_oauth_tokens.up.sql",
		"data/sql/migrations/sqlite/00001_issue_oauth_tokens.down.sql",
	}
	for _, migrationPath := range paths {
		content, err := fs.ReadFile(root, migrationPath)
		if err != nil {
			t.Fatalf("read migration %s: %v", migrationPath, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			t.Fatalf("expected migration %s to have SQL content", migrationPath)
		}
	}
}

func TestSQLiteTokenMigration_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-oauth-tokens?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	sqliteMigrations, err := fs.Sub(issues.GetMigrationsFS(), "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}
	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "00001_issue_oauth_tokens.up.sql"); err != nil {
		t.Fatalf("apply token migration up: %v", err)
	}

	insertStatement := `
		INSERT INTO issue_oauth_tokens (id, connection_id, version, access_token, status)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(context.Background(), insertStatement, "tok-1", "conn_1", 1, "token", "active"); err != nil {
		t.Fatalf("insert token: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), insertStatement, "tok-2", "conn_1", 1, "token", "active"); err == nil {
		t.Fatalf("expected unique version violation")
	}

	if err := execSQLMigration(context.Background(), db, sqliteMigrations, "00001_issue_oauth_tokens.down.sql"); err != nil {
		t.Fatalf("apply token migration down: %v", err)
	}
	var count int
	if err := db.QueryRowContext(
		context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`,
		"issue_oauth_tokens",
	).Scan(&count); err != nil {
		t.Fatalf("query sqlite_master after down migration: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected issue_oauth_tokens to be dropped after down migration")
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
