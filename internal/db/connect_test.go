package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	dbh, err := Open(ctx, DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()

	for _, table := range []string{"users", "quizzes", "event_log", "contact_messages"} {
		var name string
		err := dbh.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// schema is idempotent
	if err := EnsureSchema(ctx, dbh, DriverSQLite); err != nil {
		t.Fatalf("second ensureSchema: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Driver("mysql"), ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	dbh, err := Open(ctx, DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbh.Close()

	ins := `INSERT INTO users (id,name,email,password_hash,created_at) VALUES ($1,$2,$3,$4,$5)`
	if _, err := dbh.ExecContext(ctx, ins, "u1", "Ada", "ada@example.com", "x", 1); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = dbh.ExecContext(ctx, ins, "u2", "Ada", "ada@example.com", "x", 1)
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if IsUniqueViolation(nil) {
		t.Fatalf("nil is not a violation")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("postgres 23505 should count")
	}
}
