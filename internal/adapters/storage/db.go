package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS dojo (
		id TEXT PRIMARY KEY,
		owner_account_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		about TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (owner_account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS belt (
		id TEXT PRIMARY KEY,
		dojo_id TEXT NOT NULL,
		color TEXT NOT NULL,
		FOREIGN KEY (dojo_id) REFERENCES dojo(id),
		UNIQUE (dojo_id, color)
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		dojo_id TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		belt TEXT NOT NULL,
		birth_date TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		cpf TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		FOREIGN KEY (dojo_id) REFERENCES dojo(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		dojo_id TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount INTEGER NOT NULL DEFAULT 0,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDENTE',
		FOREIGN KEY (student_id) REFERENCES student(id),
		FOREIGN KEY (dojo_id) REFERENCES dojo(id)
	);

	CREATE INDEX IF NOT EXISTS idx_payment_dojo_due ON payment(dojo_id, due_date);
	CREATE INDEX IF NOT EXISTS idx_student_dojo_name ON student(dojo_id, name);

	CREATE TABLE IF NOT EXISTS refresh_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
