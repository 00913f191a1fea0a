package storage

import (
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// A pooled second connection would see a different in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after InitDB.
var expectedTables = []string{
	"account",
	"belt",
	"dojo",
	"payment",
	"refresh_token",
	"student",
}

// TestInitDB verifies the schema creates every table.
func TestInitDB(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}

	got := getTableNames(t, db)
	if len(got) != len(expectedTables) {
		t.Fatalf("got %d tables %v, want %d", len(got), got, len(expectedTables))
	}
	for i, name := range expectedTables {
		if got[i] != name {
			t.Errorf("table[%d] = %s, want %s", i, got[i], name)
		}
	}
}

// TestInitDB_Idempotent verifies InitDB can run twice without error.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB() error: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB() error: %v", err)
	}
}

// TestInitDB_BeltUniquePerDojo verifies the (dojo_id, color) uniqueness
// constraint the belt editor relies on.
func TestInitDB_BeltUniquePerDojo(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}

	mustExec(t, db, "INSERT INTO account (id, email, role, created_at) VALUES ('a1', 'x@y.z', 'admin', '2026-01-01T00:00:00Z')")
	mustExec(t, db, "INSERT INTO account (id, email, role, created_at) VALUES ('a2', 'w@y.z', 'admin', '2026-01-01T00:00:00Z')")
	mustExec(t, db, "INSERT INTO dojo (id, owner_account_id, name, created_at) VALUES ('d1', 'a1', 'Dojo', '2026-01-01T00:00:00Z')")
	mustExec(t, db, "INSERT INTO dojo (id, owner_account_id, name, created_at) VALUES ('d2', 'a2', 'Dojo 2', '2026-01-01T00:00:00Z')")

	mustExec(t, db, "INSERT INTO belt (id, dojo_id, color) VALUES ('b1', 'd1', 'AZUL')")
	if _, err := db.Exec("INSERT INTO belt (id, dojo_id, color) VALUES ('b2', 'd1', 'AZUL')"); err == nil {
		t.Error("expected duplicate color within a dojo to be rejected")
	}
	// Same color in a different dojo is fine
	mustExec(t, db, "INSERT INTO belt (id, dojo_id, color) VALUES ('b3', 'd2', 'AZUL')")
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
