package dojo

import (
	"context"
	"database/sql"
	"time"

	"budo/internal/adapters/storage"
	domain "budo/internal/domain/dojo"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new dojo store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const dojoColumns = "id, owner_account_id, name, about, created_at"

func scanDojo(row interface{ Scan(...any) error }) (domain.Dojo, error) {
	var entity domain.Dojo
	var createdAt string
	err := row.Scan(&entity.ID, &entity.OwnerAccountID, &entity.Name, &entity.About, &createdAt)
	if err != nil {
		return domain.Dojo{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// GetByID retrieves a Dojo by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Dojo, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+dojoColumns+" FROM dojo WHERE id = ?", id)
	entity, err := scanDojo(row)
	if err == sql.ErrNoRows {
		return domain.Dojo{}, ErrNotFound
	}
	return entity, err
}

// GetByOwner retrieves the Dojo administered by the given account.
// PRE: accountID is non-empty
// POST: Returns the entity or ErrNotFound when the account has no dojo link
func (s *SQLiteStore) GetByOwner(ctx context.Context, accountID string) (domain.Dojo, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+dojoColumns+" FROM dojo WHERE owner_account_id = ?", accountID)
	entity, err := scanDojo(row)
	if err == sql.ErrNoRows {
		return domain.Dojo{}, ErrNotFound
	}
	return entity, err
}

// Save persists a Dojo to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Dojo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dojo (id, owner_account_id, name, about, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_account_id=excluded.owner_account_id,
			name=excluded.name, about=excluded.about`,
		entity.ID,
		entity.OwnerAccountID,
		entity.Name,
		entity.About,
		entity.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// Delete removes a Dojo from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM dojo WHERE id = ?", id)
	return err
}
