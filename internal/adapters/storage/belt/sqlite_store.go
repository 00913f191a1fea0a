package belt

import (
	"context"
	"database/sql"
	"fmt"

	"budo/internal/adapters/storage"
	domain "budo/internal/domain/belt"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new belt store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Belt by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Belt, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, dojo_id, color FROM belt WHERE id = ?", id)
	var entity domain.Belt
	err := row.Scan(&entity.ID, &entity.DojoID, &entity.Color)
	if err == sql.ErrNoRows {
		return domain.Belt{}, fmt.Errorf("belt not found: %w", err)
	}
	return entity, err
}

// ListByDojo retrieves a dojo's belt taxonomy, ordered by color ascending.
// PRE: dojoID is non-empty
// POST: Returns the belts; empty slice when none
func (s *SQLiteStore) ListByDojo(ctx context.Context, dojoID string) ([]domain.Belt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, dojo_id, color FROM belt WHERE dojo_id = ? ORDER BY color ASC", dojoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Belt
	for rows.Next() {
		var entity domain.Belt
		if err := rows.Scan(&entity.ID, &entity.DojoID, &entity.Color); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Belt to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Belt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO belt (id, dojo_id, color) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET color=excluded.color`,
		entity.ID, entity.DojoID, entity.Color)
	return err
}

// Delete removes a Belt from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM belt WHERE id = ?", id)
	return err
}
