package token

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budo/internal/adapters/storage"
	domain "budo/internal/domain/token"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new refresh-token store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByHash retrieves a RefreshToken by its stored hash.
// PRE: hash is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, token_hash, expires_at, revoked, created_at FROM refresh_token WHERE token_hash = ?", hash)
	var entity domain.RefreshToken
	var expiresAt, createdAt string
	var revoked int
	err := row.Scan(&entity.ID, &entity.AccountID, &entity.TokenHash, &expiresAt, &revoked, &createdAt)
	if err == sql.ErrNoRows {
		return domain.RefreshToken{}, fmt.Errorf("refresh token not found: %w", err)
	}
	if err != nil {
		return domain.RefreshToken{}, err
	}
	entity.Revoked = revoked != 0
	entity.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return entity, nil
}

// Save persists a RefreshToken to the database.
// PRE: entity carries a hash, never a raw token
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.RefreshToken) error {
	revoked := 0
	if entity.Revoked {
		revoked = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_token (id, account_id, token_hash, expires_at, revoked, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET revoked=excluded.revoked`,
		entity.ID,
		entity.AccountID,
		entity.TokenHash,
		entity.ExpiresAt.Format(time.RFC3339),
		revoked,
		entity.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// Revoke marks a RefreshToken as revoked.
// PRE: id is non-empty
// POST: Token can no longer be exchanged
func (s *SQLiteStore) Revoke(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE refresh_token SET revoked = 1 WHERE id = ?", id)
	return err
}
