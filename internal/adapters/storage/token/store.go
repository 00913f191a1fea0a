package token

import (
	"context"

	domain "budo/internal/domain/token"
)

// Store persists RefreshToken state.
type Store interface {
	GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error)
	Save(ctx context.Context, value domain.RefreshToken) error
	Revoke(ctx context.Context, id string) error
}
