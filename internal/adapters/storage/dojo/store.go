package dojo

import (
	"context"
	"errors"

	domain "budo/internal/domain/dojo"
)

// ErrNotFound is returned when an account has no dojo link. Callers must
// treat it as an empty, non-error state on the read path.
var ErrNotFound = errors.New("dojo not found")

// Store persists Dojo state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Dojo, error)
	GetByOwner(ctx context.Context, accountID string) (domain.Dojo, error)
	Save(ctx context.Context, value domain.Dojo) error
	Delete(ctx context.Context, id string) error
}
