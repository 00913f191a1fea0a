package belt

import (
	"context"

	domain "budo/internal/domain/belt"
)

// Store persists Belt state. List order is color ascending, matching the
// belt-management modal.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Belt, error)
	ListByDojo(ctx context.Context, dojoID string) ([]domain.Belt, error)
	Save(ctx context.Context, value domain.Belt) error
	Delete(ctx context.Context, id string) error
}
