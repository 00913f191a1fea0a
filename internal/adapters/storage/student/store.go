package student

import (
	"context"

	domain "budo/internal/domain/student"
)

// Store persists Student state. List order is name ascending, matching the
// roster screen.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	ListByDojo(ctx context.Context, dojoID string) ([]domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	Delete(ctx context.Context, id string) error
}
