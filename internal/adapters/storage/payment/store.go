package payment

import (
	"context"

	domain "budo/internal/domain/payment"
)

// Store persists Payment state. Window listings are ordered by due date
// ascending, matching the finance screen.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	ListWindow(ctx context.Context, dojoID string, window domain.Window) ([]domain.Payment, error)
	Save(ctx context.Context, value domain.Payment) error
	SaveBatch(ctx context.Context, values []domain.Payment) error
	Delete(ctx context.Context, id string) error
}
