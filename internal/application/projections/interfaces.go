package projections

import (
	"context"

	"budo/internal/domain/belt"
	"budo/internal/domain/dojo"
	"budo/internal/domain/payment"
	"budo/internal/domain/student"
)

// DojoStore defines the dojo read interface for projections.
type DojoStore interface {
	GetByOwner(ctx context.Context, accountID string) (dojo.Dojo, error)
}

// StudentStore defines the student read interface for projections.
type StudentStore interface {
	ListByDojo(ctx context.Context, dojoID string) ([]student.Student, error)
}

// BeltStore defines the belt read interface for projections.
type BeltStore interface {
	ListByDojo(ctx context.Context, dojoID string) ([]belt.Belt, error)
}

// PaymentStore defines the payment read interface for projections.
type PaymentStore interface {
	ListWindow(ctx context.Context, dojoID string, window payment.Window) ([]payment.Payment, error)
}
