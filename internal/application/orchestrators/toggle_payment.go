package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"budo/internal/domain/payment"
)

// PaymentStoreForToggle defines the store interface needed by TogglePayment.
type PaymentStoreForToggle interface {
	GetByID(ctx context.Context, id string) (payment.Payment, error)
	Save(ctx context.Context, p payment.Payment) error
}

// TogglePaymentDeps holds dependencies for TogglePayment.
type TogglePaymentDeps struct {
	PaymentStore PaymentStoreForToggle
}

var ErrPaymentNotInDojo = errors.New("payment does not belong to this dojo")

// ExecuteTogglePayment flips one installment between PENDENTE and PAGO.
// PRE: paymentID exists; dojoID resolved from the authenticated account
// POST: Status is the opposite of what it was; toggling twice restores it
func ExecuteTogglePayment(ctx context.Context, paymentID, dojoID string, deps TogglePaymentDeps) (payment.Payment, error) {
	p, err := deps.PaymentStore.GetByID(ctx, paymentID)
	if err != nil {
		return payment.Payment{}, err
	}
	if p.DojoID != dojoID {
		return payment.Payment{}, ErrPaymentNotInDojo
	}

	p.Toggle()
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return payment.Payment{}, err
	}

	slog.Info("payment_toggled", "payment_id", p.ID, "status", p.Status)
	return p, nil
}
