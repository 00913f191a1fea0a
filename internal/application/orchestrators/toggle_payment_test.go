package orchestrators

import (
	"context"
	"errors"
	"testing"

	"budo/internal/domain/payment"
)

// mockPaymentStore implements PaymentStoreForToggle for testing.
type mockPaymentStore struct {
	payments map[string]payment.Payment
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{payments: make(map[string]payment.Payment)}
}

// GetByID implements PaymentStoreForToggle.
func (m *mockPaymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return payment.Payment{}, errors.New("not found")
	}
	return p, nil
}

// Save implements PaymentStoreForToggle.
func (m *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	m.payments[p.ID] = p
	return nil
}

// TestExecuteTogglePayment tests the pending/paid flip and its round trip.
func TestExecuteTogglePayment(t *testing.T) {
	store := newMockPaymentStore()
	store.payments["pay-001"] = payment.Payment{
		ID: "pay-001", StudentID: "stu-001", DojoID: "dojo-001",
		Amount: 15000, Status: payment.StatusPendente,
	}
	deps := TogglePaymentDeps{PaymentStore: store}

	p, err := ExecuteTogglePayment(context.Background(), "pay-001", "dojo-001", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != payment.StatusPago {
		t.Errorf("expected PAGO after toggle, got %s", p.Status)
	}
	if store.payments["pay-001"].Status != payment.StatusPago {
		t.Error("expected toggle to be persisted")
	}

	// Second toggle restores PENDENTE
	p, err = ExecuteTogglePayment(context.Background(), "pay-001", "dojo-001", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != payment.StatusPendente {
		t.Errorf("expected PENDENTE after second toggle, got %s", p.Status)
	}
}

// TestExecuteTogglePayment_WrongDojo tests the dojo-scope guard.
func TestExecuteTogglePayment_WrongDojo(t *testing.T) {
	store := newMockPaymentStore()
	store.payments["pay-001"] = payment.Payment{
		ID: "pay-001", DojoID: "dojo-001", Status: payment.StatusPendente,
	}

	_, err := ExecuteTogglePayment(context.Background(), "pay-001", "dojo-999", TogglePaymentDeps{PaymentStore: store})
	if !errors.Is(err, ErrPaymentNotInDojo) {
		t.Errorf("expected ErrPaymentNotInDojo, got %v", err)
	}
	if store.payments["pay-001"].Status != payment.StatusPendente {
		t.Error("expected status unchanged on rejected toggle")
	}
}

// TestExecuteTogglePayment_Unknown tests unknown payment IDs.
func TestExecuteTogglePayment_Unknown(t *testing.T) {
	store := newMockPaymentStore()
	_, err := ExecuteTogglePayment(context.Background(), "missing", "dojo-001", TogglePaymentDeps{PaymentStore: store})
	if err == nil {
		t.Error("expected error for unknown payment")
	}
}
