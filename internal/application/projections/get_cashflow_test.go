package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"budo/internal/domain/dojo"
	"budo/internal/domain/payment"
	"budo/internal/domain/student"
)

func cashflowDeps() GetCashflowDeps {
	due := func(m time.Month, d int) time.Time {
		return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
	}
	return GetCashflowDeps{
		DojoStore: &mockDojoStore{byOwner: map[string]dojo.Dojo{
			"acct-001": {ID: "dojo-001", OwnerAccountID: "acct-001", Name: "Academia Central"},
		}},
		StudentStore: &mockStudentStore{students: []student.Student{
			{ID: "s1", DojoID: "dojo-001", Name: "Akira Tanaka", Belt: "AZUL", CPF: "1"},
			{ID: "s2", DojoID: "dojo-001", Name: "Bruno Lima", Belt: "BRANCA", CPF: "2"},
		}},
		PaymentStore: &mockPaymentStore{payments: []payment.Payment{
			{ID: "p1", StudentID: "s1", DojoID: "dojo-001", Amount: 15000, DueDate: due(time.March, 10), Status: payment.StatusPago},
			{ID: "p2", StudentID: "s2", DojoID: "dojo-001", Amount: 12000, DueDate: due(time.March, 15), Status: payment.StatusPendente},
			{ID: "p3", StudentID: "s1", DojoID: "dojo-001", Amount: 15000, DueDate: due(time.April, 10), Status: payment.StatusPendente},
		}},
	}
}

// TestQueryGetCashflow_SingleMonth tests the month window and its totals.
func TestQueryGetCashflow_SingleMonth(t *testing.T) {
	res, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
		AccountID: "acct-001",
		Month:     "3",
		Year:      2026,
	}, cashflowDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 March rows, got %d", len(res.Rows))
	}
	if res.Received != 15000 {
		t.Errorf("expected received 15000, got %d", res.Received)
	}
	if res.Pending != 12000 {
		t.Errorf("expected pending 12000, got %d", res.Pending)
	}
	if res.Rows[0].StudentName != "Akira Tanaka" {
		t.Errorf("expected joined student name, got %s", res.Rows[0].StudentName)
	}
}

// TestQueryGetCashflow_WholeYear tests the "all" month selection.
func TestQueryGetCashflow_WholeYear(t *testing.T) {
	res, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
		AccountID: "acct-001",
		Month:     MonthAll,
		Year:      2026,
	}, cashflowDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows for the year, got %d", len(res.Rows))
	}
	if res.Pending != 27000 {
		t.Errorf("expected pending 27000, got %d", res.Pending)
	}
}

// TestQueryGetCashflow_Search tests case-insensitive name filtering. The
// search narrows the listing only; totals still describe the whole window.
func TestQueryGetCashflow_Search(t *testing.T) {
	deps := cashflowDeps()
	full, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
		AccountID: "acct-001",
		Month:     "3",
		Year:      2026,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
		AccountID: "acct-001",
		Month:     "3",
		Year:      2026,
		Search:    "bruno",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row for bruno, got %d", len(res.Rows))
	}
	if res.Rows[0].StudentName != "Bruno Lima" {
		t.Errorf("expected Bruno Lima, got %s", res.Rows[0].StudentName)
	}
	if res.Received != 15000 || res.Pending != 12000 {
		t.Errorf("expected window totals 15000/12000 regardless of search, got %d/%d", res.Received, res.Pending)
	}
	if res.Received != full.Received || res.Pending != full.Pending {
		t.Errorf("search changed the totals: full=%d/%d searched=%d/%d",
			full.Received, full.Pending, res.Received, res.Pending)
	}
}

// TestQueryGetCashflow_InvalidMonth tests month validation.
func TestQueryGetCashflow_InvalidMonth(t *testing.T) {
	for _, m := range []string{"0", "13", "janeiro", ""} {
		_, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
			AccountID: "acct-001",
			Month:     m,
			Year:      2026,
		}, cashflowDeps())
		if !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("expected ErrInvalidMonth for month %q, got %v", m, err)
		}
	}
}

// TestQueryGetCashflow_NoDojo tests the empty state for accounts without a dojo.
func TestQueryGetCashflow_NoDojo(t *testing.T) {
	res, err := QueryGetCashflow(context.Background(), GetCashflowQuery{
		AccountID: "acct-999",
		Month:     MonthAll,
		Year:      2026,
	}, cashflowDeps())
	if err != nil {
		t.Fatalf("expected empty result, got error: %v", err)
	}
	if len(res.Rows) != 0 || res.Received != 0 || res.Pending != 0 {
		t.Error("expected empty cashflow for account without dojo")
	}
}
