package projections

import (
	"context"
	"testing"

	dojostore "budo/internal/adapters/storage/dojo"
	"budo/internal/domain/belt"
	"budo/internal/domain/dojo"
	"budo/internal/domain/payment"
	"budo/internal/domain/student"
)

// mockDojoStore implements DojoStore for testing.
type mockDojoStore struct {
	byOwner map[string]dojo.Dojo
}

// GetByOwner implements DojoStore.
func (m *mockDojoStore) GetByOwner(_ context.Context, accountID string) (dojo.Dojo, error) {
	d, ok := m.byOwner[accountID]
	if !ok {
		return dojo.Dojo{}, dojostore.ErrNotFound
	}
	return d, nil
}

// mockStudentStore implements StudentStore for testing.
type mockStudentStore struct {
	students []student.Student
}

// ListByDojo implements StudentStore.
func (m *mockStudentStore) ListByDojo(_ context.Context, dojoID string) ([]student.Student, error) {
	var out []student.Student
	for _, s := range m.students {
		if s.DojoID == dojoID {
			out = append(out, s)
		}
	}
	return out, nil
}

// mockBeltStore implements BeltStore for testing.
type mockBeltStore struct {
	belts []belt.Belt
}

// ListByDojo implements BeltStore.
func (m *mockBeltStore) ListByDojo(_ context.Context, dojoID string) ([]belt.Belt, error) {
	var out []belt.Belt
	for _, b := range m.belts {
		if b.DojoID == dojoID {
			out = append(out, b)
		}
	}
	return out, nil
}

// mockPaymentStore implements PaymentStore for testing.
type mockPaymentStore struct {
	payments []payment.Payment
}

// ListWindow implements PaymentStore.
func (m *mockPaymentStore) ListWindow(_ context.Context, dojoID string, w payment.Window) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, p := range m.payments {
		if p.DojoID != dojoID {
			continue
		}
		if p.DueDate.Before(w.From) || p.DueDate.After(w.To) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func rosterDeps() GetRosterDeps {
	return GetRosterDeps{
		DojoStore: &mockDojoStore{byOwner: map[string]dojo.Dojo{
			"acct-001": {ID: "dojo-001", OwnerAccountID: "acct-001", Name: "Academia Central"},
		}},
		StudentStore: &mockStudentStore{students: []student.Student{
			{ID: "s1", DojoID: "dojo-001", Name: "Akira", Belt: "AZUL", CPF: "1"},
			{ID: "s2", DojoID: "dojo-001", Name: "Bruno", Belt: "BRANCA", CPF: "2"},
			{ID: "s3", DojoID: "dojo-001", Name: "Carla", Belt: "AZUL", CPF: "3"},
		}},
		BeltStore: &mockBeltStore{belts: []belt.Belt{
			{ID: "b1", DojoID: "dojo-001", Color: "AZUL"},
			{ID: "b2", DojoID: "dojo-001", Color: "BRANCA"},
		}},
	}
}

// TestQueryGetRoster_All tests the unfiltered roster.
func TestQueryGetRoster_All(t *testing.T) {
	res, err := QueryGetRoster(context.Background(), GetRosterQuery{AccountID: "acct-001"}, rosterDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Students) != 3 {
		t.Errorf("expected 3 students, got %d", len(res.Students))
	}
	if len(res.Belts) != 2 {
		t.Errorf("expected 2 belts, got %d", len(res.Belts))
	}
	if res.Filter != student.FilterAll {
		t.Errorf("expected default filter ALL, got %s", res.Filter)
	}
	if res.PageInfo.Total != 3 {
		t.Errorf("expected total 3, got %d", res.PageInfo.Total)
	}
}

// TestQueryGetRoster_BeltFilter tests that the filter narrows the page and
// the total.
func TestQueryGetRoster_BeltFilter(t *testing.T) {
	res, err := QueryGetRoster(context.Background(), GetRosterQuery{
		AccountID:  "acct-001",
		BeltFilter: "AZUL",
	}, rosterDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Students) != 2 {
		t.Fatalf("expected 2 AZUL students, got %d", len(res.Students))
	}
	for _, s := range res.Students {
		if s.Belt != "AZUL" {
			t.Errorf("expected only AZUL students, got %s", s.Belt)
		}
	}
	if res.PageInfo.Total != 2 {
		t.Errorf("expected filtered total 2, got %d", res.PageInfo.Total)
	}
}

// TestQueryGetRoster_Pagination tests page slicing over the filtered list.
func TestQueryGetRoster_Pagination(t *testing.T) {
	deps := rosterDeps()
	res, err := QueryGetRoster(context.Background(), GetRosterQuery{
		AccountID: "acct-001",
		Page:      2,
		PerPage:   2,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Students) != 1 {
		t.Fatalf("expected 1 student on page 2, got %d", len(res.Students))
	}
	if res.Students[0].Name != "Carla" {
		t.Errorf("expected Carla on page 2, got %s", res.Students[0].Name)
	}
	if res.PageInfo.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", res.PageInfo.TotalPages)
	}
}

// TestQueryGetRoster_PageBeyondEnd tests that an out-of-range page clamps to
// the last page, with rows and page metadata agreeing.
func TestQueryGetRoster_PageBeyondEnd(t *testing.T) {
	res, err := QueryGetRoster(context.Background(), GetRosterQuery{
		AccountID: "acct-001",
		Page:      99,
		PerPage:   2,
	}, rosterDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PageInfo.Page != 2 {
		t.Errorf("expected page clamped to 2, got %d", res.PageInfo.Page)
	}
	if len(res.Students) != 1 || res.Students[0].Name != "Carla" {
		t.Fatalf("expected the last page's single row, got %d rows", len(res.Students))
	}
	if res.PageInfo.StartRow() != 3 || res.PageInfo.EndRow() != 3 {
		t.Errorf("row range %d-%d does not match the rendered rows",
			res.PageInfo.StartRow(), res.PageInfo.EndRow())
	}
}

// TestQueryGetRoster_NoDojo tests that an account without a dojo gets an
// empty result rather than an error.
func TestQueryGetRoster_NoDojo(t *testing.T) {
	res, err := QueryGetRoster(context.Background(), GetRosterQuery{AccountID: "acct-999"}, rosterDeps())
	if err != nil {
		t.Fatalf("expected empty result, got error: %v", err)
	}
	if len(res.Students) != 0 || len(res.Belts) != 0 {
		t.Error("expected empty roster for account without dojo")
	}
}
