package projections

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dojostore "budo/internal/adapters/storage/dojo"
	"budo/internal/domain/dojo"
	"budo/internal/domain/payment"
)

// MonthAll selects the whole year instead of a single month.
const MonthAll = "all"

// ErrInvalidMonth is returned for a month outside "all" or "1".."12".
// Handlers map it to a client error rather than a server fault.
var ErrInvalidMonth = errors.New("month must be 'all' or 1-12")

// GetCashflowQuery carries query parameters. Month is "all" or "1".."12".
type GetCashflowQuery struct {
	AccountID string
	Month     string
	Year      int
	Search    string // case-insensitive student name match
}

// CashflowRow is one installment joined with its student's name.
type CashflowRow struct {
	Payment     payment.Payment
	StudentName string
}

// GetCashflowResult carries the query result. Totals cover the whole fetched
// window; the name search narrows Rows only.
type GetCashflowResult struct {
	Dojo     dojo.Dojo
	Rows     []CashflowRow
	Received int64
	Pending  int64
	Month    string
	Year     int
	Search   string
}

// GetCashflowDeps holds dependencies for GetCashflow.
type GetCashflowDeps struct {
	DojoStore    DojoStore
	StudentStore StudentStore
	PaymentStore PaymentStore
}

// QueryGetCashflow loads the finance screen: the window's installments with
// student names, plus received/pending totals.
// PRE: AccountID identifies an authenticated account; Year > 0
// POST: Rows ordered by due date; totals computed from the full window,
// before the search filter
func QueryGetCashflow(ctx context.Context, query GetCashflowQuery, deps GetCashflowDeps) (GetCashflowResult, error) {
	d, err := deps.DojoStore.GetByOwner(ctx, query.AccountID)
	if errors.Is(err, dojostore.ErrNotFound) {
		return GetCashflowResult{Month: query.Month, Year: query.Year, Search: query.Search}, nil
	}
	if err != nil {
		return GetCashflowResult{}, err
	}

	window := payment.YearWindow(query.Year)
	if query.Month != MonthAll {
		m, err := strconv.Atoi(query.Month)
		if err != nil || m < 1 || m > 12 {
			return GetCashflowResult{}, ErrInvalidMonth
		}
		window = payment.MonthWindow(query.Year, time.Month(m))
	}

	payments, err := deps.PaymentStore.ListWindow(ctx, d.ID, window)
	if err != nil {
		return GetCashflowResult{}, err
	}
	students, err := deps.StudentStore.ListByDojo(ctx, d.ID)
	if err != nil {
		return GetCashflowResult{}, err
	}

	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	// Totals summarize the window; the search only narrows the listing
	received, pending := payment.Totals(payments)

	search := strings.ToLower(strings.TrimSpace(query.Search))
	var rows []CashflowRow
	for _, p := range payments {
		name := names[p.StudentID]
		if search != "" && !strings.Contains(strings.ToLower(name), search) {
			continue
		}
		rows = append(rows, CashflowRow{Payment: p, StudentName: name})
	}

	return GetCashflowResult{
		Dojo:     d,
		Rows:     rows,
		Received: received,
		Pending:  pending,
		Month:    query.Month,
		Year:     query.Year,
		Search:   query.Search,
	}, nil
}
