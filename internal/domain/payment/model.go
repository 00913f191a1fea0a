package payment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status constants. Values match what the mobile client displays, so they are
// stored verbatim.
const (
	StatusPendente = "PENDENTE"
	StatusPago     = "PAGO"
)

// Month labels for schedule descriptions, indexed by time.Month.
var monthLabels = map[time.Month]string{
	time.January: "Janeiro", time.February: "Fevereiro", time.March: "Março",
	time.April: "Abril", time.May: "Maio", time.June: "Junho",
	time.July: "Julho", time.August: "Agosto", time.September: "Setembro",
	time.October: "Outubro", time.November: "Novembro", time.December: "Dezembro",
}

// Domain errors
var (
	ErrNegativeAmount = errors.New("payment amount cannot be negative")
	ErrInvalidStatus  = errors.New("payment status must be PENDENTE or PAGO")
)

// Payment is one tuition installment. Amount is in centavos.
type Payment struct {
	ID          string
	StudentID   string
	DojoID      string
	Description string
	Amount      int64
	DueDate     time.Time
	Status      string
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Payment) Validate() error {
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if p.Status != StatusPendente && p.Status != StatusPago {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(p.StudentID) == "" {
		return errors.New("payment must reference a student")
	}
	if strings.TrimSpace(p.DojoID) == "" {
		return errors.New("payment must belong to a dojo")
	}
	return nil
}

// Toggle flips the status between PENDENTE and PAGO.
// POST: Status is the opposite of what it was; two toggles restore it
func (p *Payment) Toggle() {
	if p.Status == StatusPago {
		p.Status = StatusPendente
	} else {
		p.Status = StatusPago
	}
}

// ParseAmount converts a tuition form value into centavos. Accepts plain
// reais ("150"), dotted or comma decimals ("150.50", "150,50"). Blank or
// non-numeric input is worth zero, matching the enrollment form default.
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v*100 + 0.5)
}

// FormatAmount renders centavos as a reais string with two decimals.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d,%02d", cents/100, cents%100)
}

// BuildSchedule derives the tuition installments for a new student: one
// payment per calendar month from the enrollment month through December of
// the enrollment year, all PENDENTE.
// PRE: studentID and dojoID are non-empty; amount >= 0
// POST: Returns 13 - enrollmentMonth payments; due day is the enrollment
// day-of-month, clamped to each month's length
func BuildSchedule(studentID, dojoID string, amount int64, enrolledAt time.Time, newID func() string) []Payment {
	var out []Payment
	year := enrolledAt.Year()
	day := enrolledAt.Day()
	for m := enrolledAt.Month(); m <= time.December; m++ {
		out = append(out, Payment{
			ID:          newID(),
			StudentID:   studentID,
			DojoID:      dojoID,
			Description: fmt.Sprintf("Mensalidade %s/%d", monthLabels[m], year),
			Amount:      amount,
			DueDate:     dueDate(year, m, day),
			Status:      StatusPendente,
		})
	}
	return out
}

// dueDate clamps the preferred day to the month's last day so a student
// enrolled on the 31st still gets a February installment.
func dueDate(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Totals sums a fetched window into received (PAGO) and pending (PENDENTE)
// centavos. Only the given window contributes, never all-time data.
func Totals(list []Payment) (received, pending int64) {
	for _, p := range list {
		switch p.Status {
		case StatusPago:
			received += p.Amount
		case StatusPendente:
			pending += p.Amount
		}
	}
	return received, pending
}

// Window is an inclusive due-date range used by the finance screen.
type Window struct {
	From time.Time
	To   time.Time
}

// YearWindow covers January 1st through December 31st of a year.
func YearWindow(year int) Window {
	return Window{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// MonthWindow covers the first through last calendar day of a month.
func MonthWindow(year int, month time.Month) Window {
	return Window{
		From: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC),
	}
}
