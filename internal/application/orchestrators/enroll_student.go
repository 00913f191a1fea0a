package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budo/internal/adapters/email"
	"budo/internal/domain/payment"
	"budo/internal/domain/student"

	"github.com/google/uuid"
)

// StudentStoreForEnroll defines the store interface needed by EnrollStudent.
type StudentStoreForEnroll interface {
	Save(ctx context.Context, s student.Student) error
}

// PaymentStoreForEnroll defines the store interface needed by EnrollStudent.
type PaymentStoreForEnroll interface {
	SaveBatch(ctx context.Context, values []payment.Payment) error
}

// EnrollStudentInput carries input for the orchestrator.
type EnrollStudentInput struct {
	DojoID    string
	Name      string
	Address   string
	City      string
	State     string
	Belt      string
	BirthDate string
	Email     string
	CPF       string
	Tuition   string // raw form value, parsed to centavos
}

// EnrollStudentResult reports what was actually persisted. The student and
// the tuition schedule are written separately, so the schedule can fail
// after the student exists. ScheduleErr carries that partial failure instead
// of masking it behind a success.
type EnrollStudentResult struct {
	StudentID       string
	ScheduleCreated int
	ScheduleErr     error
}

// EnrollStudentDeps holds dependencies for EnrollStudent.
type EnrollStudentDeps struct {
	StudentStore StudentStoreForEnroll
	PaymentStore PaymentStoreForEnroll
	EmailSender  email.Sender
	EmailFrom    string
	EmailReplyTo string
	Now          func() time.Time
}

var ErrNoDojo = errors.New("account has no dojo")

// ExecuteEnrollStudent creates a roster entry and its tuition schedule.
// PRE: DojoID resolved from the authenticated account; Name, Belt, CPF non-empty
// POST: Student persisted; one PENDENTE installment per month through December;
// ScheduleErr is non-nil when the student saved but the schedule did not
func ExecuteEnrollStudent(ctx context.Context, input EnrollStudentInput, deps EnrollStudentDeps) (EnrollStudentResult, error) {
	if input.DojoID == "" {
		return EnrollStudentResult{}, ErrNoDojo
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	s := student.Student{
		ID:        uuid.New().String(),
		DojoID:    input.DojoID,
		Name:      input.Name,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		Belt:      input.Belt,
		BirthDate: input.BirthDate,
		Email:     input.Email,
		CPF:       student.NormalizeCPF(input.CPF),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Validate domain rules before touching the store
	if err := s.Validate(); err != nil {
		return EnrollStudentResult{}, err
	}

	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return EnrollStudentResult{}, err
	}

	result := EnrollStudentResult{StudentID: s.ID}

	// The student row exists from here on; a schedule failure is surfaced,
	// never silently swallowed.
	schedule := payment.BuildSchedule(s.ID, s.DojoID, payment.ParseAmount(input.Tuition), now, func() string {
		return uuid.New().String()
	})
	if err := deps.PaymentStore.SaveBatch(ctx, schedule); err != nil {
		slog.Error("enroll_schedule_failed", "student_id", s.ID, "error", err)
		result.ScheduleErr = err
		return result, nil
	}
	result.ScheduleCreated = len(schedule)

	// Welcome email is best effort
	if deps.EmailSender != nil && s.Email != "" {
		_, err := deps.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{s.Email},
			From:    deps.EmailFrom,
			ReplyTo: deps.EmailReplyTo,
			Subject: "Bem-vindo ao dojo",
			HTML:    fmt.Sprintf("<p>Olá %s, sua matrícula foi confirmada.</p>", s.Name),
		})
		if err != nil {
			slog.Warn("enroll_email_failed", "student_id", s.ID, "error", err)
		}
	}

	slog.Info("student_enrolled", "student_id", s.ID, "dojo_id", s.DojoID, "installments", result.ScheduleCreated)
	return result, nil
}
