package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"budo/internal/domain/student"
)

// StudentStoreForUpdate defines the store interface needed by student edits.
type StudentStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
	Delete(ctx context.Context, id string) error
}

// UpdateStudentInput carries the editable fields. Zero values mean "clear",
// not "keep", so callers submit the full form.
type UpdateStudentInput struct {
	StudentID string
	DojoID    string
	Name      string
	Address   string
	City      string
	State     string
	Belt      string
	BirthDate string
	Email     string
	CPF       string
}

// UpdateStudentDeps holds dependencies for UpdateStudent.
type UpdateStudentDeps struct {
	StudentStore StudentStoreForUpdate
	Now          func() time.Time
}

var ErrStudentNotInDojo = errors.New("student does not belong to this dojo")

// ExecuteUpdateStudent applies a roster edit.
// PRE: StudentID exists; DojoID resolved from the authenticated account
// POST: Student fields replaced, UpdatedAt bumped
// INVARIANT: A student can only be edited through its own dojo
func ExecuteUpdateStudent(ctx context.Context, input UpdateStudentInput, deps UpdateStudentDeps) error {
	existing, err := deps.StudentStore.GetByID(ctx, input.StudentID)
	if err != nil {
		return err
	}
	if existing.DojoID != input.DojoID {
		return ErrStudentNotInDojo
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	existing.Name = input.Name
	existing.Address = input.Address
	existing.City = input.City
	existing.State = input.State
	existing.Belt = input.Belt
	existing.BirthDate = input.BirthDate
	existing.Email = input.Email
	existing.CPF = student.NormalizeCPF(input.CPF)
	existing.UpdatedAt = now

	if err := existing.Validate(); err != nil {
		return err
	}
	if err := deps.StudentStore.Save(ctx, existing); err != nil {
		return err
	}

	slog.Info("student_updated", "student_id", existing.ID, "dojo_id", existing.DojoID)
	return nil
}

// ExecuteDeleteStudent removes a student and, through the store, the
// student's payment rows.
// PRE: StudentID exists; DojoID resolved from the authenticated account
// POST: Student and dependent payments are gone
func ExecuteDeleteStudent(ctx context.Context, studentID, dojoID string, deps UpdateStudentDeps) error {
	existing, err := deps.StudentStore.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if existing.DojoID != dojoID {
		return ErrStudentNotInDojo
	}
	if err := deps.StudentStore.Delete(ctx, studentID); err != nil {
		return err
	}
	slog.Info("student_deleted", "student_id", studentID, "dojo_id", dojoID)
	return nil
}
