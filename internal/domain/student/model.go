package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxCPFLength  = 14 // formatted: 000.000.000-00
)

// FilterAll is the belt filter value that matches every student.
const FilterAll = "ALL"

// Domain errors
var (
	ErrEmptyName = errors.New("student name cannot be empty")
	ErrEmptyBelt = errors.New("student belt cannot be empty")
	ErrEmptyCPF  = errors.New("student CPF cannot be empty")
)

// Student is a dojo member on the roster. Belt references a color in the
// owning dojo's belt set; the reference is kept by value, not foreign key.
type Student struct {
	ID        string
	DojoID    string
	Name      string
	Address   string
	City      string
	State     string
	Belt      string
	BirthDate string // YYYY-MM-DD, optional
	Email     string
	CPF       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name, Belt and CPF are required; everything else is optional
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if strings.TrimSpace(s.Belt) == "" {
		return ErrEmptyBelt
	}
	if strings.TrimSpace(s.CPF) == "" {
		return ErrEmptyCPF
	}
	if len(s.CPF) > MaxCPFLength {
		return errors.New("student CPF cannot exceed 14 characters")
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return errors.New("student email must be valid")
	}
	return nil
}

// NormalizeCPF strips the usual punctuation from a CPF string.
// INVARIANT: digits are preserved in order
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FilterByBelt returns the students whose belt equals the selection.
// PRE: list is an already-loaded roster snapshot
// POST: selection == FilterAll returns list unchanged; otherwise every
// returned element satisfies element.Belt == selection
func FilterByBelt(list []Student, selection string) []Student {
	if selection == FilterAll || selection == "" {
		return list
	}
	var out []Student
	for _, s := range list {
		if s.Belt == selection {
			out = append(out, s)
		}
	}
	return out
}
