package dojo

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyName = errors.New("dojo name cannot be empty")
	ErrNoOwner   = errors.New("dojo must have an owner account")
)

// Dojo is the school tenant. Every student, belt and payment belongs to
// exactly one dojo, and each dojo is administered by one account.
type Dojo struct {
	ID             string
	OwnerAccountID string
	Name           string
	About          string // markdown shown on the dashboard
	CreatedAt      time.Time
}

// Validate checks if the Dojo has valid data.
// PRE: Dojo struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (d *Dojo) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > MaxNameLength {
		return errors.New("dojo name cannot exceed 100 characters")
	}
	if strings.TrimSpace(d.OwnerAccountID) == "" {
		return ErrNoOwner
	}
	return nil
}
