package belt

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxColorLength = 40
)

// Domain errors
var (
	ErrEmptyColor = errors.New("belt color cannot be empty")
)

// Belt is one rank in a dojo's taxonomy. Colors are stored uppercase and
// listed lexicographically.
type Belt struct {
	ID     string
	DojoID string
	Color  string
}

// NormalizeColor uppercases and trims a rank label.
func NormalizeColor(color string) string {
	return strings.ToUpper(strings.TrimSpace(color))
}

// Validate checks if the Belt has valid data.
// PRE: Belt struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (b *Belt) Validate() error {
	if strings.TrimSpace(b.Color) == "" {
		return ErrEmptyColor
	}
	if len(b.Color) > MaxColorLength {
		return errors.New("belt color cannot exceed 40 characters")
	}
	if strings.TrimSpace(b.DojoID) == "" {
		return errors.New("belt must belong to a dojo")
	}
	return nil
}
