package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"budo/internal/domain/belt"

	"github.com/google/uuid"
)

// BeltStoreForEdit defines the store interface needed by belt editing.
type BeltStoreForEdit interface {
	GetByID(ctx context.Context, id string) (belt.Belt, error)
	ListByDojo(ctx context.Context, dojoID string) ([]belt.Belt, error)
	Save(ctx context.Context, b belt.Belt) error
	Delete(ctx context.Context, id string) error
}

// BeltDeps holds dependencies for belt editing.
type BeltDeps struct {
	BeltStore BeltStoreForEdit
}

var (
	ErrDuplicateBelt = errors.New("this belt color already exists")
	ErrBeltNotInDojo = errors.New("belt does not belong to this dojo")
)

// ExecuteCreateBelt adds a rank color to a dojo's taxonomy.
// PRE: dojoID resolved from the authenticated account
// POST: Color stored uppercase; duplicates within the dojo rejected
func ExecuteCreateBelt(ctx context.Context, dojoID, color string, deps BeltDeps) (string, error) {
	b := belt.Belt{
		ID:     uuid.New().String(),
		DojoID: dojoID,
		Color:  belt.NormalizeColor(color),
	}
	if err := b.Validate(); err != nil {
		return "", err
	}

	existing, err := deps.BeltStore.ListByDojo(ctx, dojoID)
	if err != nil {
		return "", err
	}
	for _, e := range existing {
		if e.Color == b.Color {
			return "", ErrDuplicateBelt
		}
	}

	if err := deps.BeltStore.Save(ctx, b); err != nil {
		return "", err
	}
	slog.Info("belt_created", "dojo_id", dojoID, "color", b.Color)
	return b.ID, nil
}

// ExecuteDeleteBelt removes a rank color. Students wearing the color keep it;
// the roster stores belts by value.
// PRE: beltID exists; dojoID resolved from the authenticated account
// POST: Belt removed from the taxonomy
func ExecuteDeleteBelt(ctx context.Context, beltID, dojoID string, deps BeltDeps) error {
	existing, err := deps.BeltStore.GetByID(ctx, beltID)
	if err != nil {
		return err
	}
	if existing.DojoID != dojoID {
		return ErrBeltNotInDojo
	}
	if err := deps.BeltStore.Delete(ctx, beltID); err != nil {
		return err
	}
	slog.Info("belt_deleted", "dojo_id", dojoID, "color", existing.Color)
	return nil
}
