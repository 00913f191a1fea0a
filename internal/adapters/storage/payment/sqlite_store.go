package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budo/internal/adapters/storage"
	domain "budo/internal/domain/payment"
)

// dueDateLayout is the stored due_date format; lexicographic order equals
// calendar order, so range filters are plain string comparisons.
const dueDateLayout = "2006-01-02"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new payment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const paymentColumns = "id, student_id, dojo_id, description, amount, due_date, status"

func scanPayment(row interface{ Scan(...any) error }) (domain.Payment, error) {
	var entity domain.Payment
	var due string
	err := row.Scan(
		&entity.ID,
		&entity.StudentID,
		&entity.DojoID,
		&entity.Description,
		&entity.Amount,
		&due,
		&entity.Status,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	entity.DueDate, _ = time.Parse(dueDateLayout, due)
	return entity, nil
}

// GetByID retrieves a Payment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment WHERE id = ?", id)
	entity, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	return entity, err
}

// ListWindow retrieves a dojo's payments due inside the window, ordered by
// due date ascending.
// PRE: dojoID is non-empty; window.From <= window.To
// POST: Returns only rows with From <= due_date <= To
func (s *SQLiteStore) ListWindow(ctx context.Context, dojoID string, window domain.Window) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE dojo_id = ? AND due_date >= ? AND due_date <= ? ORDER BY due_date ASC",
		dojoID, window.From.Format(dueDateLayout), window.To.Format(dueDateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Payment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment (id, student_id, dojo_id, description, amount, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description=excluded.description, amount=excluded.amount,
			due_date=excluded.due_date, status=excluded.status`,
		entity.ID,
		entity.StudentID,
		entity.DojoID,
		entity.Description,
		entity.Amount,
		entity.DueDate.Format(dueDateLayout),
		entity.Status,
	)
	return err
}

// SaveBatch persists a payment schedule in one transaction.
// PRE: every entity has been validated
// POST: All rows are persisted, or none on error
func (s *SQLiteStore) SaveBatch(ctx context.Context, values []domain.Payment) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, entity := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payment (id, student_id, dojo_id, description, amount, due_date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entity.ID,
			entity.StudentID,
			entity.DojoID,
			entity.Description,
			entity.Amount,
			entity.DueDate.Format(dueDateLayout),
			entity.Status,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a Payment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM payment WHERE id = ?", id)
	return err
}
