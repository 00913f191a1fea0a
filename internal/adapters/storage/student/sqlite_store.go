package student

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budo/internal/adapters/storage"
	domain "budo/internal/domain/student"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new student store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const studentColumns = "id, dojo_id, name, address, city, state, belt, birth_date, email, cpf, created_at, updated_at"

func scanStudent(row interface{ Scan(...any) error }) (domain.Student, error) {
	var entity domain.Student
	var createdAt string
	var updatedAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.DojoID,
		&entity.Name,
		&entity.Address,
		&entity.City,
		&entity.State,
		&entity.Belt,
		&entity.BirthDate,
		&entity.Email,
		&entity.CPF,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Student{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if updatedAt.Valid && updatedAt.String != "" {
		entity.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt.String)
	}
	return entity, nil
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE id = ?", id)
	entity, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// ListByDojo retrieves every student of a dojo, ordered by name ascending.
// PRE: dojoID is non-empty
// POST: Returns the dojo's roster snapshot; empty slice when none
func (s *SQLiteStore) ListByDojo(ctx context.Context, dojoID string) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM student WHERE dojo_id = ? ORDER BY name ASC", dojoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); updated_at reflects updates
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	var updatedAt any
	if !entity.UpdatedAt.IsZero() {
		updatedAt = entity.UpdatedAt.Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO student (id, dojo_id, name, address, city, state, belt, birth_date, email, cpf, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, address=excluded.address, city=excluded.city,
			state=excluded.state, belt=excluded.belt, birth_date=excluded.birth_date,
			email=excluded.email, cpf=excluded.cpf, updated_at=excluded.updated_at`,
		entity.ID,
		entity.DojoID,
		entity.Name,
		entity.Address,
		entity.City,
		entity.State,
		entity.Belt,
		entity.BirthDate,
		entity.Email,
		entity.CPF,
		entity.CreatedAt.Format(time.RFC3339),
		updatedAt,
	)
	return err
}

// Delete removes a Student and its payments from the database.
// PRE: id is non-empty
// POST: Student and dependent payment rows are removed atomically
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM payment WHERE student_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
