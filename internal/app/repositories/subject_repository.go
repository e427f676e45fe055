package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{
		db: db,
	}
}

func scanSubjectRow(row pgx.Row) (*models.Subject, error) {
	subject := &models.Subject{}
	err := row.Scan(
		&subject.ID, &subject.Name, &subject.Code, &subject.Description,
		&subject.IsActive, &subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error scanning subject: %w", err)
	}
	return subject, nil
}

// Create inserts a new subject and sets its ID
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO subjects (name, code, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		subject.Name, subject.Code, subject.Description, subject.IsActive).
		Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return scanSubjectRow(r.db.QueryRow(ctx, `
		SELECT id, name, code, description, is_active, created_at, updated_at
		FROM subjects
		WHERE id = $1`,
		id))
}

// GetAll retrieves every subject ordered by name
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, code, description, is_active, created_at, updated_at
		FROM subjects
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		subject, err := scanSubjectRow(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}

	return subjects, nil
}

// NameExists checks whether a subject with the same name exists
func (r *SubjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM subjects WHERE name = $1)`,
		name).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking subject name: %w", err)
	}

	return exists, nil
}

// CodeExists checks whether a subject code is already taken
func (r *SubjectRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM subjects WHERE code = $1)`,
		code).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking subject code: %w", err)
	}

	return exists, nil
}

// Update persists the mutable fields of a subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE subjects
		SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4`,
		subject.Name, subject.Description, subject.IsActive, subject.ID)

	if err != nil {
		return fmt.Errorf("error updating subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// Delete removes a subject
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM subjects WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// ExistsByID checks whether a subject row exists
func (r *SubjectRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM subjects WHERE id = $1)`,
		id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking subject: %w", err)
	}

	return exists, nil
}
