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

// ClassRepository handles class database operations
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
	}
}

func scanClassRow(row pgx.Row) (*models.Class, error) {
	class := &models.Class{}
	err := row.Scan(
		&class.ID, &class.Name, &class.Section, &class.Description,
		&class.IsActive, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error scanning class: %w", err)
	}
	return class, nil
}

// Create inserts a new class and sets its ID
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO classes (name, section, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		class.Name, class.Section, class.Description, class.IsActive).
		Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating class: %w", err)
	}

	return nil
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	return scanClassRow(r.db.QueryRow(ctx, `
		SELECT id, name, section, description, is_active, created_at, updated_at
		FROM classes
		WHERE id = $1`,
		id))
}

// GetAll retrieves every class ordered by name
func (r *ClassRepository) GetAll(ctx context.Context) ([]*models.Class, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, section, description, is_active, created_at, updated_at
		FROM classes
		ORDER BY name ASC, section ASC NULLS FIRST`)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	classes := make([]*models.Class, 0)
	for rows.Next() {
		class, err := scanClassRow(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classes: %w", err)
	}

	return classes, nil
}

// NameExists checks whether a class with the same name and section exists
func (r *ClassRepository) NameExists(ctx context.Context, name string, section *string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM classes WHERE name = $1 AND section IS NOT DISTINCT FROM $2)`,
		name, section).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking class name: %w", err)
	}

	return exists, nil
}

// Update persists the mutable fields of a class
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE classes
		SET name = $1, section = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5`,
		class.Name, class.Section, class.Description, class.IsActive, class.ID)

	if err != nil {
		return fmt.Errorf("error updating class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}

	return nil
}

// Delete removes a class
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM classes WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}

	return nil
}

// ExistsByID checks whether a class row exists
func (r *ClassRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`,
		id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking class: %w", err)
	}

	return exists, nil
}
