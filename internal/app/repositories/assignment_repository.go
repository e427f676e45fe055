package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// AssignmentRepository handles teacher assignment database operations
type AssignmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAssignmentRow(row pgx.Row) (*models.TeacherAssignment, error) {
	assignment := &models.TeacherAssignment{
		Teacher: &models.Teacher{},
		Class:   &models.Class{},
		Subject: &models.Subject{},
	}
	err := row.Scan(
		&assignment.ID, &assignment.TeacherID, &assignment.ClassID, &assignment.SubjectID,
		&assignment.IsActive, &assignment.CreatedAt, &assignment.UpdatedAt,
		&assignment.Teacher.FirstName, &assignment.Teacher.LastName,
		&assignment.Class.Name, &assignment.Subject.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error scanning assignment: %w", err)
	}
	assignment.Teacher.ID = assignment.TeacherID
	assignment.Class.ID = assignment.ClassID
	assignment.Subject.ID = assignment.SubjectID
	return assignment, nil
}

const assignmentColumns = `ta.id, ta.teacher_id, ta.class_id, ta.subject_id,
	ta.is_active, ta.created_at, ta.updated_at,
	t.first_name, t.last_name, c.name, sub.name`

// Create inserts a new teacher assignment and sets its ID
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.TeacherAssignment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO teacher_assignments (teacher_id, class_id, subject_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		assignment.TeacherID, assignment.ClassID, assignment.SubjectID, assignment.IsActive).
		Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating assignment: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment by ID with its display names
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.TeacherAssignment, error) {
	return scanAssignmentRow(r.db.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM teacher_assignments ta
		JOIN teachers t ON t.id = ta.teacher_id
		JOIN classes c ON c.id = ta.class_id
		JOIN subjects sub ON sub.id = ta.subject_id
		WHERE ta.id = $1`,
		id))
}

// List retrieves assignments matching the optional filters
func (r *AssignmentRepository) List(ctx context.Context, teacherID, classID, subjectID *int64) ([]*models.TeacherAssignment, error) {
	query := r.sb.Select(
		"ta.id", "ta.teacher_id", "ta.class_id", "ta.subject_id",
		"ta.is_active", "ta.created_at", "ta.updated_at",
		"t.first_name", "t.last_name", "c.name", "sub.name").
		From("teacher_assignments ta").
		Join("teachers t ON t.id = ta.teacher_id").
		Join("classes c ON c.id = ta.class_id").
		Join("subjects sub ON sub.id = ta.subject_id").
		OrderBy("ta.id ASC")

	if teacherID != nil {
		query = query.Where(squirrel.Eq{"ta.teacher_id": *teacherID})
	}
	if classID != nil {
		query = query.Where(squirrel.Eq{"ta.class_id": *classID})
	}
	if subjectID != nil {
		query = query.Where(squirrel.Eq{"ta.subject_id": *subjectID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building assignment query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.TeacherAssignment, 0)
	for rows.Next() {
		assignment, err := scanAssignmentRow(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// Exists checks whether the same (teacher, class, subject) link already exists
func (r *AssignmentRepository) Exists(ctx context.Context, teacherID, classID, subjectID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM teacher_assignments
			WHERE teacher_id = $1 AND class_id = $2 AND subject_id = $3)`,
		teacherID, classID, subjectID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking assignment: %w", err)
	}

	return exists, nil
}

// Delete removes a teacher assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM teacher_assignments WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}

	return nil
}
