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
	"github.com/kerem/schoolhub/internal/pkg/helpers"
)

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudentRow(row pgx.Row) (*models.Student, error) {
	student := &models.Student{Account: &models.Account{}}
	var className *string
	err := row.Scan(
		&student.ID, &student.AccountID, &student.FirstName, &student.LastName,
		&student.RollNumber, &student.PhoneNumber, &student.ParentPhoneNumber,
		&student.Address, &student.DateOfBirth, &student.AdmissionDate,
		&student.ClassID, &student.CreatedAt, &student.UpdatedAt,
		&student.Account.Email, &className)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student: %w", err)
	}
	student.Account.ID = student.AccountID
	if className != nil {
		student.Class = &models.Class{Name: *className}
		if student.ClassID != nil {
			student.Class.ID = *student.ClassID
		}
	}
	return student, nil
}

const studentSelect = `
	SELECT s.id, s.account_id, s.first_name, s.last_name, s.roll_number, s.phone_number,
		s.parent_phone_number, s.address, s.date_of_birth, s.admission_date,
		s.class_id, s.created_at, s.updated_at, a.email, c.name
	FROM students s
	JOIN accounts a ON a.id = s.account_id
	LEFT JOIN classes c ON c.id = s.class_id`

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return scanStudentRow(r.db.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
}

// GetByAccountID retrieves a student by its account ID
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	return scanStudentRow(r.db.QueryRow(ctx, studentSelect+` WHERE s.account_id = $1`, accountID))
}

// List retrieves students matching the filter, newest roll numbers last
func (r *StudentRepository) List(ctx context.Context, classID *int64, search string, page, size int) ([]*models.Student, int64, error) {
	where := squirrel.And{}
	if classID != nil {
		where = append(where, squirrel.Eq{"s.class_id": *classID})
	}
	if search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"s.first_name": pattern},
			squirrel.ILike{"s.last_name": pattern},
			squirrel.ILike{"s.roll_number": pattern},
		})
	}

	countQuery := r.sb.Select("COUNT(*)").
		From("students s").
		Join("accounts a ON a.id = s.account_id")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQuery := r.sb.Select(
		"s.id", "s.account_id", "s.first_name", "s.last_name", "s.roll_number", "s.phone_number",
		"s.parent_phone_number", "s.address", "s.date_of_birth", "s.admission_date",
		"s.class_id", "s.created_at", "s.updated_at", "a.email", "c.name").
		From("students s").
		Join("accounts a ON a.id = s.account_id").
		LeftJoin("classes c ON c.id = s.class_id").
		OrderBy("s.roll_number ASC").
		Limit(uint64(limit)).
		Offset(offset)
	if len(where) > 0 {
		listQuery = listQuery.Where(where)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudentRow(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating students: %w", err)
	}

	return students, total, nil
}

// Update persists the mutable profile fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE students
		SET first_name = $1, last_name = $2, phone_number = $3, parent_phone_number = $4,
			address = $5, date_of_birth = $6, class_id = $7, updated_at = NOW()
		WHERE id = $8`,
		student.FirstName, student.LastName, student.PhoneNumber, student.ParentPhoneNumber,
		student.Address, student.DateOfBirth, student.ClassID, student.ID)

	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// LastRollNumber returns the highest roll number currently assigned, or
// empty string when no students exist yet.
func (r *StudentRepository) LastRollNumber(ctx context.Context) (string, error) {
	var rollNumber string
	// Longest-then-lexicographic ordering sorts numeric suffixes correctly
	// even past three digits (STU1000 > STU999).
	err := r.db.QueryRow(ctx, `
		SELECT roll_number FROM students
		ORDER BY LENGTH(roll_number) DESC, roll_number DESC
		LIMIT 1`).Scan(&rollNumber)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error finding last roll number: %w", err)
	}

	return rollNumber, nil
}

// ExistsByID checks whether a student row exists
func (r *StudentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`,
		id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student: %w", err)
	}

	return exists, nil
}
