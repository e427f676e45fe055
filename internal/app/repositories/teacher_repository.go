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

// TeacherRepository handles teacher profile database operations
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTeacherRow(row pgx.Row) (*models.Teacher, error) {
	teacher := &models.Teacher{Account: &models.Account{}}
	err := row.Scan(
		&teacher.ID, &teacher.AccountID, &teacher.FirstName, &teacher.LastName,
		&teacher.EmployeeID, &teacher.PhoneNumber, &teacher.Qualification,
		&teacher.JoiningDate, &teacher.CreatedAt, &teacher.UpdatedAt,
		&teacher.Account.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error scanning teacher: %w", err)
	}
	teacher.Account.ID = teacher.AccountID
	return teacher, nil
}

const teacherSelect = `
	SELECT t.id, t.account_id, t.first_name, t.last_name, t.employee_id, t.phone_number,
		t.qualification, t.joining_date, t.created_at, t.updated_at, a.email
	FROM teachers t
	JOIN accounts a ON a.id = t.account_id`

// GetByID retrieves a teacher by ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return scanTeacherRow(r.db.QueryRow(ctx, teacherSelect+` WHERE t.id = $1`, id))
}

// GetByAccountID retrieves a teacher by its account ID
func (r *TeacherRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Teacher, error) {
	return scanTeacherRow(r.db.QueryRow(ctx, teacherSelect+` WHERE t.account_id = $1`, accountID))
}

// List retrieves teachers matching the filter
func (r *TeacherRepository) List(ctx context.Context, search string, page, size int) ([]*models.Teacher, int64, error) {
	where := squirrel.And{}
	if search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"t.first_name": pattern},
			squirrel.ILike{"t.last_name": pattern},
			squirrel.ILike{"t.employee_id": pattern},
		})
	}

	countQuery := r.sb.Select("COUNT(*)").
		From("teachers t").
		Join("accounts a ON a.id = t.account_id")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting teachers: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	listQuery := r.sb.Select(
		"t.id", "t.account_id", "t.first_name", "t.last_name", "t.employee_id", "t.phone_number",
		"t.qualification", "t.joining_date", "t.created_at", "t.updated_at", "a.email").
		From("teachers t").
		Join("accounts a ON a.id = t.account_id").
		OrderBy("t.employee_id ASC").
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
		return nil, 0, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]*models.Teacher, 0)
	for rows.Next() {
		teacher, err := scanTeacherRow(rows)
		if err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating teachers: %w", err)
	}

	return teachers, total, nil
}

// Update persists the mutable profile fields of a teacher
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE teachers
		SET first_name = $1, last_name = $2, phone_number = $3, qualification = $4,
			updated_at = NOW()
		WHERE id = $5`,
		teacher.FirstName, teacher.LastName, teacher.PhoneNumber, teacher.Qualification,
		teacher.ID)

	if err != nil {
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}

// LastEmployeeID returns the highest employee ID currently assigned, or
// empty string when no teachers exist yet.
func (r *TeacherRepository) LastEmployeeID(ctx context.Context) (string, error) {
	var employeeID string
	err := r.db.QueryRow(ctx, `
		SELECT employee_id FROM teachers
		ORDER BY LENGTH(employee_id) DESC, employee_id DESC
		LIMIT 1`).Scan(&employeeID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error finding last employee ID: %w", err)
	}

	return employeeID, nil
}

// ExistsByID checks whether a teacher row exists
func (r *TeacherRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`,
		id).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking teacher: %w", err)
	}

	return exists, nil
}
