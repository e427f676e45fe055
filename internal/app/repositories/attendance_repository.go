package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
	"github.com/kerem/schoolhub/internal/pkg/dberrors"
	"github.com/kerem/schoolhub/internal/pkg/helpers"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// queries run inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	q    querier
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		q:    db,
		pool: db,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AttendanceWriter is the write surface handed out by InTx
type AttendanceWriter interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (bool, error)
}

// InTx runs fn against a transaction-bound copy of the repository. The
// whole call commits or rolls back as one unit.
func (r *AttendanceRepository) InTx(ctx context.Context, fn func(w AttendanceWriter) error) error {
	if r.pool == nil {
		// Already inside a transaction
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&AttendanceRepository{q: tx, sb: r.sb})
	})
}

// Insert creates a new attendance record. A second mark for the same
// (student, date) pair fails with ErrAttendanceExists.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.AttendanceRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO attendance_records (student_id, class_id, date, status, remarks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		record.StudentID, record.ClassID, record.Date, record.Status, record.Remarks).
		Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAttendanceExists
		}
		return fmt.Errorf("error creating attendance record: %w", err)
	}

	return nil
}

// Upsert writes an attendance record, overwriting any existing mark for
// the same (student, date) pair. Returns true when a new row was created.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	var created bool
	// xmax = 0 only holds for freshly inserted rows
	err := r.q.QueryRow(ctx, `
		INSERT INTO attendance_records (student_id, class_id, date, status, remarks)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, date) DO UPDATE
		SET class_id = EXCLUDED.class_id, status = EXCLUDED.status,
			remarks = EXCLUDED.remarks, updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0)`,
		record.StudentID, record.ClassID, record.Date, record.Status, record.Remarks).
		Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt, &created)

	if err != nil {
		return false, fmt.Errorf("error upserting attendance record: %w", err)
	}

	return created, nil
}

func scanAttendanceRow(row pgx.Row) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{}
	err := row.Scan(
		&record.ID, &record.StudentID, &record.ClassID, &record.Date,
		&record.Status, &record.Remarks, &record.CreatedAt, &record.UpdatedAt,
		&record.StudentName, &record.RollNumber, &record.ClassName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("error scanning attendance record: %w", err)
	}
	return record, nil
}

const attendanceSelect = `
	SELECT ar.id, ar.student_id, ar.class_id, ar.date, ar.status, ar.remarks,
		ar.created_at, ar.updated_at,
		s.first_name || ' ' || s.last_name, s.roll_number, c.name
	FROM attendance_records ar
	JOIN students s ON s.id = ar.student_id
	JOIN classes c ON c.id = ar.class_id`

// GetByID retrieves an attendance record by ID
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	return scanAttendanceRow(r.q.QueryRow(ctx, attendanceSelect+` WHERE ar.id = $1`, id))
}

// GetByStudentAndDate retrieves the mark for one student on one day
func (r *AttendanceRepository) GetByStudentAndDate(ctx context.Context, studentID int64, date time.Time) (*models.AttendanceRecord, error) {
	return scanAttendanceRow(r.q.QueryRow(ctx,
		attendanceSelect+` WHERE ar.student_id = $1 AND ar.date = $2`,
		studentID, date))
}

// AttendanceFilter narrows attendance queries
type AttendanceFilter struct {
	StudentID *int64
	ClassID   *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *models.AttendanceStatus
	Page      int
	Size      int
}

// Query retrieves attendance records matching the filter, newest first
func (r *AttendanceRepository) Query(ctx context.Context, filter AttendanceFilter) ([]*models.AttendanceRecord, int64, error) {
	where := squirrel.And{}
	if filter.StudentID != nil {
		where = append(where, squirrel.Eq{"ar.student_id": *filter.StudentID})
	}
	if filter.ClassID != nil {
		where = append(where, squirrel.Eq{"ar.class_id": *filter.ClassID})
	}
	if filter.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"ar.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"ar.date": *filter.DateTo})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"ar.status": *filter.Status})
	}

	countQuery := r.sb.Select("COUNT(*)").From("attendance_records ar")
	if len(where) > 0 {
		countQuery = countQuery.Where(where)
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int64
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting attendance records: %w", err)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)

	listQuery := r.sb.Select(
		"ar.id", "ar.student_id", "ar.class_id", "ar.date", "ar.status", "ar.remarks",
		"ar.created_at", "ar.updated_at",
		"s.first_name || ' ' || s.last_name", "s.roll_number", "c.name").
		From("attendance_records ar").
		Join("students s ON s.id = ar.student_id").
		Join("classes c ON c.id = ar.class_id").
		OrderBy("ar.date DESC", "s.roll_number ASC").
		Limit(uint64(limit)).
		Offset(offset)
	if len(where) > 0 {
		listQuery = listQuery.Where(where)
	}

	sql, args, err = listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.AttendanceRecord, 0)
	for rows.Next() {
		record, err := scanAttendanceRow(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating attendance records: %w", err)
	}

	return records, total, nil
}

// Summary aggregates per-status day counts for one student within an
// optional date range.
func (r *AttendanceRepository) Summary(ctx context.Context, studentID int64, dateFrom, dateTo *time.Time) (map[models.AttendanceStatus]int, error) {
	query := r.sb.Select("ar.status", "COUNT(*)").
		From("attendance_records ar").
		Where(squirrel.Eq{"ar.student_id": studentID}).
		GroupBy("ar.status")
	if dateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"ar.date": *dateFrom})
	}
	if dateTo != nil {
		query = query.Where(squirrel.LtOrEq{"ar.date": *dateTo})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building summary query: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying attendance summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AttendanceStatus]int)
	for rows.Next() {
		var status models.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning attendance summary: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance summary: %w", err)
	}

	return counts, nil
}

// Delete removes an attendance record
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM attendance_records WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	return nil
}
