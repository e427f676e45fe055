package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/app/repositories"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
	"github.com/kerem/schoolhub/internal/pkg/helpers"
)

// AttendanceService handles attendance recording and queries
type AttendanceService struct {
	attendanceRepo AttendanceRepository
	studentRepo    StudentRepository
	classRepo      ClassRepository
	logger         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo AttendanceRepository,
	studentRepo StudentRepository,
	classRepo ClassRepository,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		classRepo:      classRepo,
		logger:         logger,
	}
}

func parseDay(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidationFailed, value)
	}
	return helpers.TruncateToDay(t), nil
}

func (s *AttendanceService) checkStudentAndClass(ctx context.Context, studentID, classID int64) error {
	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrStudentNotFound
	}

	exists, err = s.classRepo.ExistsByID(ctx, classID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrClassNotFound
	}

	return nil
}

// RecordOne marks attendance for a single student. A second mark for the
// same (student, date) pair is a conflict; use RecordBulk to overwrite.
func (s *AttendanceService) RecordOne(ctx context.Context, req *dto.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid attendance status %q", apperrors.ErrValidationFailed, req.Status)
	}

	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.checkStudentAndClass(ctx, req.StudentID, req.ClassID); err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      date,
		Status:    req.Status,
		Remarks:   req.Remarks,
	}

	if err := s.attendanceRepo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", req.StudentID).
		Str("date", req.Date).
		Str("status", string(req.Status)).
		Msg("Attendance recorded")

	return s.attendanceRepo.GetByID(ctx, record.ID)
}

// RecordBulk marks attendance for a whole class on one date. Existing
// marks for a (student, date) pair are overwritten, so re-submission is
// idempotent. The batch runs in a single transaction: either every entry
// lands or none do.
func (s *AttendanceService) RecordBulk(ctx context.Context, req *dto.BulkAttendanceRequest) (*dto.BulkAttendanceResponse, error) {
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	exists, err := s.classRepo.ExistsByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}

	for _, entry := range req.Entries {
		if !entry.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid attendance status %q", apperrors.ErrValidationFailed, entry.Status)
		}
		exists, err := s.studentRepo.ExistsByID(ctx, entry.StudentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrStudentNotFound
		}
	}

	result := &dto.BulkAttendanceResponse{}
	err = s.attendanceRepo.InTx(ctx, func(w repositories.AttendanceWriter) error {
		for _, entry := range req.Entries {
			record := &models.AttendanceRecord{
				StudentID: entry.StudentID,
				ClassID:   req.ClassID,
				Date:      date,
				Status:    entry.Status,
				Remarks:   entry.Remarks,
			}
			created, err := w.Upsert(ctx, record)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("classId", req.ClassID).
		Str("date", req.Date).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Msg("Bulk attendance recorded")

	return result, nil
}

// Query retrieves attendance records matching the filter, newest first
func (s *AttendanceService) Query(ctx context.Context, req *dto.AttendanceFilterRequest) ([]*models.AttendanceRecord, int64, error) {
	filter := repositories.AttendanceFilter{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Page:      req.Page,
		Size:      req.Size,
	}

	if req.DateFrom != "" {
		from, err := parseDay(req.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := parseDay(req.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filter.DateTo = &to
	}
	if req.Status != "" {
		status := models.AttendanceStatus(req.Status)
		if !status.Valid() {
			return nil, 0, fmt.Errorf("%w: invalid attendance status %q", apperrors.ErrValidationFailed, req.Status)
		}
		filter.Status = &status
	}

	return s.attendanceRepo.Query(ctx, filter)
}

// Summary aggregates a student's attendance counts over an optional range
func (s *AttendanceService) Summary(ctx context.Context, studentID int64, dateFrom, dateTo string) (*dto.AttendanceSummaryResponse, error) {
	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}

	var from, to *time.Time
	if dateFrom != "" {
		d, err := parseDay(dateFrom)
		if err != nil {
			return nil, err
		}
		from = &d
	}
	if dateTo != "" {
		d, err := parseDay(dateTo)
		if err != nil {
			return nil, err
		}
		to = &d
	}

	counts, err := s.attendanceRepo.Summary(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &dto.AttendanceSummaryResponse{
		StudentID:   studentID,
		PresentDays: counts[models.AttendancePresent],
		AbsentDays:  counts[models.AttendanceAbsent],
		LateDays:    counts[models.AttendanceLate],
		ExcusedDays: counts[models.AttendanceExcused],
	}
	summary.TotalDays = summary.PresentDays + summary.AbsentDays + summary.LateDays + summary.ExcusedDays
	if summary.TotalDays > 0 {
		summary.PresentRatio = float64(summary.PresentDays) / float64(summary.TotalDays)
	}

	return summary, nil
}

// Update rewrites the status and remarks of an existing record
func (s *AttendanceService) Update(ctx context.Context, id int64, status models.AttendanceStatus, remarks *string) (*models.AttendanceRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid attendance status %q", apperrors.ErrValidationFailed, status)
	}

	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = status
	record.Remarks = remarks

	if _, err := s.attendanceRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return s.attendanceRepo.GetByID(ctx, record.ID)
}

// Delete removes an attendance record
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("attendanceId", id).Msg("Attendance record deleted")
	return nil
}
