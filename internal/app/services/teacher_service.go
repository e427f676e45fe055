package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// TeacherService handles teacher profile operations
type TeacherService struct {
	teacherRepo TeacherRepository
	accountRepo AccountRepository
	logger      zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(
	teacherRepo TeacherRepository,
	accountRepo AccountRepository,
	logger zerolog.Logger,
) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// GetByID retrieves a teacher profile
func (s *TeacherService) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, id)
}

// GetByAccountID retrieves the teacher profile behind an account
func (s *TeacherService) GetByAccountID(ctx context.Context, accountID int64) (*models.Teacher, error) {
	return s.teacherRepo.GetByAccountID(ctx, accountID)
}

// List retrieves teachers matching the filter
func (s *TeacherService) List(ctx context.Context, filter *dto.TeacherFilterRequest) ([]*models.Teacher, int64, error) {
	return s.teacherRepo.List(ctx, filter.Search, filter.Page, filter.Size)
}

// Update applies partial profile updates to a teacher
func (s *TeacherService) Update(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		teacher.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		teacher.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		teacher.PhoneNumber = *req.PhoneNumber
	}
	if req.Qualification != nil {
		teacher.Qualification = req.Qualification
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}

	return teacher, nil
}

// Delete removes a teacher together with its account
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, teacher.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrTeacherNotFound
		}
		return err
	}

	s.logger.Info().Int64("teacherId", id).Str("employeeId", teacher.EmployeeID).Msg("Teacher deleted")
	return nil
}
