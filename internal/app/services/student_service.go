package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// StudentService handles student profile operations
type StudentService struct {
	studentRepo StudentRepository
	accountRepo AccountRepository
	classRepo   ClassRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo StudentRepository,
	accountRepo AccountRepository,
	classRepo ClassRepository,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		accountRepo: accountRepo,
		classRepo:   classRepo,
		logger:      logger,
	}
}

// GetByID retrieves a student profile
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetByAccountID retrieves the student profile behind an account
func (s *StudentService) GetByAccountID(ctx context.Context, accountID int64) (*models.Student, error) {
	return s.studentRepo.GetByAccountID(ctx, accountID)
}

// List retrieves students matching the filter
func (s *StudentService) List(ctx context.Context, filter *dto.StudentFilterRequest) ([]*models.Student, int64, error) {
	return s.studentRepo.List(ctx, filter.ClassID, filter.Search, filter.Page, filter.Size)
}

// Update applies partial profile updates to a student
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = *req.PhoneNumber
	}
	if req.ParentPhoneNumber != nil {
		student.ParentPhoneNumber = req.ParentPhoneNumber
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.DateOfBirth != nil {
		dateOfBirth, err := parseDateField(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = dateOfBirth
	}
	if req.ClassID != nil {
		exists, err := s.classRepo.ExistsByID(ctx, *req.ClassID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrClassNotFound
		}
		student.ClassID = req.ClassID
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return s.studentRepo.GetByID(ctx, id)
}

// Delete removes a student together with its account. Attendance rows
// cascade at the storage layer.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, student.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Int64("studentId", id).Str("rollNumber", student.RollNumber).Msg("Student deleted")
	return nil
}
