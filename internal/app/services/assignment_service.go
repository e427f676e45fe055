package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// AssignmentService handles teacher assignment operations
type AssignmentService struct {
	assignmentRepo AssignmentRepository
	teacherRepo    TeacherRepository
	classRepo      ClassRepository
	subjectRepo    SubjectRepository
	logger         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentRepo AssignmentRepository,
	teacherRepo TeacherRepository,
	classRepo ClassRepository,
	subjectRepo SubjectRepository,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		teacherRepo:    teacherRepo,
		classRepo:      classRepo,
		subjectRepo:    subjectRepo,
		logger:         logger,
	}
}

// Create links a teacher to a (class, subject) pair
func (s *AssignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*models.TeacherAssignment, error) {
	exists, err := s.teacherRepo.ExistsByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrTeacherNotFound
	}

	exists, err = s.classRepo.ExistsByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}

	exists, err = s.subjectRepo.ExistsByID(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrSubjectNotFound
	}

	exists, err = s.assignmentRepo.Exists(ctx, req.TeacherID, req.ClassID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("teacher is already assigned to this class and subject")
	}

	assignment := &models.TeacherAssignment{
		TeacherID: req.TeacherID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		IsActive:  true,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("teacherId", req.TeacherID).
		Int64("classId", req.ClassID).
		Int64("subjectId", req.SubjectID).
		Msg("Teacher assignment created")

	return s.assignmentRepo.GetByID(ctx, assignment.ID)
}

// GetByID retrieves an assignment
func (s *AssignmentService) GetByID(ctx context.Context, id int64) (*models.TeacherAssignment, error) {
	return s.assignmentRepo.GetByID(ctx, id)
}

// List retrieves assignments matching the optional filters
func (s *AssignmentService) List(ctx context.Context, filter *dto.AssignmentFilterRequest) ([]*models.TeacherAssignment, error) {
	return s.assignmentRepo.List(ctx, filter.TeacherID, filter.ClassID, filter.SubjectID)
}

// Delete removes an assignment
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("assignmentId", id).Msg("Teacher assignment deleted")
	return nil
}
