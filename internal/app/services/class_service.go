package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

// ClassService handles class operations
type ClassService struct {
	classRepo ClassRepository
	logger    zerolog.Logger
}

// NewClassService creates a new ClassService
func NewClassService(classRepo ClassRepository, logger zerolog.Logger) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		logger:    logger,
	}
}

// Create creates a new class. Name+section pairs must be unique.
func (s *ClassService) Create(ctx context.Context, req *dto.CreateClassRequest) (*models.Class, error) {
	exists, err := s.classRepo.NameExists(ctx, req.Name, req.Section)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrClassAlreadyExists
	}

	class := &models.Class{
		Name:        req.Name,
		Section:     req.Section,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("classId", class.ID).Str("name", class.Name).Msg("Class created")
	return class, nil
}

// GetByID retrieves a class
func (s *ClassService) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// GetAll retrieves every class
func (s *ClassService) GetAll(ctx context.Context) ([]*models.Class, error) {
	return s.classRepo.GetAll(ctx)
}

// Update applies partial updates to a class
func (s *ClassService) Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*models.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Section != nil {
		name := class.Name
		if req.Name != nil {
			name = *req.Name
		}
		section := class.Section
		if req.Section != nil {
			section = req.Section
		}
		if name != class.Name || !equalStringPtr(section, class.Section) {
			exists, err := s.classRepo.NameExists(ctx, name, section)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperrors.ErrClassAlreadyExists
			}
		}
		class.Name = name
		class.Section = section
	}
	if req.Description != nil {
		class.Description = req.Description
	}
	if req.IsActive != nil {
		class.IsActive = *req.IsActive
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}

	return class, nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes a class
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("classId", id).Msg("Class deleted")
	return nil
}
