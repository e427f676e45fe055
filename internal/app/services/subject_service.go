package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

const subjectCodeRetries = 5

// SubjectService handles subject operations
type SubjectService struct {
	subjectRepo SubjectRepository
	logger      zerolog.Logger
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjectRepo SubjectRepository, logger zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// generateSubjectCode derives a code from the subject name: a three-letter
// uppercase prefix plus a random number in [100, 999].
func generateSubjectCode(name string) (string, error) {
	prefix := strings.Builder{}
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) {
			prefix.WriteRune(r)
			if prefix.Len() >= 3 {
				break
			}
		}
	}
	for prefix.Len() < 3 {
		prefix.WriteByte('X')
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", fmt.Errorf("error generating subject code: %w", err)
	}

	return fmt.Sprintf("%s%d", prefix.String(), n.Int64()+100), nil
}

// Create creates a new subject. When no code is given one is generated
// from the name, retrying until unused.
func (s *SubjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	exists, err := s.subjectRepo.NameExists(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrSubjectAlreadyExists
	}

	var code string
	if req.Code != nil && *req.Code != "" {
		code = strings.ToUpper(*req.Code)
		taken, err := s.subjectRepo.CodeExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrSubjectAlreadyExists
		}
	} else {
		for attempt := 0; ; attempt++ {
			code, err = generateSubjectCode(req.Name)
			if err != nil {
				return nil, err
			}
			taken, err := s.subjectRepo.CodeExists(ctx, code)
			if err != nil {
				return nil, err
			}
			if !taken {
				break
			}
			if attempt+1 >= subjectCodeRetries {
				return nil, apperrors.ErrSubjectAlreadyExists
			}
		}
	}

	subject := &models.Subject{
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("subjectId", subject.ID).Str("code", subject.Code).Msg("Subject created")
	return subject, nil
}

// GetByID retrieves a subject
func (s *SubjectService) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.GetByID(ctx, id)
}

// GetAll retrieves every subject
func (s *SubjectService) GetAll(ctx context.Context) ([]*models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// Update applies partial updates to a subject. The code is immutable.
func (s *SubjectService) Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != subject.Name {
		exists, err := s.subjectRepo.NameExists(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrSubjectAlreadyExists
		}
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = req.Description
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// Delete deactivates a subject rather than removing the row, so historic
// assignments keep resolving.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	subject.IsActive = false
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return err
	}

	s.logger.Info().Int64("subjectId", id).Msg("Subject deactivated")
	return nil
}
