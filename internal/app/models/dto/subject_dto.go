package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// CreateSubjectRequest represents a request to create a subject. Code is
// optional; when omitted one is generated from the subject name.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateSubjectRequest represents a request to update a subject
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// SubjectResponse represents a subject
type SubjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubjectListResponse represents a list of subjects
type SubjectListResponse struct {
	Subjects []SubjectResponse `json:"subjects"`
}

// NewSubjectResponse maps a subject model to its response shape
func NewSubjectResponse(subject *models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          subject.ID,
		Name:        subject.Name,
		Code:        subject.Code,
		Description: subject.Description,
		IsActive:    subject.IsActive,
		CreatedAt:   subject.CreatedAt,
	}
}
