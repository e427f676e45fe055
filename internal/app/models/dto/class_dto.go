package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// CreateClassRequest represents a request to create a class
type CreateClassRequest struct {
	Name        string  `json:"name" binding:"required"`
	Section     *string `json:"section,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateClassRequest represents a request to update a class
type UpdateClassRequest struct {
	Name        *string `json:"name,omitempty"`
	Section     *string `json:"section,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// ClassResponse represents a class
type ClassResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Section     *string   `json:"section,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClassListResponse represents a list of classes
type ClassListResponse struct {
	Classes []ClassResponse `json:"classes"`
}

// NewClassResponse maps a class model to its response shape
func NewClassResponse(class *models.Class) ClassResponse {
	return ClassResponse{
		ID:          class.ID,
		Name:        class.Name,
		Section:     class.Section,
		Description: class.Description,
		IsActive:    class.IsActive,
		CreatedAt:   class.CreatedAt,
	}
}
