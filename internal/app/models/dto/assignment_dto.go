package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// CreateAssignmentRequest links a teacher to a class and subject
type CreateAssignmentRequest struct {
	TeacherID int64 `json:"teacherId" binding:"required,min=1"`
	ClassID   int64 `json:"classId" binding:"required,min=1"`
	SubjectID int64 `json:"subjectId" binding:"required,min=1"`
}

// AssignmentFilterRequest represents list filter parameters for assignments
type AssignmentFilterRequest struct {
	TeacherID *int64 `form:"teacherId"`
	ClassID   *int64 `form:"classId"`
	SubjectID *int64 `form:"subjectId"`
}

// AssignmentResponse represents a teacher assignment
type AssignmentResponse struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacherId"`
	TeacherName string    `json:"teacherName,omitempty"`
	ClassID     int64     `json:"classId"`
	ClassName   string    `json:"className,omitempty"`
	SubjectID   int64     `json:"subjectId"`
	SubjectName string    `json:"subjectName,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AssignmentListResponse represents a list of teacher assignments
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// NewAssignmentResponse maps a teacher assignment to its response shape
func NewAssignmentResponse(assignment *models.TeacherAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:        assignment.ID,
		TeacherID: assignment.TeacherID,
		ClassID:   assignment.ClassID,
		SubjectID: assignment.SubjectID,
		IsActive:  assignment.IsActive,
		CreatedAt: assignment.CreatedAt,
	}
	if assignment.Teacher != nil {
		resp.TeacherName = assignment.Teacher.FirstName + " " + assignment.Teacher.LastName
	}
	if assignment.Class != nil {
		resp.ClassName = assignment.Class.Name
	}
	if assignment.Subject != nil {
		resp.SubjectName = assignment.Subject.Name
	}
	return resp
}
