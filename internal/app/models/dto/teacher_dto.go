package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// CreateTeacherRequest represents an admin creating a teacher account with
// its profile. The account receives an invitation token instead of a
// password.
type CreateTeacherRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	FirstName     string  `json:"firstName" binding:"required"`
	LastName      string  `json:"lastName" binding:"required"`
	PhoneNumber   string  `json:"phoneNumber" binding:"required"`
	Qualification *string `json:"qualification,omitempty"`
}

// UpdateTeacherRequest represents profile updates for a teacher
type UpdateTeacherRequest struct {
	FirstName     *string `json:"firstName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	Qualification *string `json:"qualification,omitempty"`
}

// TeacherFilterRequest represents list filter parameters for teachers
type TeacherFilterRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Size   int    `form:"size,default=10"`
}

// TeacherResponse represents a teacher profile
type TeacherResponse struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"accountId"`
	Email         string    `json:"email,omitempty"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	EmployeeID    string    `json:"employeeId"`
	PhoneNumber   string    `json:"phoneNumber"`
	Qualification *string   `json:"qualification,omitempty"`
	JoiningDate   time.Time `json:"joiningDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TeacherListResponse represents a paginated list of teachers
type TeacherListResponse struct {
	Teachers []TeacherResponse `json:"teachers"`
	PageInfo PageInfo          `json:"pageInfo"`
}

// NewTeacherResponse maps a teacher model to its response shape
func NewTeacherResponse(teacher *models.Teacher) TeacherResponse {
	resp := TeacherResponse{
		ID:            teacher.ID,
		AccountID:     teacher.AccountID,
		FirstName:     teacher.FirstName,
		LastName:      teacher.LastName,
		EmployeeID:    teacher.EmployeeID,
		PhoneNumber:   teacher.PhoneNumber,
		Qualification: teacher.Qualification,
		JoiningDate:   teacher.JoiningDate,
		CreatedAt:     teacher.CreatedAt,
	}
	if teacher.Account != nil {
		resp.Email = teacher.Account.Email
	}
	return resp
}
