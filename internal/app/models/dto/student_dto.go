package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// CreateStudentRequest represents an admin creating a student account with
// its profile. The account receives an invitation token instead of a
// password.
type CreateStudentRequest struct {
	Email             string  `json:"email" binding:"required,email"`
	FirstName         string  `json:"firstName" binding:"required"`
	LastName          string  `json:"lastName" binding:"required"`
	PhoneNumber       string  `json:"phoneNumber" binding:"required"`
	ParentPhoneNumber *string `json:"parentPhoneNumber,omitempty"`
	Address           *string `json:"address,omitempty"`
	DateOfBirth       *string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	ClassID           *int64  `json:"classId,omitempty"`
}

// UpdateStudentRequest represents profile updates for a student
type UpdateStudentRequest struct {
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	PhoneNumber       *string `json:"phoneNumber,omitempty"`
	ParentPhoneNumber *string `json:"parentPhoneNumber,omitempty"`
	Address           *string `json:"address,omitempty"`
	DateOfBirth       *string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	ClassID           *int64  `json:"classId,omitempty"`
}

// StudentFilterRequest represents list filter parameters for students
type StudentFilterRequest struct {
	ClassID *int64 `form:"classId"`
	Search  string `form:"search"`
	Page    int    `form:"page,default=1"`
	Size    int    `form:"size,default=10"`
}

// StudentResponse represents a student profile
type StudentResponse struct {
	ID                int64      `json:"id"`
	AccountID         int64      `json:"accountId"`
	Email             string     `json:"email,omitempty"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	RollNumber        string     `json:"rollNumber"`
	PhoneNumber       string     `json:"phoneNumber"`
	ParentPhoneNumber *string    `json:"parentPhoneNumber,omitempty"`
	Address           *string    `json:"address,omitempty"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty"`
	AdmissionDate     time.Time  `json:"admissionDate"`
	ClassID           *int64     `json:"classId,omitempty"`
	ClassName         string     `json:"className,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	PageInfo PageInfo          `json:"pageInfo"`
}

// NewStudentResponse maps a student model to its response shape
func NewStudentResponse(student *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:                student.ID,
		AccountID:         student.AccountID,
		FirstName:         student.FirstName,
		LastName:          student.LastName,
		RollNumber:        student.RollNumber,
		PhoneNumber:       student.PhoneNumber,
		ParentPhoneNumber: student.ParentPhoneNumber,
		Address:           student.Address,
		DateOfBirth:       student.DateOfBirth,
		AdmissionDate:     student.AdmissionDate,
		ClassID:           student.ClassID,
		CreatedAt:         student.CreatedAt,
	}
	if student.Account != nil {
		resp.Email = student.Account.Email
	}
	if student.Class != nil {
		resp.ClassName = student.Class.Name
	}
	return resp
}
