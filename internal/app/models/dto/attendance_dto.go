package dto

import (
	"time"

	"github.com/kerem/schoolhub/internal/app/models"
)

// RecordAttendanceRequest marks attendance for a single student on a date
type RecordAttendanceRequest struct {
	StudentID int64                   `json:"studentId" binding:"required,min=1"`
	ClassID   int64                   `json:"classId" binding:"required,min=1"`
	Date      string                  `json:"date" binding:"required"` // YYYY-MM-DD
	Status    models.AttendanceStatus `json:"status" binding:"required"`
	Remarks   *string                 `json:"remarks,omitempty"`
}

// BulkAttendanceEntry is one student's mark inside a bulk request
type BulkAttendanceEntry struct {
	StudentID int64                   `json:"studentId" binding:"required,min=1"`
	Status    models.AttendanceStatus `json:"status" binding:"required"`
	Remarks   *string                 `json:"remarks,omitempty"`
}

// BulkAttendanceRequest marks attendance for a whole class on a date.
// Existing marks for the same (student, date) pair are overwritten.
type BulkAttendanceRequest struct {
	ClassID int64                 `json:"classId" binding:"required,min=1"`
	Date    string                `json:"date" binding:"required"` // YYYY-MM-DD
	Entries []BulkAttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

// UpdateAttendanceRequest rewrites the status and remarks of one record
type UpdateAttendanceRequest struct {
	Status  models.AttendanceStatus `json:"status" binding:"required"`
	Remarks *string                 `json:"remarks,omitempty"`
}

// AttendanceFilterRequest represents query parameters for attendance lookups
type AttendanceFilterRequest struct {
	StudentID *int64 `form:"studentId"`
	ClassID   *int64 `form:"classId"`
	DateFrom  string `form:"dateFrom"` // YYYY-MM-DD
	DateTo    string `form:"dateTo"`   // YYYY-MM-DD
	Status    string `form:"status"`
	Page      int    `form:"page,default=1"`
	Size      int    `form:"size,default=10"`
}

// AttendanceResponse represents one attendance record
type AttendanceResponse struct {
	ID          int64                   `json:"id"`
	StudentID   int64                   `json:"studentId"`
	StudentName string                  `json:"studentName,omitempty"`
	RollNumber  string                  `json:"rollNumber,omitempty"`
	ClassID     int64                   `json:"classId"`
	ClassName   string                  `json:"className,omitempty"`
	Date        string                  `json:"date"` // YYYY-MM-DD
	Status      models.AttendanceStatus `json:"status"`
	Remarks     *string                 `json:"remarks,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// AttendanceListResponse represents a paginated list of attendance records
type AttendanceListResponse struct {
	Records  []AttendanceResponse `json:"records"`
	PageInfo PageInfo             `json:"pageInfo"`
}

// BulkAttendanceResponse summarizes a bulk recording run
type BulkAttendanceResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// AttendanceSummaryResponse aggregates one student's attendance counts
type AttendanceSummaryResponse struct {
	StudentID    int64   `json:"studentId"`
	TotalDays    int     `json:"totalDays"`
	PresentDays  int     `json:"presentDays"`
	AbsentDays   int     `json:"absentDays"`
	LateDays     int     `json:"lateDays"`
	ExcusedDays  int     `json:"excusedDays"`
	PresentRatio float64 `json:"presentRatio"`
}

// NewAttendanceResponse maps an attendance record to its response shape
func NewAttendanceResponse(record *models.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:          record.ID,
		StudentID:   record.StudentID,
		StudentName: record.StudentName,
		RollNumber:  record.RollNumber,
		ClassID:     record.ClassID,
		ClassName:   record.ClassName,
		Date:        record.Date.Format("2006-01-02"),
		Status:      record.Status,
		Remarks:     record.Remarks,
		CreatedAt:   record.CreatedAt,
	}
}
