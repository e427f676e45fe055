package models

import "time"

// AttendanceRecord is one row per (student, date) pair based on the
// 'attendance_records' table. Date is stored at day granularity and the
// pair is unique at the storage layer.
type AttendanceRecord struct {
	ID        int64            `json:"id" db:"id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	ClassID   int64            `json:"classId" db:"class_id"`
	Date      time.Time        `json:"date" db:"date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	Remarks   *string          `json:"remarks,omitempty" db:"remarks"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`

	// Display fields joined from the student and class rows
	StudentName string `json:"studentName,omitempty" db:"-"`
	RollNumber  string `json:"rollNumber,omitempty" db:"-"`
	ClassName   string `json:"className,omitempty" db:"-"`
}
