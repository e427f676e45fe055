package models

import "time"

// TeacherAssignment links a teacher to a (class, subject) pair based on
// the 'teacher_assignments' table
type TeacherAssignment struct {
	ID        int64     `json:"id" db:"id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	ClassID   int64     `json:"classId" db:"class_id"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Teacher *Teacher `json:"teacher,omitempty"`
	Class   *Class   `json:"class,omitempty"`
	Subject *Subject `json:"subject,omitempty"`
}
