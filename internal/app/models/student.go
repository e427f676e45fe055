package models

import "time"

// Student defines the student profile based on the 'students' table.
// Each student belongs to exactly one account and carries the sequential
// human-readable roll number (STU001, STU002, ...).
type Student struct {
	ID                int64      `json:"id" db:"id"`
	AccountID         int64      `json:"accountId" db:"account_id"`
	FirstName         string     `json:"firstName" db:"first_name"`
	LastName          string     `json:"lastName" db:"last_name"`
	RollNumber        string     `json:"rollNumber" db:"roll_number"`
	PhoneNumber       string     `json:"phoneNumber" db:"phone_number"`
	ParentPhoneNumber *string    `json:"parentPhoneNumber,omitempty" db:"parent_phone_number"`
	Address           *string    `json:"address,omitempty" db:"address"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	AdmissionDate     time.Time  `json:"admissionDate" db:"admission_date"`
	ClassID           *int64     `json:"classId,omitempty" db:"class_id"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Account *Account `json:"account,omitempty"`
	Class   *Class   `json:"class,omitempty"`
}
