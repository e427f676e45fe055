package models

import "time"

// Teacher defines the teacher profile based on the 'teachers' table.
// The employee ID is the sequential human-readable identifier
// (EMP001, EMP002, ...).
type Teacher struct {
	ID            int64     `json:"id" db:"id"`
	AccountID     int64     `json:"accountId" db:"account_id"`
	FirstName     string    `json:"firstName" db:"first_name"`
	LastName      string    `json:"lastName" db:"last_name"`
	EmployeeID    string    `json:"employeeId" db:"employee_id"`
	PhoneNumber   string    `json:"phoneNumber" db:"phone_number"`
	Qualification *string   `json:"qualification,omitempty" db:"qualification"`
	JoiningDate   time.Time `json:"joiningDate" db:"joining_date"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Account *Account `json:"account,omitempty"`
}
