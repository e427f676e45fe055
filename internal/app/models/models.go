package models

// RoleType defines the account role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
)

// Valid reports whether the role is one of the known role types.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// TokenPurpose tags the reset-token slot so invitation links and
// password-reset links cannot be conflated even though they share storage.
type TokenPurpose string

const (
	TokenPurposeInvitation    TokenPurpose = "INVITATION"
	TokenPurposePasswordReset TokenPurpose = "PASSWORD_RESET"
)

// AttendanceStatus enumerates the per-day attendance states
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether the status is one of the known attendance states.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}
