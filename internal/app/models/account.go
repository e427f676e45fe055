package models

import (
	"time"
)

// Account defines the identity record based on the 'accounts' table.
// Token values are stored as SHA-256 digests, never in raw form; a token
// field and its expiry are either both set or both cleared.
type Account struct {
	ID                      int64         `json:"id" db:"id"`
	Email                   string        `json:"email" db:"email"`
	PasswordHash            *string       `json:"-" db:"password_hash"` // nil until a password is set
	Role                    RoleType      `json:"role" db:"role"`
	IsActive                bool          `json:"isActive" db:"is_active"`
	PasswordSet             bool          `json:"passwordSet" db:"password_set"`
	EmailVerified           bool          `json:"emailVerified" db:"email_verified"`
	VerificationToken       *string       `json:"-" db:"verification_token"`
	VerificationTokenExpiry *time.Time    `json:"-" db:"verification_token_expiry"`
	ResetToken              *string       `json:"-" db:"reset_token"`
	ResetTokenExpiry        *time.Time    `json:"-" db:"reset_token_expiry"`
	ResetTokenPurpose       *TokenPurpose `json:"-" db:"reset_token_purpose"`
	CreatedAt               time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt               time.Time     `json:"updatedAt" db:"updated_at"`
}

// SetVerificationToken stores the digest and expiry as a pair.
func (a *Account) SetVerificationToken(digest string, expiry time.Time) {
	a.VerificationToken = &digest
	a.VerificationTokenExpiry = &expiry
}

// ClearVerificationToken clears the pair after single use.
func (a *Account) ClearVerificationToken() {
	a.VerificationToken = nil
	a.VerificationTokenExpiry = nil
}

// SetResetToken stores the digest, expiry and purpose of the reset slot.
func (a *Account) SetResetToken(digest string, expiry time.Time, purpose TokenPurpose) {
	a.ResetToken = &digest
	a.ResetTokenExpiry = &expiry
	a.ResetTokenPurpose = &purpose
}

// ClearResetToken clears the reset slot after single use.
func (a *Account) ClearResetToken() {
	a.ResetToken = nil
	a.ResetTokenExpiry = nil
	a.ResetTokenPurpose = nil
}
