package dto

import "github.com/kerem/schoolhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn"`
}

// RegisterRequest represents a self-service student registration. No
// password is collected here; the account sets one after verifying its
// email address.
type RegisterRequest struct {
	Email             string  `json:"email" binding:"required,email"`
	FirstName         string  `json:"firstName" binding:"required"`
	LastName          string  `json:"lastName" binding:"required"`
	PhoneNumber       string  `json:"phoneNumber" binding:"required"`
	ParentPhoneNumber *string `json:"parentPhoneNumber,omitempty"`
	Address           *string `json:"address,omitempty"`
	DateOfBirth       *string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
}

// VerifyEmailRequest carries the emailed verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetPasswordRequest completes an invitation or verified registration
type SetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ForgotPasswordRequest starts a password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset flow
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ChangePasswordRequest changes the password of an authenticated account
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// AccountResponse represents basic account information
type AccountResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IsActive      bool   `json:"isActive"`
	EmailVerified bool   `json:"emailVerified"`
	PasswordSet   bool   `json:"passwordSet"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Account AccountResponse `json:"account"`
}

// NewAccountResponse maps an account model to its response shape
func NewAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		Email:         account.Email,
		Role:          string(account.Role),
		IsActive:      account.IsActive,
		EmailVerified: account.EmailVerified,
		PasswordSet:   account.PasswordSet,
	}
}
