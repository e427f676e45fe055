package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
	"github.com/kerem/schoolhub/internal/pkg/auth"
	"github.com/kerem/schoolhub/internal/pkg/dberrors"
	"github.com/kerem/schoolhub/internal/pkg/email"
	"github.com/kerem/schoolhub/internal/pkg/token"
	"github.com/kerem/schoolhub/internal/pkg/validation"
)

// AuthService handles the account credential lifecycle
type AuthService struct {
	accountRepo AccountRepository
	studentRepo StudentRepository
	teacherRepo TeacherRepository
	jwtService  *auth.JWTService
	notifier    email.Notifier
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accountRepo AccountRepository,
	studentRepo StudentRepository,
	teacherRepo TeacherRepository,
	jwtService *auth.JWTService,
	notifier email.Notifier,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		jwtService:  jwtService,
		notifier:    notifier,
		logger:      logger,
	}
}

// validateEmail validates an email address
func (s *AuthService) validateEmail(emailAddr string) error {
	if strings.TrimSpace(emailAddr) == "" {
		return apperrors.ErrInvalidEmail
	}
	if !validation.IsValidEmail(strings.ToLower(emailAddr)) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

// validatePassword checks if a password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long",
			apperrors.ErrInvalidPassword, validation.PasswordMinLength)
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrInvalidPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword)
	}

	return nil
}

// notify sends a lifecycle email. Delivery failures are logged and
// swallowed: an undelivered email must not roll back account creation.
func (s *AuthService) notify(toEmail, toName string, kind token.Kind, rawToken string) {
	if err := s.notifier.SendTokenEmail(toEmail, toName, kind, rawToken); err != nil {
		s.logger.Error().Err(err).
			Str("email", toEmail).
			Str("kind", string(kind)).
			Msg("Failed to send lifecycle email")
	}
}

// welcome sends the post-activation email. Same delivery policy as notify:
// failures are logged, never surfaced.
func (s *AuthService) welcome(ctx context.Context, account *models.Account) {
	name := ""
	switch account.Role {
	case models.RoleStudent:
		if student, err := s.studentRepo.GetByAccountID(ctx, account.ID); err == nil {
			name = student.FirstName
		}
	case models.RoleTeacher:
		if teacher, err := s.teacherRepo.GetByAccountID(ctx, account.ID); err == nil {
			name = teacher.FirstName
		}
	}

	if err := s.notifier.SendWelcomeEmail(account.Email, name); err != nil {
		s.logger.Error().Err(err).
			Str("email", account.Email).
			Msg("Failed to send welcome email")
	}
}

func parseDateField(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidationFailed, *value)
	}
	return &t, nil
}

// Register handles public self-registration. The new account is always a
// student: inactive, unverified, with no password until SetPassword. A
// student profile with the next sequential roll number is created in the
// same transaction.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Student, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmail(emailAddr); err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	dateOfBirth, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	issued, err := token.Issue(token.KindVerification)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:         emailAddr,
		Role:          models.RoleStudent,
		IsActive:      false,
		PasswordSet:   false,
		EmailVerified: false,
	}
	account.SetVerificationToken(issued.Digest, issued.ExpiresAt)

	student := &models.Student{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		ParentPhoneNumber: req.ParentPhoneNumber,
		Address:           req.Address,
		DateOfBirth:       dateOfBirth,
		AdmissionDate:     time.Now(),
	}

	if err := s.createStudentWithRollNumber(ctx, account, student); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", account.Email).
		Str("rollNumber", student.RollNumber).
		Msg("Student registered")

	s.notify(account.Email, student.FirstName, token.KindVerification, issued.Raw)

	student.Account = account
	return student, nil
}

// createStudentWithRollNumber allocates the next roll number and creates
// the account+profile pair, retrying on identifier races.
func (s *AuthService) createStudentWithRollNumber(ctx context.Context, account *models.Account, student *models.Student) error {
	for attempt := 0; attempt < identifierRetries; attempt++ {
		last, err := s.studentRepo.LastRollNumber(ctx)
		if err != nil {
			return err
		}
		student.RollNumber, err = NextRollNumber(last)
		if err != nil {
			return err
		}

		err = s.accountRepo.CreateWithStudent(ctx, account, student)
		if err == nil {
			return nil
		}
		if dberrors.IsDuplicateConstraintError(err, "accounts_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsUniqueViolation(err) {
			// Concurrent creation took this roll number; re-scan and retry
			continue
		}
		return err
	}
	return apperrors.ErrIdentifierExists
}

// createTeacherWithEmployeeID allocates the next employee ID and creates
// the account+profile pair, retrying on identifier races.
func (s *AuthService) createTeacherWithEmployeeID(ctx context.Context, account *models.Account, teacher *models.Teacher) error {
	for attempt := 0; attempt < identifierRetries; attempt++ {
		last, err := s.teacherRepo.LastEmployeeID(ctx)
		if err != nil {
			return err
		}
		teacher.EmployeeID, err = NextEmployeeID(last)
		if err != nil {
			return err
		}

		err = s.accountRepo.CreateWithTeacher(ctx, account, teacher)
		if err == nil {
			return nil
		}
		if dberrors.IsDuplicateConstraintError(err, "accounts_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsUniqueViolation(err) {
			continue
		}
		return err
	}
	return apperrors.ErrIdentifierExists
}

// VerifyEmail consumes a verification token. Single-use: the stored token
// pair is cleared on success, so a second call fails as invalid.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return apperrors.ErrTokenInvalid
	}

	account, err := s.accountRepo.GetByVerificationToken(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrTokenInvalid
		}
		return err
	}

	if account.VerificationTokenExpiry == nil || account.VerificationTokenExpiry.Before(time.Now()) {
		return apperrors.ErrTokenExpired
	}

	account.EmailVerified = true
	account.IsActive = true
	account.ClearVerificationToken()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("email", account.Email).Msg("Email verified")

	s.welcome(ctx, account)
	return nil
}

// CreateInvitedStudent is the admin path for creating a student account.
// The account gets an invitation token instead of a password; setting the
// password activates and verifies it.
func (s *AuthService) CreateInvitedStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmail(emailAddr); err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	dateOfBirth, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	issued, err := token.Issue(token.KindInvitation)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:         emailAddr,
		Role:          models.RoleStudent,
		IsActive:      false,
		PasswordSet:   false,
		EmailVerified: false,
	}
	account.SetResetToken(issued.Digest, issued.ExpiresAt, models.TokenPurposeInvitation)

	student := &models.Student{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		ParentPhoneNumber: req.ParentPhoneNumber,
		Address:           req.Address,
		DateOfBirth:       dateOfBirth,
		AdmissionDate:     time.Now(),
		ClassID:           req.ClassID,
	}

	if err := s.createStudentWithRollNumber(ctx, account, student); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", account.Email).
		Str("rollNumber", student.RollNumber).
		Msg("Invited student created")

	s.notify(account.Email, student.FirstName, token.KindInvitation, issued.Raw)

	student.Account = account
	return student, nil
}

// CreateInvitedTeacher is the admin path for creating a teacher account
func (s *AuthService) CreateInvitedTeacher(ctx context.Context, req *dto.CreateTeacherRequest) (*models.Teacher, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validateEmail(emailAddr); err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	issued, err := token.Issue(token.KindInvitation)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:         emailAddr,
		Role:          models.RoleTeacher,
		IsActive:      false,
		PasswordSet:   false,
		EmailVerified: false,
	}
	account.SetResetToken(issued.Digest, issued.ExpiresAt, models.TokenPurposeInvitation)

	teacher := &models.Teacher{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PhoneNumber:   req.PhoneNumber,
		Qualification: req.Qualification,
		JoiningDate:   time.Now(),
	}

	if err := s.createTeacherWithEmployeeID(ctx, account, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("email", account.Email).
		Str("employeeId", teacher.EmployeeID).
		Msg("Invited teacher created")

	s.notify(account.Email, teacher.FirstName, token.KindInvitation, issued.Raw)

	teacher.Account = account
	return teacher, nil
}

// SetPassword completes an invitation or a verified registration. On
// success the account becomes active; for invited accounts setting the
// password also counts as email verification.
func (s *AuthService) SetPassword(ctx context.Context, rawToken, password, confirmPassword string) error {
	if password != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if err := s.validatePassword(password); err != nil {
		return err
	}

	account, err := s.lookupResetToken(ctx, rawToken)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	invited := account.ResetTokenPurpose != nil && *account.ResetTokenPurpose == models.TokenPurposeInvitation

	account.PasswordHash = &hash
	account.PasswordSet = true
	account.IsActive = true
	if invited {
		account.EmailVerified = true
	}
	account.ClearResetToken()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("email", account.Email).Msg("Password set")

	if invited {
		s.welcome(ctx, account)
	}
	return nil
}

func (s *AuthService) lookupResetToken(ctx context.Context, rawToken string) (*models.Account, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	account, err := s.accountRepo.GetByResetToken(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if account.ResetTokenExpiry == nil || account.ResetTokenExpiry.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return account, nil
}

// Login verifies credentials and issues a bearer token. Missing account,
// inactive account, unverified student, unset password and wrong password
// all surface as the same error to avoid account enumeration.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	switch {
	case !account.IsActive:
		return nil, apperrors.ErrInvalidCredentials
	case account.Role == models.RoleStudent && !account.EmailVerified:
		return nil, apperrors.ErrInvalidCredentials
	case !account.PasswordSet || account.PasswordHash == nil:
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(*account.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.jwtService.GenerateToken(account)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("email", account.Email).Str("role", string(account.Role)).Msg("Login successful")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Account: dto.NewAccountResponse(account),
	}, nil
}

// ForgotPassword issues a password reset token. An unknown email is not
// reported to the caller, mirroring Login's uniform rejection. An account
// that never completed its invitation (or verification) gets the
// invitation reissued instead, so SetPassword still verifies the email and
// the flow doubles as a resend.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	account, err := s.accountRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	kind := token.KindPasswordReset
	purpose := models.TokenPurposePasswordReset
	if !account.EmailVerified && !account.PasswordSet {
		kind = token.KindInvitation
		purpose = models.TokenPurposeInvitation
	}

	issued, err := token.Issue(kind)
	if err != nil {
		return err
	}

	account.SetResetToken(issued.Digest, issued.ExpiresAt, purpose)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("email", account.Email).Str("kind", string(kind)).Msg("Password reset token issued")

	s.notify(account.Email, "", kind, issued.Raw)
	return nil
}

// ResetPassword completes a forgot-password flow. Unlike SetPassword it
// never changes the active or verified flags.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password, confirmPassword string) error {
	if password != confirmPassword {
		return apperrors.ErrPasswordMismatch
	}
	if err := s.validatePassword(password); err != nil {
		return err
	}

	account, err := s.lookupResetToken(ctx, rawToken)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	account.PasswordHash = &hash
	account.PasswordSet = true
	account.ClearResetToken()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("email", account.Email).Msg("Password reset")
	return nil
}

// ChangePassword changes the password of an authenticated account
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, req *dto.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if account.PasswordHash == nil || !auth.CheckPassword(*account.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	// Hashes are salted, so compare the candidate against the stored hash
	if auth.CheckPassword(*account.PasswordHash, req.NewPassword) {
		return apperrors.ErrSamePassword
	}

	if err := s.validatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	account.PasswordHash = &hash

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return err
	}

	s.logger.Info().Str("email", account.Email).Msg("Password changed")
	return nil
}
