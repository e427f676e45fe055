package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/models/dto"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
	"github.com/kerem/schoolhub/internal/pkg/auth"
	"github.com/kerem/schoolhub/internal/pkg/token"
)

type authFixture struct {
	svc      *AuthService
	accounts *fakeAccountRepo
	students *fakeStudentRepo
	teachers *fakeTeacherRepo
	notifier *fakeNotifier
}

func newAuthFixture() *authFixture {
	students := newFakeStudentRepo()
	teachers := newFakeTeacherRepo()
	accounts := newFakeAccountRepo(students, teachers)
	notifier := &fakeNotifier{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "schoolhub-test",
	})
	svc := NewAuthService(accounts, students, teachers, jwtService, notifier, zerolog.Nop())
	return &authFixture{
		svc:      svc,
		accounts: accounts,
		students: students,
		teachers: teachers,
		notifier: notifier,
	}
}

func registerReq(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:       email,
		FirstName:   "Ann",
		LastName:    "Example",
		PhoneNumber: "5550001111",
	}
}

func TestRegisterCreatesInactiveStudent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	student, err := f.svc.Register(ctx, registerReq("ann@school.test"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	account := student.Account
	if account.Role != models.RoleStudent {
		t.Errorf("role = %s, want STUDENT", account.Role)
	}
	if account.IsActive || account.EmailVerified || account.PasswordSet {
		t.Errorf("new account flags = active:%v verified:%v passwordSet:%v, want all false",
			account.IsActive, account.EmailVerified, account.PasswordSet)
	}
	if account.VerificationToken == nil || account.VerificationTokenExpiry == nil {
		t.Fatal("verification token pair not set")
	}
	ttl := time.Until(*account.VerificationTokenExpiry)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("verification expiry %v from now, want ~24h", ttl)
	}
	if student.RollNumber != "STU001" {
		t.Errorf("roll number = %q, want STU001", student.RollNumber)
	}

	sent := f.notifier.last()
	if sent.kind != token.KindVerification {
		t.Errorf("notification kind = %s, want VERIFICATION", sent.kind)
	}
	// The raw token goes to the recipient; only its digest is stored
	if token.Digest(sent.raw) != *account.VerificationToken {
		t.Error("stored token is not the digest of the mailed token")
	}
	if sent.raw == *account.VerificationToken {
		t.Error("raw token stored directly")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, registerReq("dup@school.test")); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := f.svc.Register(ctx, registerReq("dup@school.test"))
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("second Register error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterAllocatesSequentialRollNumbers(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	want := []string{"STU001", "STU002", "STU003"}
	for i, w := range want {
		student, err := f.svc.Register(ctx, registerReq(string(rune('a'+i))+"@school.test"))
		if err != nil {
			t.Fatalf("Register %d returned error: %v", i, err)
		}
		if student.RollNumber != w {
			t.Errorf("registration %d roll number = %q, want %q", i, student.RollNumber, w)
		}
	}
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	student, err := f.svc.Register(ctx, registerReq("verify@school.test"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	raw := f.notifier.last().raw

	if err := f.svc.VerifyEmail(ctx, raw); err != nil {
		t.Fatalf("first VerifyEmail returned error: %v", err)
	}

	account, err := f.accounts.GetByID(ctx, student.Account.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !account.EmailVerified || !account.IsActive {
		t.Errorf("after verify: verified=%v active=%v, want both true", account.EmailVerified, account.IsActive)
	}
	if account.VerificationToken != nil || account.VerificationTokenExpiry != nil {
		t.Error("verification token pair not cleared")
	}

	if err := f.svc.VerifyEmail(ctx, raw); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("second VerifyEmail error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	student, err := f.svc.Register(ctx, registerReq("late@school.test"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	raw := f.notifier.last().raw

	// Age the stored expiry past the deadline
	stored := f.accounts.accounts[student.Account.ID]
	past := time.Now().Add(-time.Minute)
	stored.VerificationTokenExpiry = &past

	if err := f.svc.VerifyEmail(ctx, raw); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("VerifyEmail error = %v, want ErrTokenExpired", err)
	}
}

func TestInvitedTeacherLifecycle(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	teacher, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "t@school.test",
		FirstName:   "Tom",
		LastName:    "Teacher",
		PhoneNumber: "5550002222",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if teacher.EmployeeID != "EMP001" {
		t.Errorf("employee ID = %q, want EMP001", teacher.EmployeeID)
	}

	sent := f.notifier.last()
	if sent.kind != token.KindInvitation {
		t.Errorf("notification kind = %s, want INVITATION", sent.kind)
	}

	// Invited accounts become verified by setting a password, without
	// ever calling VerifyEmail
	if err := f.svc.SetPassword(ctx, sent.raw, "Teach123", "Teach123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	account, err := f.accounts.GetByID(ctx, teacher.Account.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !account.IsActive || !account.EmailVerified || !account.PasswordSet {
		t.Errorf("after SetPassword: active=%v verified=%v passwordSet=%v, want all true",
			account.IsActive, account.EmailVerified, account.PasswordSet)
	}
	if account.ResetToken != nil || account.ResetTokenPurpose != nil {
		t.Error("reset token pair not cleared")
	}

	// Token is single-use
	if err := f.svc.SetPassword(ctx, sent.raw, "Other123", "Other123"); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("reused SetPassword error = %v, want ErrTokenInvalid", err)
	}

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "t@school.test", Password: "Teach123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Account.Role != string(models.RoleTeacher) {
		t.Errorf("login role = %s, want TEACHER", resp.Account.Role)
	}
	if resp.Token.AccessToken == "" {
		t.Error("login returned empty access token")
	}
}

func TestSetPasswordMismatch(t *testing.T) {
	f := newAuthFixture()
	err := f.svc.SetPassword(context.Background(), "whatever", "Pass1234", "Pass5678")
	if !errors.Is(err, apperrors.ErrPasswordMismatch) {
		t.Fatalf("SetPassword error = %v, want ErrPasswordMismatch", err)
	}
}

func TestLoginRejections(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	// Invited + password set: the happy baseline
	_, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "ok@school.test",
		FirstName:   "Ok",
		LastName:    "Teacher",
		PhoneNumber: "5550003333",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "Teach123", "Teach123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	// Registered but never verified: passwordSet=false
	if _, err := f.svc.Register(ctx, registerReq("new@student.test")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Fully provisioned, then deactivated
	off, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "off@school.test",
		FirstName:   "Odd",
		LastName:    "Teacher",
		PhoneNumber: "5550006666",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "Teach123", "Teach123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	f.accounts.accounts[off.Account.ID].IsActive = false

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown account", "ghost@school.test", "Whatever1"},
		{"password not set", "new@student.test", "Whatever1"},
		{"wrong password", "ok@school.test", "WrongPass1"},
		{"inactive account", "off@school.test", "Teach123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Fatalf("Login error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginRejectsUnverifiedStudent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	student, err := f.svc.Register(ctx, registerReq("unverified@student.test"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Force a password and active flag without verification
	stored := f.accounts.accounts[student.Account.ID]
	hash, err := auth.HashPassword("Secret12")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	stored.PasswordHash = &hash
	stored.PasswordSet = true
	stored.IsActive = true
	stored.EmailVerified = false

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "unverified@student.test", Password: "Secret12"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotPasswordHidesUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	if err := f.svc.ForgotPassword(context.Background(), "nobody@school.test"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatal("notification sent for unknown email")
	}
}

func TestForgotThenResetPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	teacher, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "reset@school.test",
		FirstName:   "Rae",
		LastName:    "Teacher",
		PhoneNumber: "5550004444",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "First123", "First123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	if err := f.svc.ForgotPassword(ctx, "reset@school.test"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}

	sent := f.notifier.last()
	if sent.kind != token.KindPasswordReset {
		t.Fatalf("notification kind = %s, want PASSWORD_RESET", sent.kind)
	}

	account, _ := f.accounts.GetByID(ctx, teacher.Account.ID)
	ttl := time.Until(*account.ResetTokenExpiry)
	if ttl < 50*time.Minute || ttl > 70*time.Minute {
		t.Errorf("reset expiry %v from now, want ~1h", ttl)
	}

	if err := f.svc.ResetPassword(ctx, sent.raw, "Second123", "Second123"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "reset@school.test", Password: "First123"}); err == nil {
		t.Error("old password still accepted after reset")
	}
	if _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "reset@school.test", Password: "Second123"}); err != nil {
		t.Errorf("new password rejected after reset: %v", err)
	}
}

func TestInvitedStudentRecoversViaForgotPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	student, err := f.svc.CreateInvitedStudent(ctx, &dto.CreateStudentRequest{
		Email:       "lost@school.test",
		FirstName:   "Lia",
		LastName:    "Student",
		PhoneNumber: "5550007777",
	})
	if err != nil {
		t.Fatalf("CreateInvitedStudent returned error: %v", err)
	}

	// The invitation email never arrived; forgot-password must reissue
	// the invitation, not downgrade it to a plain reset
	if err := f.svc.ForgotPassword(ctx, "lost@school.test"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	sent := f.notifier.last()
	if sent.kind != token.KindInvitation {
		t.Fatalf("notification kind = %s, want INVITATION", sent.kind)
	}

	if err := f.svc.SetPassword(ctx, sent.raw, "Fresh123", "Fresh123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	account, err := f.accounts.GetByID(ctx, student.Account.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !account.IsActive || !account.EmailVerified {
		t.Errorf("after recovery: active=%v verified=%v, want both true",
			account.IsActive, account.EmailVerified)
	}

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "lost@school.test", Password: "Fresh123"})
	if err != nil {
		t.Fatalf("Login after recovery returned error: %v", err)
	}
	if resp.Account.Role != string(models.RoleStudent) {
		t.Errorf("login role = %s, want STUDENT", resp.Account.Role)
	}
}

func TestWelcomeEmailOnActivation(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	// Self-registration: welcome follows email verification
	if _, err := f.svc.Register(ctx, registerReq("hello@school.test")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := f.svc.VerifyEmail(ctx, f.notifier.last().raw); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if len(f.notifier.welcomes) != 1 {
		t.Fatalf("welcome emails after verification = %d, want 1", len(f.notifier.welcomes))
	}
	if w := f.notifier.welcomes[0]; w.toEmail != "hello@school.test" || w.toName != "Ann" {
		t.Errorf("welcome sent to %q/%q, want hello@school.test/Ann", w.toEmail, w.toName)
	}

	// Invitation: welcome follows the first password
	_, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "tom@school.test",
		FirstName:   "Tom",
		LastName:    "Teacher",
		PhoneNumber: "5550008888",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "Teach123", "Teach123"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	if len(f.notifier.welcomes) != 2 {
		t.Fatalf("welcome emails after invitation = %d, want 2", len(f.notifier.welcomes))
	}
	if w := f.notifier.welcomes[1]; w.toName != "Tom" {
		t.Errorf("welcome name = %q, want Tom", w.toName)
	}

	// A plain password reset is not a second activation
	if err := f.svc.ForgotPassword(ctx, "tom@school.test"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, f.notifier.last().raw, "Other123", "Other123"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if len(f.notifier.welcomes) != 2 {
		t.Errorf("welcome emails after reset = %d, want 2", len(f.notifier.welcomes))
	}
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	teacher, err := f.svc.CreateInvitedTeacher(ctx, &dto.CreateTeacherRequest{
		Email:       "change@school.test",
		FirstName:   "Cam",
		LastName:    "Teacher",
		PhoneNumber: "5550005555",
	})
	if err != nil {
		t.Fatalf("CreateInvitedTeacher returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "Secret12", "Secret12"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}
	accountID := teacher.Account.ID

	err = f.svc.ChangePassword(ctx, accountID, &dto.ChangePasswordRequest{
		CurrentPassword: "WrongOld1", NewPassword: "Next1234", ConfirmPassword: "Next1234",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("wrong current password error = %v, want ErrInvalidCredentials", err)
	}

	err = f.svc.ChangePassword(ctx, accountID, &dto.ChangePasswordRequest{
		CurrentPassword: "Secret12", NewPassword: "Next1234", ConfirmPassword: "Other123",
	})
	if !errors.Is(err, apperrors.ErrPasswordMismatch) {
		t.Fatalf("confirmation mismatch error = %v, want ErrPasswordMismatch", err)
	}

	err = f.svc.ChangePassword(ctx, accountID, &dto.ChangePasswordRequest{
		CurrentPassword: "Secret12", NewPassword: "Secret12", ConfirmPassword: "Secret12",
	})
	if !errors.Is(err, apperrors.ErrSamePassword) {
		t.Fatalf("unchanged password error = %v, want ErrSamePassword", err)
	}

	err = f.svc.ChangePassword(ctx, accountID, &dto.ChangePasswordRequest{
		CurrentPassword: "Secret12", NewPassword: "Next1234", ConfirmPassword: "Next1234",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "change@school.test", Password: "Next1234"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestRegisterVerifyResetLoginEndToEnd(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, registerReq("a@x.com")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := f.svc.VerifyEmail(ctx, f.notifier.last().raw); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	// Self-registered accounts obtain their first password through the
	// reset flow
	if err := f.svc.ForgotPassword(ctx, "a@x.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if err := f.svc.SetPassword(ctx, f.notifier.last().raw, "Passw0rd", "Passw0rd"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "Passw0rd"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Account.Role != string(models.RoleStudent) {
		t.Errorf("login role = %s, want STUDENT", resp.Account.Role)
	}
}
