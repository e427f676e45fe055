package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/pkg/apperrors"
)

const accountColumns = `id, email, password_hash, role, is_active, password_set, email_verified,
		verification_token, verification_token_expiry,
		reset_token, reset_token_expiry, reset_token_purpose,
		created_at, updated_at`

// AccountRepository handles account database operations
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Role,
		&account.IsActive, &account.PasswordSet, &account.EmailVerified,
		&account.VerificationToken, &account.VerificationTokenExpiry,
		&account.ResetToken, &account.ResetTokenExpiry, &account.ResetTokenPurpose,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error scanning account: %w", err)
	}
	return account, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertAccount writes a new account row. Both token slots are part of the
// column list: Register relies on the verification pair and the invited
// paths on the reset pair being persisted with the row itself.
func insertAccount(ctx context.Context, q rowQuerier, account *models.Account) error {
	err := q.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash, role, is_active, password_set, email_verified,
			verification_token, verification_token_expiry,
			reset_token, reset_token_expiry, reset_token_purpose)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		account.Email, account.PasswordHash, account.Role,
		account.IsActive, account.PasswordSet, account.EmailVerified,
		account.VerificationToken, account.VerificationTokenExpiry,
		account.ResetToken, account.ResetTokenExpiry, account.ResetTokenPurpose).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}

	return nil
}

// Create inserts a new account and sets its ID
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return insertAccount(ctx, r.db, account)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1`,
		id))
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1`,
		email))
}

// GetByVerificationToken retrieves an account by its verification token digest
func (r *AccountRepository) GetByVerificationToken(ctx context.Context, digest string) (*models.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE verification_token = $1`,
		digest))
}

// GetByResetToken retrieves an account by its reset token digest
func (r *AccountRepository) GetByResetToken(ctx context.Context, digest string) (*models.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE reset_token = $1`,
		digest))
}

// EmailExists checks if an email already exists
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`,
		email).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return exists, nil
}

// Update persists all mutable account fields
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET email = $1, password_hash = $2, role = $3, is_active = $4,
			password_set = $5, email_verified = $6,
			verification_token = $7, verification_token_expiry = $8,
			reset_token = $9, reset_token_expiry = $10, reset_token_purpose = $11,
			updated_at = NOW()
		WHERE id = $12`,
		account.Email, account.PasswordHash, account.Role, account.IsActive,
		account.PasswordSet, account.EmailVerified,
		account.VerificationToken, account.VerificationTokenExpiry,
		account.ResetToken, account.ResetTokenExpiry, account.ResetTokenPurpose,
		account.ID)

	if err != nil {
		return fmt.Errorf("error updating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account and its dependent profile rows
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM accounts WHERE id = $1`,
		id)

	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// CreateWithStudent atomically creates an account together with its student
// profile. Either both rows are written or neither.
func (r *AccountRepository) CreateWithStudent(ctx context.Context, account *models.Account, student *models.Student) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		student.AccountID = account.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO students (account_id, first_name, last_name, roll_number, phone_number,
				parent_phone_number, address, date_of_birth, admission_date, class_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`,
			student.AccountID, student.FirstName, student.LastName, student.RollNumber,
			student.PhoneNumber, student.ParentPhoneNumber, student.Address,
			student.DateOfBirth, student.AdmissionDate, student.ClassID).
			Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating student profile: %w", err)
		}

		return nil
	})
}

// CreateWithTeacher atomically creates an account together with its teacher
// profile.
func (r *AccountRepository) CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.Teacher) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		teacher.AccountID = account.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO teachers (account_id, first_name, last_name, employee_id, phone_number,
				qualification, joining_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
			teacher.AccountID, teacher.FirstName, teacher.LastName, teacher.EmployeeID,
			teacher.PhoneNumber, teacher.Qualification, teacher.JoiningDate).
			Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating teacher profile: %w", err)
		}

		return nil
	})
}
