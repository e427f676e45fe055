package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kerem/schoolhub/internal/app/models"
)

type recordedQuery struct {
	sql  string
	args []any
}

// queryRecorder captures the statement instead of hitting a database
type queryRecorder struct {
	last recordedQuery
}

type stubRow struct{}

func (stubRow) Scan(dest ...any) error { return nil }

func (r *queryRecorder) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	r.last = recordedQuery{sql: sql, args: args}
	return stubRow{}
}

// Registration stores the verification token pair on the account before the
// row is written, so the insert must carry both token slots. A column list
// that drops them silently breaks every later lookup by token digest.
func TestInsertAccountBindsBothTokenSlots(t *testing.T) {
	digest := strings.Repeat("a", 64)
	expiry := time.Now().Add(24 * time.Hour)

	account := &models.Account{
		Email: "jane.doe@example.com",
		Role:  models.RoleStudent,
	}
	account.SetVerificationToken(digest, expiry)
	account.SetResetToken(strings.Repeat("b", 64), expiry, models.TokenPurposeInvitation)

	rec := &queryRecorder{}
	if err := insertAccount(context.Background(), rec, account); err != nil {
		t.Fatalf("insertAccount: %v", err)
	}

	for _, column := range []string{
		"verification_token", "verification_token_expiry",
		"reset_token", "reset_token_expiry", "reset_token_purpose",
	} {
		if !strings.Contains(rec.last.sql, column) {
			t.Errorf("insert statement missing column %s", column)
		}
	}

	if got, want := len(rec.last.args), 11; got != want {
		t.Fatalf("bound %d arguments, want %d", got, want)
	}

	verificationArg, ok := rec.last.args[6].(*string)
	if !ok || verificationArg == nil || *verificationArg != digest {
		t.Errorf("verification token digest not bound: %v", rec.last.args[6])
	}
	if expiryArg, ok := rec.last.args[7].(*time.Time); !ok || expiryArg == nil || !expiryArg.Equal(expiry) {
		t.Errorf("verification token expiry not bound: %v", rec.last.args[7])
	}
}
