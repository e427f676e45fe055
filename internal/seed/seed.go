// Package seed creates the default records a fresh deployment needs
package seed

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kerem/schoolhub/internal/app/models"
	"github.com/kerem/schoolhub/internal/app/repositories"
	"github.com/kerem/schoolhub/internal/config"
	"github.com/kerem/schoolhub/internal/pkg/auth"
)

// CreateDefaultAdmin creates the bootstrap admin account if it does not
// exist yet. Without a configured admin password nothing is created: the
// deployment would otherwise ship with a guessable default.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if adminEmail == "" {
		lgr.Warn().Msg("Admin email not configured, skipping admin seed")
		return nil
	}
	if cfg.Admin.Password == "" {
		lgr.Warn().Str("email", adminEmail).Msg("Admin password not configured, skipping admin seed")
		return nil
	}

	accountRepo := repositories.NewAccountRepository(dbPool)

	exists, err := accountRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Str("email", adminEmail).Msg("Admin account already exists, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.Account{
		Email:         adminEmail,
		PasswordHash:  &hash,
		Role:          models.RoleAdmin,
		IsActive:      true,
		PasswordSet:   true,
		EmailVerified: true,
	}

	if err := accountRepo.Create(ctx, admin); err != nil {
		return err
	}

	lgr.Info().Str("email", adminEmail).Int64("accountId", admin.ID).Msg("Default admin account created")
	return nil
}
