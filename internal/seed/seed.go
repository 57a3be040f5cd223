package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	appRepos "github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// AdminAccount describes the administrator created on first start
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultData creates the default admin account if it doesn't exist.
// An account without email or password is skipped.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Info().Msg("No default admin configured, skipping seed")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			lgr.Warn().Str("email", email).Msg("Seed admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("failed to look up default admin: %w", err)
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	user := &appModels.User{
		Name:       admin.Name,
		Email:      email,
		Password:   hash,
		Role:       appModels.RoleAdmin,
		IsVerified: true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		// another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Int64("userID", user.ID).Str("email", email).Msg("Default admin account created")
	return nil
}
