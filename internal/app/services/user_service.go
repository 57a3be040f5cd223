package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
)

// UserService manages profiles and, for admins, other accounts
type UserService struct {
	userRepo repositories.IUserRepository
	sessions SessionStore
	images   filestorage.ImageStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	sessions SessionStore,
	images filestorage.ImageStore,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		images:   images,
		logger:   logger,
	}
}

func (s *UserService) getUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}
	return user, nil
}

// refreshSession rewrites the cached session; a failure only means the next request reads stale data
func (s *UserService) refreshSession(ctx context.Context, user *models.User) {
	if err := s.sessions.Save(ctx, user); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to refresh session cache")
	}
}

// GetUserInfo returns the stored user, falling back to the cached session
func (s *UserService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Reading user from session cache")
		if cached, cacheErr := s.sessions.Get(ctx, userID); cacheErr == nil {
			return cached, nil
		}
		return nil, err
	}
	return nil, errUserNotFound
}

// UpdateUserInfo changes name and/or email
func (s *UserService) UpdateUserInfo(ctx context.Context, userID int64, req *dto.UpdateUserInfoRequest) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if emailAddr := normalizeEmail(req.Email); emailAddr != "" && emailAddr != user.Email {
		exists, err := s.userRepo.EmailExists(ctx, emailAddr)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewBadRequestError("Email already exists")
		}
		user.Email = emailAddr
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewBadRequestError("Email already exists")
		}
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}

	s.refreshSession(ctx, user)
	return user, nil
}

// UpdatePassword replaces the password of a local account after checking the old one
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, req *dto.UpdatePasswordRequest) (*models.User, error) {
	if req.OldPassword == "" || req.NewPassword == "" {
		return nil, errAllFieldsRequired
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasPassword() {
		return nil, apperrors.NewBadRequestError("Invalid user")
	}
	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return nil, apperrors.NewBadRequestError("Old password is incorrect")
	}
	if n := utf8.RuneCountInString(req.NewPassword); n < 8 || n > 32 {
		return nil, apperrors.NewBadRequestError("Password must be between 8 and 32 characters")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}
	user.Password = hash

	s.refreshSession(ctx, user)
	s.logger.Info().Int64("userID", user.ID).Msg("Password updated")
	return user, nil
}

// UpdateAvatar replaces the profile picture. The old asset is destroyed on a best-effort basis.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, avatar string) (*models.User, error) {
	if avatar == "" {
		return nil, apperrors.NewBadRequestError("Avatar is required")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Avatar != nil && user.Avatar.PublicID != "" {
		if err := s.images.Destroy(ctx, user.Avatar.PublicID); err != nil {
			s.logger.Warn().Err(err).Str("publicID", user.Avatar.PublicID).Msg("Failed to delete old avatar")
		}
	}

	img, err := s.images.Upload(ctx, avatar, "avatars")
	if err != nil {
		if errors.Is(err, filestorage.ErrInvalidImage) {
			return nil, apperrors.NewBadRequestError("Invalid image data")
		}
		return nil, err
	}
	user.Avatar = img

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}

	s.refreshSession(ctx, user)
	return user, nil
}

// GetAllUsers returns every user, newest first
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListAll(ctx)
}

// UpdateUserRole sets the role of the user with the given email
func (s *UserService) UpdateUserRole(ctx context.Context, req *dto.UpdateUserRoleRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewBadRequestError("Invalid role")
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}

	user.Role = req.Role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}

	s.refreshSession(ctx, user)
	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User role updated")
	return user, nil
}

// DeleteUser removes the account and its cached session
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("userID", id).Msg("Failed to delete session of removed user")
	}
	s.logger.Info().Int64("userID", id).Msg("User deleted")
	return nil
}
