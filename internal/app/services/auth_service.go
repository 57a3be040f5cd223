package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/email"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
	"github.com/yigit/learnhub/internal/pkg/session"
)

var errInvalidCredentials = apperrors.NewBadRequestError("Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	sessions   SessionStore
	jwtService *auth.JWTService
	mailer     email.EmailService
	images     filestorage.ImageStore
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	sessions SessionStore,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	images filestorage.ImageStore,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtService: jwtService,
		mailer:     mailer,
		images:     images,
		logger:     logger,
	}
}

// Register creates an unverified account and mails its activation code
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	emailAddr := normalizeEmail(req.Email)
	if name == "" || emailAddr == "" || req.Password == "" {
		return nil, errAllFieldsRequired
	}

	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewBadRequestError("User already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:       name,
		Email:      emailAddr,
		Password:   hash,
		Role:       models.RoleUser,
		IsVerified: false,
	}
	if req.Avatar != "" {
		user.Avatar = s.uploadAvatar(ctx, req.Avatar)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewBadRequestError("User already exists")
		}
		return nil, err
	}

	token, code, err := s.jwtService.CreateActivationToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendActivationEmail(ctx, user.Email, user.Name, code); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send activation email")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return &dto.RegisterResponse{
		Success:         true,
		Message:         "Registration successful. Please verify your email.",
		ActivationToken: token,
	}, nil
}

// Activate verifies the emailed code and marks the account verified exactly once
func (s *AuthService) Activate(ctx context.Context, req *dto.ActivationRequest) error {
	claims, err := s.jwtService.ValidateActivationToken(req.ActivationToken)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.ActivationCode) != claims.ActivationCode {
		return apperrors.NewBadRequestError("Invalid activation code")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}
	if user.IsVerified {
		return apperrors.NewBadRequestError("User already activated")
	}

	changed, err := s.userRepo.MarkVerified(ctx, user.ID)
	if err != nil {
		return err
	}
	if !changed {
		return apperrors.NewBadRequestError("User already activated")
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User activated")
	return nil
}

// Login checks credentials and opens a session
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenPair, error) {
	emailAddr := normalizeEmail(req.Email)
	if emailAddr == "" || req.Password == "" {
		return nil, nil, errAllFieldsRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsVerified {
		return nil, nil, apperrors.NewBadRequestError("Please verify your email first")
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, nil, errInvalidCredentials
	}

	pair, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssueSession signs a token pair for user and caches the session for the refresh lifetime
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (*dto.TokenPair, error) {
	accessToken, refreshToken, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh reissues both tokens from a valid refresh token and its cached session
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *dto.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, errLoginRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, nil, errLoginRequired
		}
		return nil, nil, err
	}

	pair, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout drops the cached session of the access token owner, if the token is still valid
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Logout with unusable access token")
		return
	}
	if err := s.sessions.Delete(ctx, claims.UserID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", claims.UserID).Msg("Failed to delete session")
	}
}

// SocialAuth signs in an OAuth user, creating a verified passwordless account on first use.
// created reports whether a new account was made.
func (s *AuthService) SocialAuth(ctx context.Context, req *dto.SocialAuthRequest) (user *models.User, pair *dto.TokenPair, created bool, err error) {
	emailAddr := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if emailAddr == "" || name == "" {
		return nil, nil, false, apperrors.NewBadRequestError("Email and name are required")
	}

	user, err = s.userRepo.GetByEmail(ctx, emailAddr)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		user = &models.User{
			Name:       name,
			Email:      emailAddr,
			Role:       models.RoleUser,
			IsVerified: true,
		}
		if req.Avatar != "" {
			user.Avatar = s.uploadAvatar(ctx, req.Avatar)
		}
		if err = s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, false, err
		}
		created = true
	default:
		return nil, nil, false, err
	}

	pair, err = s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, false, err
	}
	return user, pair, created, nil
}

// uploadAvatar keeps remote URLs as they are and uploads inline images. Upload errors are logged.
func (s *AuthService) uploadAvatar(ctx context.Context, avatar string) *models.Image {
	if strings.HasPrefix(avatar, "http://") || strings.HasPrefix(avatar, "https://") {
		return &models.Image{URL: avatar}
	}
	img, err := s.images.Upload(ctx, avatar, "avatars")
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to upload avatar")
		return nil
	}
	return img
}
