package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// ErrInvalidFormat is returned for an Authorization header that carries no token
var ErrInvalidFormat = errors.New("invalid token format")

// JWTConfig defines JWT configuration settings.
// Access, refresh and activation tokens are signed with separate secrets.
type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	ActivationSecret string
	AccessTokenExp   time.Duration
	RefreshTokenExp  time.Duration
	ActivationExp    time.Duration
	TokenIssuer      string
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims is the content of access and refresh tokens
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ActivationClaims is the content of an activation token
type ActivationClaims struct {
	UserID         int64  `json:"userId"`
	ActivationCode string `json:"activationCode"`
	jwt.RegisteredClaims
}

func (s *JWTService) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    s.config.TokenIssuer,
		Subject:   subject,
		ID:        uuid.New().String(),
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateTokenPair creates an access token and a refresh token for user
func (s *JWTService) GenerateTokenPair(user *models.User) (accessToken, refreshToken string, err error) {
	subject := strconv.FormatInt(user.ID, 10)

	accessToken, err = sign(&Claims{
		UserID:           user.ID,
		Role:             string(user.Role),
		RegisteredClaims: s.registered(subject, s.config.AccessTokenExp),
	}, s.config.AccessSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err = sign(&Claims{
		UserID:           user.ID,
		Role:             string(user.Role),
		RegisteredClaims: s.registered(subject, s.config.RefreshTokenExp),
	}, s.config.RefreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to create refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// CreateActivationToken signs a fresh activation code for userID
func (s *JWTService) CreateActivationToken(userID int64) (token, code string, err error) {
	code, err = GenerateActivationCode()
	if err != nil {
		return "", "", err
	}

	token, err = sign(&ActivationClaims{
		UserID:           userID,
		ActivationCode:   code,
		RegisteredClaims: s.registered(strconv.FormatInt(userID, 10), s.config.ActivationExp),
	}, s.config.ActivationSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to create activation token: %w", err)
	}
	return token, code, nil
}

// parse validates signature, algorithm and expiry and maps jwt errors onto apperrors
func (s *JWTService) parse(tokenString, secret string, claims jwt.Claims) error {
	if tokenString == "" {
		return apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return apperrors.ErrTokenInvalid
	}
	return nil
}

// ValidateAccessToken validates an access token
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, s.config.AccessSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, s.config.RefreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ValidateActivationToken validates an activation token
func (s *JWTService) ValidateActivationToken(tokenString string) (*ActivationClaims, error) {
	claims := &ActivationClaims{}
	if err := s.parse(tokenString, s.config.ActivationSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// AccessTokenTTL is the lifetime of access tokens
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenExp
}

// RefreshTokenTTL is the lifetime of refresh tokens and of cached sessions
func (s *JWTService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenExp
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	token := strings.TrimSpace(authHeader)
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = strings.TrimSpace(after)
	} else if token == "Bearer" {
		token = ""
	}
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
