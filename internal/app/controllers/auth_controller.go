package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// CookieConfig controls the token cookies
type CookieConfig struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthService
	cookies     CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, cookies CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

func (c *AuthController) setTokenCookies(ctx *gin.Context, pair *dto.TokenPair) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(c.cookies.AccessTTL.Seconds()), "/", c.cookies.Domain, c.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(c.cookies.RefreshTTL.Seconds()), "/", c.cookies.Domain, c.cookies.Secure, true)
}

func (c *AuthController) clearTokenCookies(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, "", -1, "/", c.cookies.Domain, c.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", c.cookies.Domain, c.cookies.Secure, true)
}

// sendToken sets both cookies and answers with the user and the tokens
func (c *AuthController) sendToken(ctx *gin.Context, status int, message string, user *models.User, pair *dto.TokenPair) {
	c.setTokenCookies(ctx, pair)
	ctx.JSON(status, dto.TokenResponse{
		Success:      true,
		Message:      message,
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ActivateUser verifies the emailed activation code
// @Summary Activate an account
// @Tags auth
// @Param request body dto.ActivationRequest true "Activation token and code"
// @Success 200 {object} dto.MessageResponse
// @Router /activate-user [post]
func (c *AuthController) ActivateUser(ctx *gin.Context) {
	var req dto.ActivationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Activate(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account activated successfully"))
}

// Login handles user login
// @Summary User login
// @Tags auth
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	// GET /login carries no body; the service reports the missing fields
	if ctx.Request.ContentLength != 0 {
		if !bindJSON(ctx, &req) {
			return
		}
	}

	user, pair, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	c.sendToken(ctx, http.StatusOK, "Login successful", user, pair)
}

// Logout clears the token cookies and drops the session
// @Summary Logout
// @Tags auth
// @Success 200 {object} dto.MessageResponse
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.authService.Logout(ctx.Request.Context(), middleware.AccessToken(ctx))
	c.clearTokenCookies(ctx)
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out successfully"))
}

// refreshToken reads the refresh token from its cookie, the Authorization header or the body
func refreshToken(ctx *gin.Context) string {
	if token, err := ctx.Cookie(middleware.RefreshTokenCookie); err == nil && token != "" {
		return token
	}
	if token, err := auth.ExtractBearerToken(ctx.GetHeader("Authorization")); err == nil {
		return token
	}
	if ctx.Request.ContentLength != 0 {
		var body dto.RefreshTokenRequest
		if err := ctx.ShouldBindJSON(&body); err == nil {
			return body.RefreshToken
		}
	}
	return ""
}

// RefreshToken reissues both tokens
// @Summary Refresh tokens
// @Tags auth
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	user, pair, err := c.authService.Refresh(ctx.Request.Context(), refreshToken(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.sendToken(ctx, http.StatusOK, "Access token updated successfully", user, pair)
}

// SocialAuth signs in (or signs up) a user authenticated by an OAuth provider
// @Summary Social sign-in
// @Tags auth
// @Param request body dto.SocialAuthRequest true "Provider profile"
// @Success 200 {object} dto.TokenResponse
// @Success 201 {object} dto.TokenResponse
// @Router /social-auth [post]
func (c *AuthController) SocialAuth(ctx *gin.Context) {
	var req dto.SocialAuthRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, pair, created, err := c.authService.SocialAuth(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if created {
		c.sendToken(ctx, http.StatusCreated, "User created successfully", user, pair)
		return
	}
	c.sendToken(ctx, http.StatusOK, "User logged in successfully", user, pair)
}
