package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyplanner/api/model"
	"github.com/studyplanner/api/utils/auth"
	"github.com/studyplanner/api/utils/middleware"
	"github.com/studyplanner/api/utils/response"
	"github.com/studyplanner/api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler issues and revokes the bearer tokens that scope every planner
// request to a user id.
type AuthHandler struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	blacklist  *auth.BlacklistService
	bruteForce *middleware.BruteForceProtection
	validator  *validation.Validator
}

// NewAuthHandler creates a new auth handler. bruteForce may be nil when
// Redis is unavailable.
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager, bruteForce *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:         db,
		jwtManager: jwtManager,
		blacklist:  auth.NewBlacklistService(db),
		bruteForce: bruteForce,
		validator:  validation.NewValidator(),
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) issueTokens(c *fiber.Ctx, user *model.User, message string, status int) error {
	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		log.Println("Error generating access token:", err)
		return response.InternalServerError(c, "")
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		log.Println("Error generating refresh token:", err)
		return response.InternalServerError(c, "")
	}

	return c.Status(status).JSON(fiber.Map{
		"message":      message,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationError(err))
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)

	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "An account with this email already exists.")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := h.db.Create(&user).Error; err != nil {
		log.Println("Error creating user:", err)
		return response.InternalServerError(c, "")
	}

	return h.issueTokens(c, &user, "Account created successfully", fiber.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationError(err))
	}

	var user model.User
	if err := h.db.Where("email = ?", validation.SanitizeString(req.Email)).First(&user).Error; err != nil {
		if h.bruteForce != nil {
			h.bruteForce.RecordFailedAttempt(c, c.IP())
		}
		// Same message for unknown email and wrong password
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForce != nil {
			h.bruteForce.RecordFailedAttempt(c, c.IP())
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	if h.bruteForce != nil {
		h.bruteForce.ClearAttempts(c, c.IP())
	}

	return h.issueTokens(c, &user, "Logged in successfully", fiber.StatusOK)
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, validation.FormatValidationError(err))
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return response.Forbidden(c, "Invalid refresh token")
	}

	revoked, err := h.blacklist.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if revoked {
		return response.Forbidden(c, "Refresh token has been revoked")
	}

	var user model.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return response.Forbidden(c, "Invalid refresh token")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Forbidden(c, "Refresh token has been invalidated")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		log.Println("Error generating access token:", err)
		return response.InternalServerError(c, "")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "Token refreshed",
		"accessToken": accessToken,
	})
}

// Logout handles POST /auth/logout (protected): blacklists the presented JTI
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.blacklist.RevokeToken(c.Context(), claims.ID, claims.UserID, expiresAt, "logout"); err != nil {
		log.Println("Error revoking token:", err)
		return response.InternalServerError(c, "")
	}

	return response.Message(c, "Logged out successfully")
}

// GetProfile handles GET /auth/me (protected)
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		log.Println("Error loading profile:", err)
		return response.InternalServerError(c, "")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}
