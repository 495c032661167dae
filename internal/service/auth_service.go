package service

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// AuthService handles identifier sign-in and the current user's profile.
type AuthService struct {
	store storage.Store
	jwt   *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(store storage.Store, jwt *auth.JWTManager) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// Login resolves the identifier to a user, creating an account on first
// use, and returns a session token.
func (s *AuthService) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier required"})
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if err := auth.ValidateIdentifier(identifier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := findOrCreateUser(c.Request.Context(), s.store, identifier)
	if err != nil {
		slog.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
		return
	}

	slog.Info("User signed in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := s.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		slog.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile changes the authenticated user's display name.
func (s *AuthService) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	ctx := c.Request.Context()
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	slog.Info("Profile updated", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
