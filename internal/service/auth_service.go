package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/auth"
	"github.com/xpense/xpense/internal/middleware"
	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// AuthService handles signup, login and user lookups.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

type signupRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	FullName     string `json:"full_name" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ProfileImage string `json:"profile_image"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Signup creates a new user account and returns an access token.
func (s *AuthService) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		ProfileImage: req.ProfileImage,
	}

	user, err := s.authenticator.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		s.logger.Warn("Signup failed", "username", req.Username, "error", err)
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, auth.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := s.jwtManager.Generate(user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", "username", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	s.logger.Info("User registered", "username", user.Username)
	c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Token authenticates a user and returns an access token.
func (s *AuthService) Token(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.authenticator.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := s.jwtManager.Generate(user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", "username", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	s.logger.Info("User logged in", "username", user.Username)
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// CurrentUser returns the authenticated user's account.
func (s *AuthService) CurrentUser(c *gin.Context) {
	username := middleware.Username(c)

	user, err := s.store.GetUser(c.Request.Context(), username)
	if err != nil {
		// Token was valid but the account is gone.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers returns all registered users.
func (s *AuthService) ListUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
