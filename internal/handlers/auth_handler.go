package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"praxia/internal/audit"
	apperrors "praxia/internal/errors"
	"praxia/internal/middleware"
	"praxia/internal/models"
	"praxia/internal/services"
	"praxia/internal/uuid"
)

// AuthHandler handles authentication-related requests and emits the auth
// lifecycle audit events (login succeeded/failed, logout).
type AuthHandler struct {
	userService services.UserServicer
	auditStore  *audit.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditStore *audit.Store) *AuthHandler {
	return &AuthHandler{userService: userService, auditStore: auditStore}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Role      string `json:"role" binding:"omitempty,user_role"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate email"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleStudent
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sessionID := uuid.New()
	token, err := middleware.GenerateToken(user, sessionID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditStore.LoginSucceeded(user, sessionID, c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: *user})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.auditStore.LoginFailed(req.Email, c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if !user.IsActive || !h.userService.VerifyPassword(user, req.Password) {
		h.auditStore.LoginFailed(req.Email, c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := h.userService.RecordLogin(c.Request.Context(), user); err != nil {
		respondWithError(c, err)
		return
	}

	sessionID := uuid.New()
	token, err := middleware.GenerateToken(user, sessionID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditStore.LoginSucceeded(user, sessionID, c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
}

// Logout records the end of the current session. Tokens are stateless, so
// this exists for the audit trail rather than for session invalidation.
// @Summary     Logout user
// @Description Record the end of the current session
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditStore.Logout(user, c.GetString("sessionID"), c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path)

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// GetProfile returns the authenticated user's profile
// @Summary     Get profile
// @Description Get the authenticated user's profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
