// Package handlers contains HTTP request handlers for the content service.
package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/contenthub/content-service/internal/middleware"
	"github.com/contenthub/content-service/internal/models"
	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// loginDatetimeLayout matches the audit trail's wire format: ISO-8601 UTC
// with microsecond precision.
const loginDatetimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// AuthHandler handles registration, token issuance and account endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request payload.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Login godoc
// @Summary Obtain token pair
// @Description Authenticate user, return access and refresh tokens and record a login history entry
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /token/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			RespondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "login failed")
		return
	}

	// Audit is best-effort: a failed history write must not fail the login.
	err = h.authService.RecordLogin(c.Request.Context(), pair.Access, clientIP(c), c.Request.UserAgent())
	if err != nil {
		h.logger.Warn("failed to record login history",
			zap.String("username", req.Username),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh token pair
// @Description Exchange a refresh token for a new access/refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} service.TokenPair
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /token/refresh/ [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) || errors.Is(err, service.ErrTokenInvalid) {
			RespondError(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "token refresh failed")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Register godoc
// @Summary Register account
// @Description Create a new user; password and password2 must match
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration fields"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Router /register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Password != req.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"password": "password fields didn't match"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetProfile godoc
// @Summary Get own account fields
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string
// @Router /profile/ [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not found")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfileRequest is a partial update of the caller's account fields.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
	Password2 *string `json:"password2"`
}

// UpdateProfile godoc
// @Summary Update own account fields
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /profile/ [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Password != nil {
		if req.Password2 == nil || *req.Password != *req.Password2 {
			c.JSON(http.StatusBadRequest, gin.H{"password": "password fields didn't match"})
			return
		}
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), middleware.UserID(c), service.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not found")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// LoginHistoryEntry is the wire form of a login history record.
type LoginHistoryEntry struct {
	ID            int64  `json:"id"`
	LoginDatetime string `json:"login_datetime"`
	IPAddress     string `json:"ip_address"`
	UserAgent     string `json:"user_agent"`
}

// LoginHistory godoc
// @Summary Get own login history
// @Description Returns the caller's login history, newest first
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {array} LoginHistoryEntry
// @Failure 401 {object} map[string]string
// @Router /login-history/ [get]
func (h *AuthHandler) LoginHistory(c *gin.Context) {
	entries, err := h.authService.LoginHistory(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to load login history")
		return
	}

	out := make([]LoginHistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LoginHistoryEntry{
			ID:            e.ID,
			LoginDatetime: e.LoginDatetime.UTC().Format(loginDatetimeLayout),
			IPAddress:     e.IPAddress,
			UserAgent:     e.UserAgent,
		})
	}
	c.JSON(http.StatusOK, out)
}

// clientIP prefers the first X-Forwarded-For entry and falls back to the
// direct connection address.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
