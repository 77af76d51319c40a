package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/middleware"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// AuthService is the slice of the auth service the handler drives.
type AuthService interface {
	Register(ctx context.Context, req *service.RegisterRequest) (*service.AuthResponse, error)
	Login(ctx context.Context, req *service.LoginRequest) (*service.AuthResponse, error)
	Me(ctx context.Context, adminID uuid.UUID) (*models.AdminUser, error)
}

// AuthHandler handles admin authentication endpoints. Failed logins are rate
// limited per client IP; successful logins and malformed requests do not
// consume the budget.
type AuthHandler struct {
	authSvc     AuthService
	rateLimiter *middleware.FailedLoginLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		authSvc:     authSvc,
		rateLimiter: middleware.NewFailedLoginLimiter(),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Registration successful", res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		// Only rejected credentials count against the limiter.
		if utils.KindOf(err) == utils.KindAuth && !h.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many failed attempts, try again later")
			return
		}
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Login successful", res)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, err := uuid.Parse(c.GetString("admin_id"))
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token identity")
		return
	}
	admin, err := h.authSvc.Me(c.Request.Context(), adminID)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Account retrieved", admin)
}
