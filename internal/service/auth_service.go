package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/utils"
)

// AdminStore is the admin account persistence surface the service drives.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, u *models.AdminUser) error
}

// AuthService handles admin registration, login and identity lookups.
type AuthService struct {
	admins AdminStore
}

// NewAuthService constructs an AuthService.
func NewAuthService(admins AdminStore) *AuthService {
	return &AuthService{admins: admins}
}

// RegisterRequest creates a new admin account.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest authenticates an admin.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the issued token and the authenticated admin.
type AuthResponse struct {
	Token string            `json:"token"`
	Admin *models.AdminUser `json:"admin"`
}

// Register creates an admin account and issues a session token.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, utils.Validation("Passwords do not match")
	}

	taken, err := s.admins.UsernameOrEmailExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to register")
	}
	if taken {
		return nil, utils.Validation("Username or email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to register")
	}

	admin := &models.AdminUser{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, utils.Unknown(err, "Failed to register")
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Admin: admin}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Auth("Invalid email or password")
		}
		return nil, utils.Unknown(err, "Failed to login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.Auth("Invalid email or password")
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, Admin: admin}, nil
}

// Me returns the admin behind a verified token identity.
func (s *AuthService) Me(ctx context.Context, adminID uuid.UUID) (*models.AdminUser, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Auth("Account no longer exists")
		}
		return nil, utils.Unknown(err, "Failed to load account")
	}
	return admin, nil
}
