package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mystickies/store-api/internal/handler"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	loginErr error
}

func (f *fakeAuthService) Register(ctx context.Context, req *service.RegisterRequest) (*service.AuthResponse, error) {
	return &service.AuthResponse{Token: "t"}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req *service.LoginRequest) (*service.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &service.AuthResponse{Token: "t", Admin: &models.AdminUser{Username: "admin"}}, nil
}

func (f *fakeAuthService) Me(ctx context.Context, adminID uuid.UUID) (*models.AdminUser, error) {
	return &models.AdminUser{ID: adminID}, nil
}

func loginRouter(svc handler.AuthService) *gin.Engine {
	r := gin.New()
	h := handler.NewAuthHandler(svc)
	r.POST("/api/auth/login", h.Login)
	return r
}

func postLogin(r *gin.Engine, body string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:51000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginMalformedBodyNotThrottled(t *testing.T) {
	t.Parallel()

	r := loginRouter(&fakeAuthService{})
	for i := 0; i < 8; i++ {
		assert.Equal(t, http.StatusBadRequest, postLogin(r, "{not json"))
	}
}

func TestLoginSuccessNotThrottled(t *testing.T) {
	t.Parallel()

	r := loginRouter(&fakeAuthService{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, postLogin(r, `{"email":"a@b.co","password":"pw"}`))
	}
}

func TestLoginFailedCredentialsThrottled(t *testing.T) {
	t.Parallel()

	r := loginRouter(&fakeAuthService{loginErr: utils.Auth("Invalid email or password")})
	body := `{"email":"a@b.co","password":"wrong"}`
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, postLogin(r, body))
	}
	assert.Equal(t, http.StatusTooManyRequests, postLogin(r, body))
}
