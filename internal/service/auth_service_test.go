package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

type fakeAdminStore struct {
	byEmail map[string]*models.AdminUser
	taken   bool
	created []*models.AdminUser
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdminStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdminStore) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	return f.taken, nil
}

func (f *fakeAdminStore) Create(ctx context.Context, u *models.AdminUser) error {
	f.created = append(f.created, u)
	return nil
}

func TestRegisterPasswordMismatch(t *testing.T) {
	store := &fakeAdminStore{}
	svc := service.NewAuthService(store)

	_, err := svc.Register(context.Background(), &service.RegisterRequest{
		Username:        "admin",
		Email:           "admin@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Equal(t, "Passwords do not match", utils.MessageOf(err))
	assert.Empty(t, store.created)
}

func TestRegisterDuplicateAccount(t *testing.T) {
	store := &fakeAdminStore{taken: true}
	svc := service.NewAuthService(store)

	_, err := svc.Register(context.Background(), &service.RegisterRequest{
		Username:        "admin",
		Email:           "admin@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Empty(t, store.created)
}

func TestRegisterIssuesToken(t *testing.T) {
	require.NoError(t, utils.InitJWT("register-test-secret"))

	store := &fakeAdminStore{}
	svc := service.NewAuthService(store)

	res, err := svc.Register(context.Background(), &service.RegisterRequest{
		Username:        "admin",
		Email:           "admin@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	require.Len(t, store.created, 1)
	assert.NotEqual(t, "secret1", store.created[0].PasswordHash)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.AdminUser{ID: uuid.New(), Username: "admin", Email: "admin@example.com", PasswordHash: string(hash)}
	svc := service.NewAuthService(&fakeAdminStore{byEmail: map[string]*models.AdminUser{admin.Email: admin}})

	_, wrongPassword := svc.Login(context.Background(), &service.LoginRequest{Email: admin.Email, Password: "nope"})
	_, unknownEmail := svc.Login(context.Background(), &service.LoginRequest{Email: "ghost@example.com", Password: "nope"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, utils.KindAuth, utils.KindOf(wrongPassword))
	assert.Equal(t, utils.MessageOf(wrongPassword), utils.MessageOf(unknownEmail))
}
