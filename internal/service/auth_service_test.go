package service

import (
	"testing"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/config"
	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/Ravishyamsingh/Quiz-System/internal/store"
	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Record{}))
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	return NewAuthService(store.NewGormStore(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(RegisterRequest{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	// Emails are normalized to lowercase; the hash never leaves the service.
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, model.Learner, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash)

	login, err := svc.Login(LoginRequest{Email: "ADA@example.COM", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{Name: "Imposter", Email: "ada@example.com", Password: "different pw"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterInstructorRole(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(RegisterRequest{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "super secret",
		Role:     "instructor",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, resp.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Register(RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{Email: "ada@example.com", Password: "wrong horse"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
