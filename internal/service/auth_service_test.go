package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geraldo-Morris/tvriapp/internal/config"
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

func newAuthFixture(users *fakeUserRepo) *AuthService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 30
	cfg.Auth.BcryptCost = 4
	return NewAuthService(cfg, users)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthFixture(users)
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Dina", "dina@example.com", "s3cret", domain.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleEmployee, claims.Role)

	loggedIn, token, _, err := svc.Login(ctx, "dina@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newAuthFixture(newFakeUserRepo())

	_, _, _, err := svc.Register(context.Background(), "X", "x@example.com", "pw", "manager")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthFixture(users)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Dina", "dina@example.com", "pw", domain.RoleEmployee)
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Other", "dina@example.com", "pw2", domain.RoleOperator)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestLoginInvalidCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthFixture(users)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Dina", "dina@example.com", "s3cret", domain.RoleEmployee)
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "dina@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthFixture(users)
	ctx := context.Background()

	user, _, _, err := svc.Register(ctx, "Dina", "dina@example.com", "old-pass", domain.RoleEmployee)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "new-pass")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-pass", "new-pass"))

	_, _, _, err = svc.Login(ctx, "dina@example.com", "old-pass")
	require.Error(t, err)
	_, _, _, err = svc.Login(ctx, "dina@example.com", "new-pass")
	assert.NoError(t, err)
}

func TestLogoutIsStateless(t *testing.T) {
	svc := newAuthFixture(newFakeUserRepo())
	assert.NoError(t, svc.Logout(context.Background(), "any-token"))
}
