package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/validator"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, user.UserRepository) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	userRepo := sqlite.NewUserRepository(store)
	return NewAuthService(userRepo, jwt.NewJWTService(testSecret, testAccessExp)), userRepo
}

func createAuthTestUser(t *testing.T, ctx context.Context, repo user.UserRepository, email, password string, role user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := repo.Create(ctx, user.User{Email: email, PasswordHash: string(hash), Role: role})
	require.NoError(t, err)
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestAuthService(t)
	createAuthTestUser(t, ctx, repo, "dispatch@example.com", "password123", user.RoleDispatcher)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "  Dispatch@Example.com ", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Equal(t, "dispatcher", resp.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestAuthService(t)
	createAuthTestUser(t, ctx, repo, "dispatch@example.com", "password123", user.RoleDispatcher)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "dispatch@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_ValidationError(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin@Example.com", "s3cret"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "ignored"))

	admin, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
}

func TestAuthService_EnsureAdmin_NoCredentials(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))

	_, err := repo.GetByEmail(ctx, "")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
