package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/config"
	"ecothreads/internal/core/domain"
)

func newTestAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  5,
			RefreshTokenDays: 1,
		},
	}
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		cfg,
	), cfg
}

func TestAuthRegisterAndLogin(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "supersecret",
		Phone:    "0810000000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Zero(t, result.User.EcoPoints)

	// Duplicate email
	_, err = auth.Register(ctx, &RegisterInput{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	// Short password
	_, err = auth.Register(ctx, &RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	// Login by email
	login, err := auth.Login(ctx, &LoginInput{Identifier: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	// Login by phone
	login, err = auth.Login(ctx, &LoginInput{Identifier: "0810000000", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	// Wrong password
	_, err = auth.Login(ctx, &LoginInput{Identifier: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by the rotation
	_, err = auth.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// The new one still works
	_, err = auth.Refresh(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestAuthLogoutRevokesToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, registered.RefreshToken))

	_, err = auth.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestAuthLogoutAll(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, &RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	login, err := auth.Login(ctx, &LoginInput{Identifier: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, auth.LogoutAll(ctx, registered.User.ID))

	_, err = auth.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
