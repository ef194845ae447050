package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() *AuthService {
	return NewAuthService("test-secret", 60*time.Minute)
}

func TestSignUpAndSignIn(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	signin, err := svc.SignIn(ctx, SignInInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signin.AccessToken)
	assert.Equal(t, resp.User.ID, signin.User.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "bob@example.com", Username: "bob", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "bob@example.com", Username: "bob2", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpDuplicateUsername(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "carol@example.com", Username: "carol", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "carol2@example.com", Username: "carol", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "dave@example.com", Username: "dave", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, SignInInput{Email: "dave@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()

	_, err := svc.SignIn(context.Background(), SignInInput{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpStoresHashNotPassword(t *testing.T) {
	setupTestDB(t)
	svc := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpInput{Email: "eve@example.com", Username: "eve", Password: "secret123"})
	require.NoError(t, err)

	users := NewUserService()
	user, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}
