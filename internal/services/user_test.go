package services

import (
	"context"
	"testing"

	"go-blog-api/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUpdateUserPartialFields(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	ctx := context.Background()

	user := createUser(t, "frank")
	require.NoError(t, database.DB.Model(user).Update("bio", "original bio").Error)

	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{
		Avatar: strPtr("https://example.com/frank.png"),
	})
	require.NoError(t, err)

	// Fields left nil stay untouched.
	assert.Equal(t, "original bio", updated.Bio)
	assert.Equal(t, "https://example.com/frank.png", updated.Avatar)
	assert.Equal(t, "frank", updated.Username)
}

func TestUpdateUserClearsFieldWithEmptyString(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	ctx := context.Background()

	user := createUser(t, "grace")
	_, err := svc.Update(ctx, user.ID, UpdateUserInput{Bio: strPtr("temporary bio")})
	require.NoError(t, err)

	// A pointer to the empty string clears the column; nil would have left it.
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{Bio: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)
}

func TestUpdateUserPasswordIsRehashed(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	ctx := context.Background()

	user := createUser(t, "heidi")
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{Password: strPtr("newpassword")})
	require.NoError(t, err)

	assert.NotEqual(t, "newpassword", updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpassword")))
}

func TestUpdateUsernameConflict(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	ctx := context.Background()

	createUser(t, "ivan")
	user := createUser(t, "judy")

	_, err := svc.Update(ctx, user.ID, UpdateUserInput{Username: strPtr("ivan")})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateUserNotFound(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()

	_, err := svc.Update(context.Background(), 9999, UpdateUserInput{Bio: strPtr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByUsername(t *testing.T) {
	setupTestDB(t)
	svc := NewUserService()
	ctx := context.Background()

	created := createUser(t, "karl")

	user, err := svc.GetByUsername(ctx, "karl")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
