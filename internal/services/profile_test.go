package services

import (
	"context"
	"testing"

	"go-blog-api/internal/database"
	"go-blog-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfileService() *ProfileService {
	return NewProfileService(NewUserService())
}

func TestFollowAndGetProfile(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()
	ctx := context.Background()

	follower := createUser(t, "lena")
	createUser(t, "marco")

	profile, err := svc.Follow(ctx, follower.ID, "marco")
	require.NoError(t, err)
	assert.Equal(t, "marco", profile.Username)
	assert.True(t, profile.Following)

	seen, err := svc.GetProfile(ctx, "marco", &follower.ID)
	require.NoError(t, err)
	assert.True(t, seen.Following)

	// A third party sees the same profile without the following flag.
	other := createUser(t, "nina")
	seen, err = svc.GetProfile(ctx, "marco", &other.ID)
	require.NoError(t, err)
	assert.False(t, seen.Following)

	// Anonymous viewers never see a following flag.
	seen, err = svc.GetProfile(ctx, "marco", nil)
	require.NoError(t, err)
	assert.False(t, seen.Following)
}

func TestSelfFollowRejected(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()

	user := createUser(t, "oscar")
	_, err := svc.Follow(context.Background(), user.ID, "oscar")
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestDuplicateFollowKeepsSingleEdge(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()
	ctx := context.Background()

	follower := createUser(t, "pam")
	target := createUser(t, "quinn")

	_, err := svc.Follow(ctx, follower.ID, "quinn")
	require.NoError(t, err)

	_, err = svc.Follow(ctx, follower.ID, "quinn")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	var count int64
	require.NoError(t, database.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUnfollow(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()
	ctx := context.Background()

	follower := createUser(t, "rita")
	createUser(t, "sam")

	_, err := svc.Follow(ctx, follower.ID, "sam")
	require.NoError(t, err)

	profile, err := svc.Unfollow(ctx, follower.ID, "sam")
	require.NoError(t, err)
	assert.False(t, profile.Following)

	seen, err := svc.GetProfile(ctx, "sam", &follower.ID)
	require.NoError(t, err)
	assert.False(t, seen.Following)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()
	ctx := context.Background()

	follower := createUser(t, "tina")
	createUser(t, "ulrich")

	_, err := svc.Unfollow(ctx, follower.ID, "ulrich")
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollowUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc := newTestProfileService()

	follower := createUser(t, "vera")
	_, err := svc.Follow(context.Background(), follower.ID, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
