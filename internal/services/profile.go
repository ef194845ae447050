package services

import (
	"context"
	"errors"

	"go-blog-api/internal/database"
	"go-blog-api/internal/logging"
	"go-blog-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

// ProfileService maintains the directed follower -> following graph and the
// public profile view derived from it.
type ProfileService struct {
	users *UserService
}

func NewProfileService(users *UserService) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) GetProfile(ctx context.Context, username string, viewerID *uint) (*models.ProfileResponse, error) {
	ctx, span := tracer.Start(ctx, "profile.get")
	defer span.End()

	span.SetAttributes(attribute.String("profile.username", username))

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.isFollowing(ctx, *viewerID, target.ID)
		if err != nil {
			return nil, err
		}
	}

	profile := target.ToProfile(following)
	return &profile, nil
}

func (s *ProfileService) Follow(ctx context.Context, followerID uint, targetUsername string) (*models.ProfileResponse, error) {
	ctx, span := tracer.Start(ctx, "profile.follow")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("follower.id", int64(followerID)),
		attribute.String("target.username", targetUsername),
	)

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	// Pre-check for a friendlier error; the composite unique index on
	// (follower_id, following_id) is what actually prevents duplicate edges.
	following, err := s.isFollowing(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, ErrAlreadyFollowing
	}

	edge := models.Follow{FollowerID: followerID, FollowingID: target.ID}
	if err := database.DB.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	logging.Info(ctx).
		Uint("follower_id", followerID).
		Uint("following_id", target.ID).
		Msg("user followed")

	profile := target.ToProfile(true)
	return &profile, nil
}

func (s *ProfileService) Unfollow(ctx context.Context, followerID uint, targetUsername string) (*models.ProfileResponse, error) {
	ctx, span := tracer.Start(ctx, "profile.unfollow")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("follower.id", int64(followerID)),
		attribute.String("target.username", targetUsername),
	)

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	result := database.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, target.ID).
		Delete(&models.Follow{})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFollowing
	}

	logging.Info(ctx).
		Uint("follower_id", followerID).
		Uint("following_id", target.ID).
		Msg("user unfollowed")

	profile := target.ToProfile(false)
	return &profile, nil
}

func (s *ProfileService) isFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}
