package services

import (
	"context"
	"errors"

	"go-blog-api/internal/database"
	"go-blog-api/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get_by_email")
	defer span.End()

	var user models.User
	if err := database.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get_by_username")
	defer span.End()

	span.SetAttributes(attribute.String("user.username", username))

	var user models.User
	if err := database.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUserInput uses pointer fields so "absent" and "set to empty" stay
// distinguishable: a nil field leaves the column untouched, a pointer to the
// empty string clears it.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

func (s *UserService) Update(ctx context.Context, userID uint, input UpdateUserInput) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	var user models.User
	if err := database.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hashed)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}

	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrUsernameTaken
			}
			return nil, err
		}
	}

	return &user, nil
}
