package services

import (
	"context"
	"errors"
	"time"

	"go-blog-api/internal/database"
	"go-blog-api/internal/logging"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	tracer              = otel.Tracer("go-blog-api")
	meter               = otel.Meter("go-blog-api")
	registrationCounter metric.Int64Counter
	loginCounter        metric.Int64Counter
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	jwtSecret    string
	jwtExpiresIn time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiresIn time.Duration) *AuthService {
	var err error
	registrationCounter, err = meter.Int64Counter(
		"auth.registration.total",
		metric.WithDescription("Total number of user registrations"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create registration counter")
	}

	loginCounter, err = meter.Int64Counter(
		"auth.login.attempts",
		metric.WithDescription("Total number of login attempts"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create login counter")
	}

	return &AuthService{
		jwtSecret:    jwtSecret,
		jwtExpiresIn: jwtExpiresIn,
	}
}

type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        models.UserResponse `json:"user"`
	AccessToken string              `json:"access_token"`
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.signup")
	defer span.End()

	span.SetAttributes(attribute.String("user.email", input.Email))

	var existing models.User
	if err := database.DB.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := database.DB.WithContext(ctx).Where("username = ?", input.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
	}

	if err := database.DB.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent signup can slip past the pre-checks; the unique index
		// is the correctness boundary either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if registrationCounter != nil {
		registrationCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("success", true),
		))
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))

	logging.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
	}, nil
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "auth.signin")
	defer span.End()

	span.SetAttributes(attribute.String("user.email", input.Email))

	if loginCounter != nil {
		loginCounter.Add(ctx, 1)
	}

	var user models.User
	if err := database.DB.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("login.success", false))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		span.SetAttributes(attribute.Bool("login.success", false))
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("user.id", int64(user.ID)),
		attribute.Bool("login.success", true),
	)

	logging.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("user logged in")

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
	}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := middleware.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
