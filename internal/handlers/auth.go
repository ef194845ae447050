package handlers

import (
	"errors"
	"net/http"

	"go-blog-api/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.SignUpInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	if input.Email == "" || input.Username == "" || input.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, username, and password are required")
	}

	if len(input.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	result, err := h.authService.SignUp(ctx, input)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, t(c, "auth.email_exists"))
		}
		if errors.Is(err, services.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, t(c, "auth.username_exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.SignInInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	if input.Email == "" || input.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result, err := h.authService.SignIn(ctx, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, t(c, "auth.invalid_credentials"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, result)
}
