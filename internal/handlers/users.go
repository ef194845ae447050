package handlers

import (
	"errors"
	"net/http"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/services"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService    *services.UserService
	profileService *services.ProfileService
}

func NewUserHandler(userService *services.UserService, profileService *services.ProfileService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "users.user_not_found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user.ToResponse(),
	})
}

func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	var input services.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	user, err := h.userService.Update(ctx, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "users.user_not_found"))
		}
		if errors.Is(err, services.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, t(c, "users.username_exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user.ToResponse(),
	})
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	var viewerID *uint
	if id, ok := middleware.GetUserID(c); ok {
		viewerID = &id
	}

	profile, err := h.profileService.GetProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "users.user_not_found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": profile,
	})
}

func (h *UserHandler) Follow(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	profile, err := h.profileService.Follow(ctx, userID, username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "users.user_not_found"))
		}
		if errors.Is(err, services.ErrSelfFollow) {
			return echo.NewHTTPError(http.StatusBadRequest, t(c, "profiles.self_follow"))
		}
		if errors.Is(err, services.ErrAlreadyFollowing) {
			return echo.NewHTTPError(http.StatusConflict, t(c, "profiles.already_following"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": profile,
	})
}

func (h *UserHandler) Unfollow(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.Param("username")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	profile, err := h.profileService.Unfollow(ctx, userID, username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "users.user_not_found"))
		}
		if errors.Is(err, services.ErrNotFollowing) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "profiles.not_following"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": profile,
	})
}
