package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/models"
	"go-blog-api/internal/services"

	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	comments, err := h.commentService.List(ctx, slug, viewerID(c))
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	responses := make([]models.CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = comment.ToResponse()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"comments": responses,
	})
}

func (h *CommentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	var input services.CreateCommentInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	if input.Body == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body is required")
	}

	comment, err := h.commentService.Create(ctx, slug, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"comment": comment.ToResponse(),
	})
}

func (h *CommentHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	err = h.commentService.Delete(ctx, slug, uint(commentID), userID)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		if errors.Is(err, services.ErrCommentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "comments.comment_not_found"))
		}
		if errors.Is(err, services.ErrNotCommentAuthor) {
			return echo.NewHTTPError(http.StatusBadRequest, t(c, "comments.not_comment_author"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.NoContent(http.StatusNoContent)
}
