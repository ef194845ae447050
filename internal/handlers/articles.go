package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-blog-api/internal/jobs"
	"go-blog-api/internal/middleware"
	"go-blog-api/internal/services"

	"github.com/labstack/echo/v4"
)

type ArticleHandler struct {
	articleService *services.ArticleService
	jobClient      *jobs.Client
}

func NewArticleHandler(articleService *services.ArticleService, jobClient *jobs.Client) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		jobClient:      jobClient,
	}
}

func pagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func viewerID(c echo.Context) *uint {
	if id, ok := middleware.GetUserID(c); ok {
		return &id
	}
	return nil
}

func (h *ArticleHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit := pagination(c)

	result, err := h.articleService.ListPublished(ctx, viewerID(c), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, result)
}

// ListMine is the author's dashboard: drafts included.
func (h *ArticleHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	page, limit := pagination(c)
	result, err := h.articleService.ListByAuthor(ctx, userID, &userID, page, limit, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, result)
}

// ListByUser is the public view of another user's published work.
func (h *ArticleHandler) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()

	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	page, limit := pagination(c)
	result, err := h.articleService.ListByAuthor(ctx, uint(authorID), viewerID(c), page, limit, false)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	article, err := h.articleService.GetBySlug(ctx, slug, viewerID(c))
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	favorited := false
	if userID, ok := middleware.GetUserID(c); ok {
		favorited = h.articleService.IsFavorited(ctx, article.ID, userID)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"article": article.ToResponse(favorited),
	})
}

func (h *ArticleHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	var input services.CreateArticleInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	if input.Title == "" || input.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and content are required")
	}

	article, err := h.articleService.Create(ctx, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			return echo.NewHTTPError(http.StatusConflict, t(c, "articles.article_title_exists"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"article": article.ToResponse(false),
	})
}

func (h *ArticleHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	var input services.UpdateArticleInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	article, err := h.articleService.Update(ctx, slug, userID, input)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		if errors.Is(err, services.ErrNotAuthor) {
			return echo.NewHTTPError(http.StatusForbidden, t(c, "articles.not_author"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	favorited := h.articleService.IsFavorited(ctx, article.ID, userID)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"article": article.ToResponse(favorited),
	})
}

func (h *ArticleHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	err := h.articleService.Delete(ctx, slug, userID)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		if errors.Is(err, services.ErrNotAuthor) {
			return echo.NewHTTPError(http.StatusForbidden, t(c, "articles.not_author"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.NoContent(http.StatusNoContent)
}

type publishArticlesInput struct {
	Slugs []string `json:"slugs" validate:"required,min=1"`
}

func (h *ArticleHandler) Publish(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	var input publishArticlesInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, t(c, "common.invalid_request"))
	}

	if len(input.Slugs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "slugs must not be empty")
	}

	published, err := h.articleService.PublishMany(ctx, input.Slugs, userID)
	if err != nil {
		if errors.Is(err, services.ErrNothingToPublish) {
			return echo.NewHTTPError(http.StatusBadRequest, t(c, "articles.nothing_to_publish"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	if h.jobClient != nil {
		for _, article := range published {
			h.jobClient.EnqueuePublishedNotification(ctx, article.ID, article.Title)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(published),
	})
}

func (h *ArticleHandler) Favorite(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	article, err := h.articleService.Favorite(ctx, slug, userID)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		if errors.Is(err, services.ErrAlreadyFavorited) {
			return echo.NewHTTPError(http.StatusBadRequest, t(c, "articles.already_favorited"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"article": article.ToResponse(true),
	})
}

func (h *ArticleHandler) Unfavorite(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, t(c, "common.unauthorized"))
	}

	article, err := h.articleService.Unfavorite(ctx, slug, userID)
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, t(c, "articles.article_not_found"))
		}
		if errors.Is(err, services.ErrNotFavorited) {
			return echo.NewHTTPError(http.StatusBadRequest, t(c, "articles.not_favorited"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, t(c, "common.internal_error"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"article": article.ToResponse(false),
	})
}
