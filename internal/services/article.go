package services

import (
	"context"
	"errors"

	"go-blog-api/internal/database"
	"go-blog-api/internal/logging"
	"go-blog-api/internal/models"
	"go-blog-api/internal/slug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrNotAuthor        = errors.New("not the author of this article")
	ErrSlugTaken        = errors.New("article title already taken")
	ErrAlreadyFavorited = errors.New("article already favorited")
	ErrNotFavorited     = errors.New("article not favorited")
	ErrNothingToPublish = errors.New("no articles to publish")
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	articlesCreatedCounter   metric.Int64Counter
	articlesPublishedCounter metric.Int64Counter
)

type ArticleService struct{}

func NewArticleService() *ArticleService {
	var err error
	articlesCreatedCounter, err = meter.Int64Counter(
		"articles.created",
		metric.WithDescription("Total number of articles created"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create articles created counter")
	}

	articlesPublishedCounter, err = meter.Int64Counter(
		"articles.published",
		metric.WithDescription("Total number of articles published"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create articles published counter")
	}

	return &ArticleService{}
}

type CreateArticleInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Content     string `json:"content" validate:"required"`
}

// UpdateArticleInput carries partial-field semantics: nil leaves a field
// unchanged. The slug is derived once at creation and never recomputed here,
// even when the title changes.
type UpdateArticleInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

func (s *ArticleService) Create(ctx context.Context, authorID uint, input CreateArticleInput) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("author.id", int64(authorID)),
		attribute.String("article.title", input.Title),
	)

	articleSlug := slug.Make(input.Title)

	var existing models.Article
	if err := database.DB.WithContext(ctx).Where("slug = ?", articleSlug).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	article := models.Article{
		Slug:        articleSlug,
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		AuthorID:    authorID,
	}

	if err := database.DB.WithContext(ctx).Create(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	if err := database.DB.WithContext(ctx).Preload("Author").First(&article, article.ID).Error; err != nil {
		return nil, err
	}

	if articlesCreatedCounter != nil {
		articlesCreatedCounter.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int64("article.id", int64(article.ID)),
		attribute.String("article.slug", article.Slug),
	)

	logging.Info(ctx).
		Uint("article_id", article.ID).
		Str("slug", article.Slug).
		Uint("author_id", authorID).
		Msg("article created")

	return &article, nil
}

// GetBySlug applies the visibility rule: an unpublished article exists only
// for its author. Everyone else gets ErrArticleNotFound, never a Forbidden
// that would leak the article's existence.
func (s *ArticleService) GetBySlug(ctx context.Context, articleSlug string, viewerID *uint) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.get_by_slug")
	defer span.End()

	span.SetAttributes(attribute.String("article.slug", articleSlug))

	var article models.Article
	if err := database.DB.WithContext(ctx).Preload("Author").Where("slug = ?", articleSlug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if !article.Published && (viewerID == nil || *viewerID != article.AuthorID) {
		return nil, ErrArticleNotFound
	}

	return &article, nil
}

// authorize is the ownership guard in front of every article mutation: fetch
// fresh, NotFound if absent, NotAuthor if the caller does not own it.
func (s *ArticleService) authorize(ctx context.Context, articleSlug string, callerID uint) (*models.Article, error) {
	var article models.Article
	if err := database.DB.WithContext(ctx).Where("slug = ?", articleSlug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if article.AuthorID != callerID {
		return nil, ErrNotAuthor
	}

	return &article, nil
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func buildMeta(total int64, page, limit int) models.PaginationMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.PaginationMeta{
		TotalItems:   total,
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		CurrentPage:  page,
	}
}

// ListPublished returns published articles newest-first, annotated with the
// viewer's favorite flags when a viewer is known.
func (s *ArticleService) ListPublished(ctx context.Context, viewerID *uint, page, limit int) (*models.ArticlesResponse, error) {
	ctx, span := tracer.Start(ctx, "article.list_published")
	defer span.End()

	page, limit = normalizePagination(page, limit)

	span.SetAttributes(
		attribute.Int("pagination.page", page),
		attribute.Int("pagination.limit", limit),
	)

	query := database.DB.WithContext(ctx).Model(&models.Article{}).Where("published = ?", true)
	return s.listPage(ctx, query, viewerID, page, limit)
}

// ListByAuthor serves both the public view of a user's published work and,
// with includeUnpublished, the author's own dashboard showing drafts.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID uint, viewerID *uint, page, limit int, includeUnpublished bool) (*models.ArticlesResponse, error) {
	ctx, span := tracer.Start(ctx, "article.list_by_author")
	defer span.End()

	page, limit = normalizePagination(page, limit)

	span.SetAttributes(
		attribute.Int64("author.id", int64(authorID)),
		attribute.Bool("include_unpublished", includeUnpublished),
	)

	query := database.DB.WithContext(ctx).Model(&models.Article{}).Where("author_id = ?", authorID)
	if !includeUnpublished {
		query = query.Where("published = ?", true)
	}

	return s.listPage(ctx, query, viewerID, page, limit)
}

func (s *ArticleService) listPage(ctx context.Context, query *gorm.DB, viewerID *uint, page, limit int) (*models.ArticlesResponse, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	var articles []models.Article
	if err := query.
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	var favoritedMap map[uint]bool
	if viewerID != nil && len(articles) > 0 {
		favoritedMap = make(map[uint]bool)
		articleIDs := make([]uint, len(articles))
		for i, a := range articles {
			articleIDs[i] = a.ID
		}

		var favorites []models.Favorite
		if err := database.DB.WithContext(ctx).
			Where("user_id = ? AND article_id IN ?", *viewerID, articleIDs).
			Find(&favorites).Error; err != nil {
			return nil, err
		}

		for _, f := range favorites {
			favoritedMap[f.ArticleID] = true
		}
	}

	responses := make([]models.ArticleResponse, len(articles))
	for i, article := range articles {
		responses[i] = article.ToResponse(favoritedMap[article.ID])
	}

	return &models.ArticlesResponse{
		Data: responses,
		Meta: buildMeta(total, page, limit),
	}, nil
}

func (s *ArticleService) Update(ctx context.Context, articleSlug string, callerID uint, input UpdateArticleInput) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("user.id", int64(callerID)),
	)

	article, err := s.authorize(ctx, articleSlug, callerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}

	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(article).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := database.DB.WithContext(ctx).Preload("Author").First(article, article.ID).Error; err != nil {
		return nil, err
	}

	logging.Info(ctx).
		Uint("article_id", article.ID).
		Str("slug", article.Slug).
		Msg("article updated")

	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, articleSlug string, callerID uint) error {
	ctx, span := tracer.Start(ctx, "article.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("user.id", int64(callerID)),
	)

	article, err := s.authorize(ctx, articleSlug, callerID)
	if err != nil {
		return err
	}

	// Favorite and comment rows go with the article via FK cascade; no
	// application-level cleanup.
	if err := database.DB.WithContext(ctx).Delete(article).Error; err != nil {
		return err
	}

	logging.Info(ctx).
		Uint("article_id", article.ID).
		Str("slug", articleSlug).
		Msg("article deleted")

	return nil
}

// PublishMany transitions every unpublished article in slugs owned by the
// caller to published, in one transaction. Articles the caller does not own
// or that are already published are silently skipped; zero transitions is an
// error. Returns the articles that transitioned.
func (s *ArticleService) PublishMany(ctx context.Context, slugs []string, callerID uint) ([]models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.publish_many")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", int64(callerID)),
		attribute.Int("slugs.count", len(slugs)),
	)

	var published []models.Article
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("slug IN ?", slugs).
			Where("author_id = ?", callerID).
			Where("published = ?", false).
			Find(&published).Error; err != nil {
			return err
		}

		if len(published) == 0 {
			return ErrNothingToPublish
		}

		ids := make([]uint, len(published))
		for i, a := range published {
			ids[i] = a.ID
			published[i].Published = true
		}

		return tx.Model(&models.Article{}).
			Where("id IN ?", ids).
			Update("published", true).Error
	})
	if err != nil {
		return nil, err
	}

	if articlesPublishedCounter != nil {
		articlesPublishedCounter.Add(ctx, int64(len(published)))
	}

	span.SetAttributes(attribute.Int("published.count", len(published)))

	logging.Info(ctx).
		Int("count", len(published)).
		Uint("author_id", callerID).
		Msg("articles published")

	return published, nil
}

// Favorite inserts the (user, article) edge and increments the denormalized
// counter in one transaction; both writes commit together or neither does.
func (s *ArticleService) Favorite(ctx context.Context, articleSlug string, userID uint) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.favorite")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("user.id", int64(userID)),
	)

	article, err := s.GetBySlug(ctx, articleSlug, &userID)
	if err != nil {
		return nil, err
	}

	if s.IsFavorited(ctx, article.ID, userID) {
		return nil, ErrAlreadyFavorited
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		favorite := models.Favorite{UserID: userID, ArticleID: article.ID}
		if err := tx.Create(&favorite).Error; err != nil {
			// A race past the pre-check lands here; same answer.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyFavorited
			}
			return err
		}

		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			Update("favorite_count", gorm.Expr("favorite_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.WithContext(ctx).Preload("Author").First(article, article.ID).Error; err != nil {
		return nil, err
	}

	logging.Info(ctx).
		Uint("article_id", article.ID).
		Uint("user_id", userID).
		Msg("article favorited")

	return article, nil
}

func (s *ArticleService) Unfavorite(ctx context.Context, articleSlug string, userID uint) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "article.unfavorite")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("user.id", int64(userID)),
	)

	article, err := s.GetBySlug(ctx, articleSlug, &userID)
	if err != nil {
		return nil, err
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFavorited
		}

		// The edge was deleted in this transaction, so the counter is
		// strictly positive here; no flooring needed.
		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			Update("favorite_count", gorm.Expr("favorite_count - 1")).Error
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.WithContext(ctx).Preload("Author").First(article, article.ID).Error; err != nil {
		return nil, err
	}

	logging.Info(ctx).
		Uint("article_id", article.ID).
		Uint("user_id", userID).
		Msg("article unfavorited")

	return article, nil
}

func (s *ArticleService) IsFavorited(ctx context.Context, articleID, userID uint) bool {
	var count int64
	database.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count)
	return count > 0
}
