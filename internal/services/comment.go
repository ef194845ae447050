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
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("not the author of this comment")
)

// CommentService owns comment rows scoped to an article and keeps the
// article's denormalized comments_count in lockstep with them. Comments
// inherit the visibility of their parent article.
type CommentService struct {
	articles *ArticleService
}

func NewCommentService(articles *ArticleService) *CommentService {
	return &CommentService{articles: articles}
}

type CreateCommentInput struct {
	Body string `json:"body" validate:"required"`
}

func (s *CommentService) Create(ctx context.Context, articleSlug string, authorID uint, input CreateCommentInput) (*models.Comment, error) {
	ctx, span := tracer.Start(ctx, "comment.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("author.id", int64(authorID)),
	)

	article, err := s.articles.GetBySlug(ctx, articleSlug, &authorID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		Body:      input.Body,
		AuthorID:  authorID,
		ArticleID: article.ID,
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.WithContext(ctx).Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int64("comment.id", int64(comment.ID)))

	logging.Info(ctx).
		Uint("comment_id", comment.ID).
		Uint("article_id", article.ID).
		Uint("author_id", authorID).
		Msg("comment created")

	return &comment, nil
}

func (s *CommentService) List(ctx context.Context, articleSlug string, viewerID *uint) ([]models.Comment, error) {
	ctx, span := tracer.Start(ctx, "comment.list")
	defer span.End()

	span.SetAttributes(attribute.String("article.slug", articleSlug))

	article, err := s.articles.GetBySlug(ctx, articleSlug, viewerID)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := database.DB.WithContext(ctx).
		Preload("Author").
		Where("article_id = ?", article.ID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

func (s *CommentService) Delete(ctx context.Context, articleSlug string, commentID, callerID uint) error {
	ctx, span := tracer.Start(ctx, "comment.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("article.slug", articleSlug),
		attribute.Int64("comment.id", int64(commentID)),
		attribute.Int64("user.id", int64(callerID)),
	)

	article, err := s.articles.GetBySlug(ctx, articleSlug, &callerID)
	if err != nil {
		return err
	}

	var comment models.Comment
	if err := database.DB.WithContext(ctx).
		Where("id = ? AND article_id = ?", commentID, article.ID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != callerID {
		return ErrNotCommentAuthor
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Comment{}, comment.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already gone; leave the counter alone.
			return ErrCommentNotFound
		}

		return tx.Model(&models.Article{}).
			Where("id = ?", article.ID).
			Update("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	if err != nil {
		return err
	}

	logging.Info(ctx).
		Uint("comment_id", comment.ID).
		Uint("article_id", article.ID).
		Msg("comment deleted")

	return nil
}
