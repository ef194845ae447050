package services

import (
	"fmt"
	"testing"

	"go-blog-api/internal/database"
	"go-blog-api/internal/models"
	"go-blog-api/internal/slug"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level connection at a fresh in-memory
// database. Foreign keys are enabled so ON DELETE CASCADE behaves like the
// production store.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favorite{},
		&models.Comment{},
		&models.Follow{},
	))

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = nil
	})
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func createArticle(t *testing.T, authorID uint, title string, published bool) *models.Article {
	t.Helper()

	article := &models.Article{
		Slug:      slug.Make(title),
		Title:     title,
		Content:   "some content",
		Published: published,
		AuthorID:  authorID,
	}
	require.NoError(t, database.DB.Create(article).Error)
	return article
}

func reloadArticle(t *testing.T, id uint) *models.Article {
	t.Helper()

	var article models.Article
	require.NoError(t, database.DB.First(&article, id).Error)
	return &article
}

func countFavorites(t *testing.T, articleID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.DB.Model(&models.Favorite{}).
		Where("article_id = ?", articleID).
		Count(&count).Error)
	return count
}

func countComments(t *testing.T, articleID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.DB.Model(&models.Comment{}).
		Where("article_id = ?", articleID).
		Count(&count).Error)
	return count
}
