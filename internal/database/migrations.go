package database

import (
	"go-blog-api/internal/models"
)

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Favorite{},
		&models.Comment{},
		&models.Follow{},
	)
}
