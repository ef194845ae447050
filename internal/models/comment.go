package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	ArticleID uint      `gorm:"not null;index" json:"article_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author  User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}

type CommentResponse struct {
	ID        uint            `json:"id"`
	Body      string          `json:"body"`
	Author    ProfileResponse `json:"author"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Body:      c.Body,
		Author:    c.Author.ToProfile(false),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
