package models

import (
	"time"
)

type Article struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	Content       string    `gorm:"type:text" json:"content"`
	Published     bool      `gorm:"not null;default:false" json:"published"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	FavoriteCount int       `gorm:"not null;default:0" json:"favorite_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author    User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Favorites []Favorite `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
	Comments  []Comment  `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
}

type ArticleResponse struct {
	ID            uint         `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Content       string       `json:"content"`
	Published     bool         `json:"published"`
	FavoriteCount int          `json:"favorite_count"`
	CommentsCount int          `json:"comments_count"`
	Favorited     bool         `json:"favorited"`
	Author        UserResponse `json:"author"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (a *Article) ToResponse(favorited bool) ArticleResponse {
	return ArticleResponse{
		ID:            a.ID,
		Slug:          a.Slug,
		Title:         a.Title,
		Description:   a.Description,
		Content:       a.Content,
		Published:     a.Published,
		FavoriteCount: a.FavoriteCount,
		CommentsCount: a.CommentsCount,
		Favorited:     favorited,
		Author:        a.Author.ToResponse(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

type ArticlesResponse struct {
	Data []ArticleResponse `json:"data"`
	Meta PaginationMeta    `json:"meta"`
}
