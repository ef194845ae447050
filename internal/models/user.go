package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Bio          string    `json:"bio,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Articles  []Article  `gorm:"foreignKey:AuthorID" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:UserID" json:"-"`
	Comments  []Comment  `gorm:"foreignKey:AuthorID" json:"-"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileResponse is the public view of a user as seen by another user.
type ProfileResponse struct {
	Username  string `json:"username"`
	Bio       string `json:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Following bool   `json:"following"`
}

func (u *User) ToProfile(following bool) ProfileResponse {
	return ProfileResponse{
		Username:  u.Username,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Following: following,
	}
}
