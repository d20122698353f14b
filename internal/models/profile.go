package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile is the public-facing social presence of a user. The unique
// index on CreatedByID enforces one profile per user at the storage layer.
type UserProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Bio         string         `gorm:"type:text" json:"bio"`
	Image       string         `json:"image"`
	CreatedByID uint           `gorm:"not null;uniqueIndex" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy User   `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"created_by"`
	Posts     []Post `gorm:"foreignKey:ProfileID" json:"posts,omitempty"`

	// Derived relation cardinalities; computed at query time, not
	// persisted. Always serialized so a zero count reads as 0.
	FollowersCount  int `gorm:"-" json:"followers_count"`
	FollowingsCount int `gorm:"-" json:"followings_count"`
	PostsCount      int `gorm:"-" json:"posts_count"`
}

// UserProfileFollow is a directed edge: CreatedBy observes Following's
// content. The pair is unique; self-edges are rejected in the service layer.
type UserProfileFollow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedByID uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"created_by_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follower_following" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	CreatedBy User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}
