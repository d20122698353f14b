package models

import (
	"time"

	"gorm.io/gorm"
)

// Post belongs to the owning profile and, redundantly with it, to the
// authoring user. Hidden or future-scheduled posts are only served to
// their owner.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Image         string         `json:"image"`
	ProfileID     uint           `gorm:"not null" json:"profile_id"`
	CreatedByID   uint           `gorm:"not null" json:"created_by_id"`
	IsVisible     bool           `gorm:"default:true" json:"is_visible"`
	ScheduledTime *time.Time     `json:"scheduled_time"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Profile   UserProfile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy User        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"created_by"`
	Hashtags  []HashTag   `gorm:"many2many:post_hashtags;constraint:OnDelete:CASCADE" json:"hashtags"`
	Comments  []Comment   `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes     []Like      `gorm:"foreignKey:PostID" json:"likes,omitempty"`
}

// HashTag is a plain label attached to posts. Names are deliberately not
// unique; two records may carry the same text.
type HashTag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	Posts []Post `gorm:"many2many:post_hashtags" json:"-"`
}
