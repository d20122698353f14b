package models

import "time"

// Like marks a post as liked by a user.
// The combination of PostID and CreatedByID must be unique: one like per
// user per post, with concurrent duplicates resolved by the constraint.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;uniqueIndex:idx_post_created_by" json:"post_id"`
	CreatedByID uint      `gorm:"not null;uniqueIndex:idx_post_created_by" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Post      Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"created_by"`
}
