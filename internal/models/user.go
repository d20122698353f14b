// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the authentication identity. Email is the login key; the
// username defaults to the email when left blank.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Password    string         `gorm:"not null" json:"-"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	IsStaff     bool           `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool           `gorm:"default:false" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *UserProfile `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// BeforeSave backfills the username from the email, mirroring the
// email-as-default-handle account policy.
func (u *User) BeforeSave(_ *gorm.DB) error {
	if u.Username == "" {
		u.Username = u.Email
	}
	return nil
}
