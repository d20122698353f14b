package models

import "time"

// Token types recorded in the outstanding-token ledger.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// OutstandingToken records every token the server has issued, keyed by the
// JWT ID claim. Bulk logout walks this ledger.
type OutstandingToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;size:64;uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenType string    `gorm:"size:16;not null" json:"token_type"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BlacklistedToken marks an outstanding token as revoked. The unique index
// on TokenID makes repeated revocation of the same token a no-op.
type BlacklistedToken struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TokenID       uint      `gorm:"not null;uniqueIndex" json:"token_id"`
	BlacklistedAt time.Time `gorm:"autoCreateTime" json:"blacklisted_at"`

	Token OutstandingToken `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE" json:"-"`
}
