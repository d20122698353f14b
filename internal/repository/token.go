package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// TokenRepository records issued tokens and their revocations. Revocation
// is checked against the database on every authenticated request so a
// blacklisted token is rejected immediately, with no cached-token window.
type TokenRepository interface {
	RecordOutstanding(ctx context.Context, token *models.OutstandingToken) error
	GetByJTI(ctx context.Context, jti string) (*models.OutstandingToken, error)
	ListOutstandingByUser(ctx context.Context, userID uint) ([]models.OutstandingToken, error)
	Blacklist(ctx context.Context, tokenID uint) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) RecordOutstanding(ctx context.Context, token *models.OutstandingToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Token has already been recorded")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) GetByJTI(ctx context.Context, jti string) (*models.OutstandingToken, error) {
	var token models.OutstandingToken
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) ListOutstandingByUser(ctx context.Context, userID uint) ([]models.OutstandingToken, error) {
	var tokens []models.OutstandingToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}

// Blacklist revokes an outstanding token. Re-revoking is a no-op; the
// unique index on token_id absorbs the race between two concurrent logouts.
func (r *tokenRepository) Blacklist(ctx context.Context, tokenID uint) error {
	entry := models.BlacklistedToken{TokenID: tokenID}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BlacklistedToken{}).
		Joins("JOIN outstanding_tokens ON outstanding_tokens.id = blacklisted_tokens.token_id").
		Where("outstanding_tokens.jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// DeleteExpired prunes ledger entries for tokens past their expiry.
func (r *tokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM blacklisted_tokens WHERE token_id IN (SELECT id FROM outstanding_tokens WHERE expires_at < ?)", before,
		).Error; err != nil {
			return err
		}
		res := tx.Where("expires_at < ?", before).Delete(&models.OutstandingToken{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return removed, nil
}
