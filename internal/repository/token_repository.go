package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/model"
)

// TokenRepository tracks issued refresh tokens so they can be revoked.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return translateStoreErr("create refresh token", err)
	}
	return nil
}

func (r *TokenRepository) FindByID(ctx context.Context, id string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	if err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error; err != nil {
		return nil, translateStoreErr("find refresh token", err)
	}
	return &token, nil
}

// Revoke marks a token unusable. Revoking an already-revoked token
// fails so that a replayed logout cannot look successful.
func (r *TokenRepository) Revoke(ctx context.Context, id string, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token model.RefreshToken
		if err := tx.First(&token, "id = ?", id).Error; err != nil {
			return err
		}
		if token.RevokedAt != nil {
			return apperrors.New(apperrors.CodeUnauthenticated, "refresh token already revoked")
		}
		if err := tx.Model(&token).Update("revoked_at", now).Error; err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
		return nil
	})
	return translateStoreErr("revoke refresh token", err)
}

// DeleteExpired removes tokens whose lifetime ended before cutoff.
func (r *TokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&model.RefreshToken{})
	if res.Error != nil {
		return 0, translateStoreErr("delete expired tokens", res.Error)
	}
	return res.RowsAffected, nil
}
