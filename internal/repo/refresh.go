package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/victorgmp/SGPC-auth/internal/models"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create refresh token: %w", translate(err))
	}
	return nil
}

func (r *GormRepo) FindRefreshToken(ctx context.Context, userID, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND token = ? AND status <> ?", userID, token, models.RefreshTokenStatusDeleted).
		First(&t).Error
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", translate(err))
	}
	return &t, nil
}

// DeleteRefreshToken removes the token regardless of status. ErrNotFound is
// returned when nothing matched.
func (r *GormRepo) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return fmt.Errorf("delete refresh token: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete refresh token: %w", ErrNotFound)
	}
	return nil
}

func consumeRefreshToken(tx *gorm.DB, userID, token string) error {
	res := tx.
		Where("user_id = ? AND token = ? AND status = ?", userID, token, models.RefreshTokenStatusActive).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected != 1 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshToken deletes the active (userID, oldToken) row and stores next
// in one transaction. The conditional delete decides the redemption: when it
// matches no row, ErrNotFound is returned and next is not stored.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, userID, oldToken string, next *models.RefreshToken) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := consumeRefreshToken(tx, userID, oldToken); err != nil {
			return err
		}
		return translate(tx.Create(next).Error)
	})
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}
