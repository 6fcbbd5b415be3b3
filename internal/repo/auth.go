package repo

import (
	"context"
	"fmt"

	"github.com/victorgmp/SGPC-auth/internal/models"
)

func (r *GormRepo) CreateAuth(ctx context.Context, a *models.Auth) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create auth: %w", translate(err))
	}
	return nil
}

// FindAuthByUserID returns the non-deleted credential of userID.
func (r *GormRepo) FindAuthByUserID(ctx context.Context, userID string) (*models.Auth, error) {
	var a models.Auth
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.AuthStatusDeleted).
		First(&a).Error
	if err != nil {
		return nil, fmt.Errorf("find auth: %w", translate(err))
	}
	return &a, nil
}

func (r *GormRepo) FindAuthsByUserIDs(ctx context.Context, userIDs []string) ([]models.Auth, error) {
	auths := make([]models.Auth, 0, len(userIDs))
	if len(userIDs) == 0 {
		return auths, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id IN ? AND status <> ?", userIDs, models.AuthStatusDeleted).
		Find(&auths).Error
	if err != nil {
		return nil, fmt.Errorf("find auths: %w", translate(err))
	}
	return auths, nil
}

func (r *GormRepo) DeleteAuthByUserID(ctx context.Context, userID string) error {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Auth{})
	if res.Error != nil {
		return fmt.Errorf("delete auth: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete auth: %w", ErrNotFound)
	}
	return nil
}
