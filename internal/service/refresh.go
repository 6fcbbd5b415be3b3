package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
	"github.com/victorgmp/SGPC-auth/internal/models"
	"github.com/victorgmp/SGPC-auth/internal/repo"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
	"github.com/victorgmp/SGPC-auth/pkg/tokens"
)

type RefreshRepo interface {
	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, userID, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	RotateRefreshToken(ctx context.Context, userID, oldToken string, next *models.RefreshToken) error
}

// RefreshTokenService owns refresh-token records. Callers only ever see the
// bare token string.
type RefreshTokenService struct {
	Repo RefreshRepo
}

func NewRefreshTokenService(r RefreshRepo) *RefreshTokenService {
	return &RefreshTokenService{Repo: r}
}

func newRefreshRecord(userID string) (*models.RefreshToken, error) {
	token, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := nowMillis()
	return &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		Status:    models.RefreshTokenStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *RefreshTokenService) GenerateRefreshToken(ctx context.Context, userID string) (string, error) {
	rt, err := newRefreshRecord(userID)
	if err != nil {
		return "", internal(err)
	}
	if err := s.Repo.CreateRefreshToken(ctx, rt); err != nil {
		logging.FromContext(ctx).Error("refresh_token_create_failed", "user_id", userID, "error", err)
		return "", internal(err)
	}
	return rt.Token, nil
}

func (s *RefreshTokenService) GetByUserIDAndToken(ctx context.Context, userID, token string) (string, error) {
	rt, err := s.Repo.FindRefreshToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", fmt.Errorf("refresh token: %w", apperr.ErrUnauthorized)
		}
		return "", internal(err)
	}
	return rt.Token, nil
}

// DeleteByUserIDAndToken removes the token. An unmatched delete is reported
// as a generic internal failure, not as a distinct kind.
func (s *RefreshTokenService) DeleteByUserIDAndToken(ctx context.Context, userID, token string) error {
	if err := s.Repo.DeleteRefreshToken(ctx, userID, token); err != nil {
		logging.FromContext(ctx).Error("refresh_token_delete_failed", "user_id", userID, "error", err)
		return internal(err)
	}
	return nil
}

// Redeem spends token and returns its replacement. The conditional delete in
// the store is the only authority on whether the redemption happened, so of
// two concurrent redemptions at most one succeeds.
func (s *RefreshTokenService) Redeem(ctx context.Context, userID, token string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "refresh.redeem", "user_id", userID)

	if _, err := s.GetByUserIDAndToken(ctx, userID, token); err != nil {
		l.Warn("redeem_failed", "reason", "lookup", "error", err)
		return "", err
	}

	next, err := newRefreshRecord(userID)
	if err != nil {
		return "", internal(err)
	}

	if err := s.Repo.RotateRefreshToken(ctx, userID, token, next); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("redeem_failed", "reason", "already consumed")
			return "", fmt.Errorf("refresh token: %w", apperr.ErrUnauthorized)
		}
		l.Error("redeem_failed", "reason", "rotate", "error", err)
		return "", internal(err)
	}

	return next.Token, nil
}
