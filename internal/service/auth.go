package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
	"github.com/victorgmp/SGPC-auth/internal/domain"
	"github.com/victorgmp/SGPC-auth/internal/hash"
	"github.com/victorgmp/SGPC-auth/internal/models"
	"github.com/victorgmp/SGPC-auth/internal/repo"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
	"github.com/victorgmp/SGPC-auth/pkg/tokens"
)

type AuthRepo interface {
	CreateAuth(ctx context.Context, a *models.Auth) error
	FindAuthByUserID(ctx context.Context, userID string) (*models.Auth, error)
	FindAuthsByUserIDs(ctx context.Context, userIDs []string) ([]models.Auth, error)
	DeleteAuthByUserID(ctx context.Context, userID string) error
}

// AuthService owns credential records and the access-token secret.
type AuthService struct {
	Repo      AuthRepo
	Secret    []byte
	AccessTTL time.Duration
}

func NewAuthService(r AuthRepo, secret []byte, accessTTL time.Duration) *AuthService {
	return &AuthService{Repo: r, Secret: secret, AccessTTL: accessTTL}
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
}

func nowMillis() int64 { return time.Now().UnixMilli() }

func (s *AuthService) Register(ctx context.Context, userID, password string) (domain.Auth, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "user_id", userID)

	_, err := s.Repo.FindAuthByUserID(ctx, userID)
	switch {
	case err == nil:
		l.Warn("register_failed", "reason", "user already exists")
		return domain.Auth{}, apperr.ErrUserAlreadyExists
	case !errors.Is(err, repo.ErrNotFound):
		l.Error("register_failed", "reason", "cannot read credential", "error", err)
		return domain.Auth{}, internal(err)
	}

	if !hash.IsPasswordValid(password) {
		l.Warn("register_failed", "reason", "password policy")
		return domain.Auth{}, apperr.ErrInvalidPassword
	}

	salt, err := hash.NewSalt()
	if err != nil {
		l.Error("register_failed", "reason", "cannot generate salt", "error", err)
		return domain.Auth{}, internal(err)
	}

	now := nowMillis()
	a := &models.Auth{
		UserID:       userID,
		Salt:         salt,
		PasswordHash: hash.HashPassword(password, salt),
		Status:       models.AuthStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateAuth(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "reason", "user already exists")
			return domain.Auth{}, apperr.ErrUserAlreadyExists
		}
		l.Error("register_failed", "reason", "cannot store credential", "error", err)
		return domain.Auth{}, internal(err)
	}

	l.Info("registered")
	return toPublic(a), nil
}

func (s *AuthService) Authenticate(ctx context.Context, userID, password string) (domain.Auth, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "user_id", userID)

	a, err := s.Repo.FindAuthByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("authenticate_failed", "reason", "no credential")
			return domain.Auth{}, apperr.ErrUserNotFound
		}
		l.Error("authenticate_failed", "reason", "cannot read credential", "error", err)
		return domain.Auth{}, internal(err)
	}

	if !hash.CheckPassword(a.PasswordHash, password, a.Salt) {
		l.Warn("authenticate_failed", "reason", "password mismatch")
		return domain.Auth{}, apperr.ErrInvalidPassword
	}

	return toPublic(a), nil
}

func (s *AuthService) SignUp(ctx context.Context, userID, password string) (domain.SignedAuth, error) {
	a, err := s.Register(ctx, userID, password)
	if err != nil {
		return domain.SignedAuth{}, err
	}
	return s.sign(a)
}

func (s *AuthService) SignIn(ctx context.Context, userID, password string) (domain.SignedAuth, error) {
	a, err := s.Authenticate(ctx, userID, password)
	if err != nil {
		return domain.SignedAuth{}, err
	}
	return s.sign(a)
}

func (s *AuthService) sign(a domain.Auth) (domain.SignedAuth, error) {
	token, err := s.GenerateAccessToken(a)
	if err != nil {
		return domain.SignedAuth{}, err
	}
	return domain.SignedAuth{Auth: a, Token: token}, nil
}

// GenerateAccessToken signs a token for a with the configured validity.
func (s *AuthService) GenerateAccessToken(a domain.Auth) (string, error) {
	return s.GenerateAccessTokenWithTTL(a, s.AccessTTL)
}

// GenerateAccessTokenWithTTL signs a token for a. A non-positive ttl falls
// back to tokens.DefaultAccessTTL.
func (s *AuthService) GenerateAccessTokenWithTTL(a domain.Auth, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = tokens.DefaultAccessTTL
	}
	token, err := tokens.SignAccessToken(a.UserID, s.Secret, ttl)
	if err != nil {
		return "", internal(err)
	}
	return token, nil
}

// VerifyAccessToken never touches the store, so a token outlives a deleted
// credential until it expires.
func (s *AuthService) VerifyAccessToken(token string) (domain.Auth, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.Secret)
	if err != nil {
		return domain.Auth{}, fmt.Errorf("%w: %v", apperr.ErrInvalidAccessToken, err)
	}
	return domain.Auth{UserID: claims.UserID}, nil
}

func (s *AuthService) IsPasswordValid(password string) bool {
	return hash.IsPasswordValid(password)
}

func (s *AuthService) DeleteByUserID(ctx context.Context, userID string) error {
	if err := s.Repo.DeleteAuthByUserID(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("delete_auth_failed", "svc", "auth.delete", "user_id", userID, "error", err)
		return internal(err)
	}
	return nil
}

func (s *AuthService) GetByUserIDs(ctx context.Context, userIDs []string) ([]domain.Auth, error) {
	auths, err := s.Repo.FindAuthsByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]domain.Auth, 0, len(auths))
	for i := range auths {
		out = append(out, toPublic(&auths[i]))
	}
	return out, nil
}

func toPublic(a *models.Auth) domain.Auth {
	return domain.Auth{UserID: a.UserID}
}
