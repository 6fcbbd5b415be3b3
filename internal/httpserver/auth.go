package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
	"github.com/victorgmp/SGPC-auth/internal/domain"
	"github.com/victorgmp/SGPC-auth/internal/events"
	"github.com/victorgmp/SGPC-auth/internal/transport"
	"github.com/victorgmp/SGPC-auth/internal/userclient"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
)

type AuthService interface {
	IsPasswordValid(password string) bool
	SignUp(ctx context.Context, userID, password string) (domain.SignedAuth, error)
	SignIn(ctx context.Context, userID, password string) (domain.SignedAuth, error)
	GenerateAccessToken(a domain.Auth) (string, error)
}

type RefreshTokenService interface {
	GenerateRefreshToken(ctx context.Context, userID string) (string, error)
	Redeem(ctx context.Context, userID, token string) (string, error)
}

type UserClient interface {
	GetByUsername(ctx context.Context, username string) (userclient.User, error)
	Create(ctx context.Context, username string) (userclient.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type AuthHTTP struct {
	Auth    AuthService
	Refresh RefreshTokenService
	Users   UserClient
	Events  Publisher
}

func httpError(code int, k apperr.Kind) error {
	return echo.NewHTTPError(code, string(k))
}

func bindSign(c echo.Context) (username, password string, ok bool) {
	var req transport.SignRequest
	if err := c.Bind(&req); err != nil || req.Username == nil || req.Password == nil {
		return "", "", false
	}
	return *req.Username, *req.Password, true
}

func signUpStatus(k apperr.Kind) (int, apperr.Kind) {
	switch k {
	case apperr.KindBadRequest,
		apperr.KindUserInvalidUsername,
		apperr.KindUserAlreadyExists,
		apperr.KindAuthUserAlreadyExists:
		return http.StatusBadRequest, k
	default:
		return http.StatusInternalServerError, apperr.KindInternal
	}
}

func signInStatus(k apperr.Kind) (int, apperr.Kind) {
	switch k {
	case apperr.KindUserNotFound,
		apperr.KindAuthUserNotFound,
		apperr.KindAuthInvalidPassword:
		return http.StatusUnauthorized, apperr.KindUnauthorized
	default:
		return http.StatusInternalServerError, apperr.KindInternal
	}
}

func refreshStatus(k apperr.Kind) (int, apperr.Kind) {
	switch k {
	case apperr.KindUnauthorized,
		apperr.KindUserNotFound,
		apperr.KindAuthUserNotFound,
		apperr.KindAuthInvalidPassword:
		return http.StatusUnauthorized, apperr.KindUnauthorized
	default:
		return http.StatusInternalServerError, apperr.KindInternal
	}
}

func (h *AuthHTTP) publish(ctx context.Context, topic, userID string) {
	if err := h.Events.Publish(ctx, topic, userID, transport.UserEvent{UserID: userID}); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", topic, "user_id", userID, "error", err)
	}
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_up")

	username, password, ok := bindSign(c)
	if !ok {
		l.Warn("sign_up_error", "status", 400, "reason", "invalid body")
		return httpError(http.StatusBadRequest, apperr.KindBadRequest)
	}

	if !h.Auth.IsPasswordValid(password) {
		l.Warn("sign_up_error", "status", 400, "reason", "password policy")
		return httpError(http.StatusBadRequest, apperr.KindAuthInvalidPassword)
	}

	res, refresh, err := h.signUp(ctx, username, password)
	if err != nil {
		code, k := signUpStatus(apperr.KindOf(err))
		l.Warn("sign_up_failed", "status", code, "error", err)
		return httpError(code, k)
	}

	h.publish(ctx, events.TopicSignedUp, res.Auth.UserID)
	l.Info("sign_up_successful", "user_id", res.Auth.UserID)

	return c.JSON(http.StatusOK, transport.AuthResponse{
		RefreshToken: refresh,
		Token:        res.Token,
		Auth:         res.Auth,
	})
}

func (h *AuthHTTP) signUp(ctx context.Context, username, password string) (domain.SignedAuth, string, error) {
	user, err := h.Users.Create(ctx, username)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	res, err := h.Auth.SignUp(ctx, user.ID, password)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	refresh, err := h.Refresh.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	return res, refresh, nil
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_in")

	username, password, ok := bindSign(c)
	if !ok {
		l.Warn("sign_in_error", "status", 400, "reason", "invalid body")
		return httpError(http.StatusBadRequest, apperr.KindBadRequest)
	}

	res, refresh, err := h.signIn(ctx, username, password)
	if err != nil {
		code, k := signInStatus(apperr.KindOf(err))
		l.Warn("sign_in_failed", "status", code, "error", err)
		return httpError(code, k)
	}

	h.publish(ctx, events.TopicSignedIn, res.Auth.UserID)
	l.Info("sign_in_successful", "user_id", res.Auth.UserID)

	return c.JSON(http.StatusOK, transport.AuthResponse{
		RefreshToken: refresh,
		Token:        res.Token,
		Auth:         res.Auth,
	})
}

func (h *AuthHTTP) signIn(ctx context.Context, username, password string) (domain.SignedAuth, string, error) {
	user, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	res, err := h.Auth.SignIn(ctx, user.ID, password)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	refresh, err := h.Refresh.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return domain.SignedAuth{}, "", err
	}
	return res, refresh, nil
}

// RefreshToken exchanges a refresh token for a new access token and a new
// refresh token. The presented token is spent before anything is minted.
func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh_token")

	var req transport.RefreshTokenRequest
	if err := c.Bind(&req); err != nil || req.UserID == nil || req.RefreshToken == nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body")
		return httpError(http.StatusBadRequest, apperr.KindBadRequest)
	}
	userID := *req.UserID

	refresh, err := h.Refresh.Redeem(ctx, userID, *req.RefreshToken)
	if err != nil {
		code, k := refreshStatus(apperr.KindOf(err))
		l.Warn("refresh_failed", "status", code, "error", err)
		return httpError(code, k)
	}

	a := domain.Auth{UserID: userID}
	token, err := h.Auth.GenerateAccessToken(a)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot sign access token", "error", err)
		return httpError(http.StatusInternalServerError, apperr.KindInternal)
	}

	return c.JSON(http.StatusOK, transport.AuthResponse{
		RefreshToken: refresh,
		Token:        token,
		Auth:         a,
	})
}
