package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/victorgmp/SGPC-auth/pkg/authclient"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
)

const userIDKey = "user_id"

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*authclient.Auth, error)
}

// BearerAuth resolves "Authorization: Bearer <token>" through the auth
// service and stores the user id on the echo context.
type BearerAuth struct {
	Verifier TokenVerifier
}

func NewBearerAuth(v TokenVerifier) *BearerAuth {
	return &BearerAuth{Verifier: v}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		a, err := m.Verifier.VerifyAccessToken(ctx, token)
		if err != nil {
			if errors.Is(err, authclient.ErrInvalidAccessToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			l.Error("verify_failed", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "auth service unavailable")
		}

		c.Set(userIDKey, a.UserID)
		return next(c)
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get(userIDKey).(string)
	return id, ok && id != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
