// Package rpcserver serves the procedures other services call over the
// internal listener.
package rpcserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
	"github.com/victorgmp/SGPC-auth/internal/domain"
	"github.com/victorgmp/SGPC-auth/internal/transport"
	"github.com/victorgmp/SGPC-auth/pkg/authclient"
	"github.com/victorgmp/SGPC-auth/pkg/logging"
	"github.com/victorgmp/SGPC-auth/pkg/rpc"
)

const (
	ProcVerifyAccessToken = authclient.ProcVerifyAccessToken
	ProcGetByUserIDs      = "auth.get-by-user-ids"
	ProcDeleteByUserID    = "auth.delete-by-user-id"
)

type AuthService interface {
	VerifyAccessToken(token string) (domain.Auth, error)
	GetByUserIDs(ctx context.Context, userIDs []string) ([]domain.Auth, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type AuthRPC struct {
	Svc AuthService
}

func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindUnauthorized, apperr.KindAuthInvalidAccessToken:
		return http.StatusUnauthorized
	case apperr.KindAuthUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, k apperr.Kind) error {
	return c.JSON(statusOf(k), transport.RPCError{Error: string(k)})
}

func (h *AuthRPC) VerifyAccessToken(c echo.Context) error {
	var req transport.VerifyAccessTokenRequest
	if err := c.Bind(&req); err != nil || req.Token == nil || *req.Token == "" {
		return fail(c, apperr.KindAuthInvalidAccessToken)
	}

	a, err := h.Svc.VerifyAccessToken(*req.Token)
	if err != nil {
		return fail(c, apperr.KindOf(err))
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AuthRPC) GetByUserIDs(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.GetByUserIDsRequest
	if err := c.Bind(&req); err != nil || req.UserIDs == nil {
		return fail(c, apperr.KindBadRequest)
	}

	auths, err := h.Svc.GetByUserIDs(ctx, req.UserIDs)
	if err != nil {
		logging.FromContext(ctx).Error("rpc_failed", "procedure", ProcGetByUserIDs, "error", err)
		return fail(c, apperr.KindOf(err))
	}
	return c.JSON(http.StatusOK, auths)
}

func (h *AuthRPC) DeleteByUserID(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.DeleteByUserIDRequest
	if err := c.Bind(&req); err != nil || req.UserID == nil || *req.UserID == "" {
		return fail(c, apperr.KindBadRequest)
	}

	if err := h.Svc.DeleteByUserID(ctx, *req.UserID); err != nil {
		logging.FromContext(ctx).Error("rpc_failed", "procedure", ProcDeleteByUserID, "user_id", *req.UserID, "error", err)
		return fail(c, apperr.KindOf(err))
	}
	return c.JSON(http.StatusOK, domain.Auth{UserID: *req.UserID})
}

type Deps struct {
	Handler *AuthRPC
}

func Register(e *echo.Echo, d *Deps) {
	e.POST(rpc.PathPrefix+ProcVerifyAccessToken, d.Handler.VerifyAccessToken)
	e.POST(rpc.PathPrefix+ProcGetByUserIDs, d.Handler.GetByUserIDs)
	e.POST(rpc.PathPrefix+ProcDeleteByUserID, d.Handler.DeleteByUserID)
	e.POST(rpc.PathPrefix+":procedure", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, transport.RPCError{Error: string(apperr.KindBadRequest)})
	})
}
