// Package authclient lets other services verify access tokens against the
// auth service.
package authclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/victorgmp/SGPC-auth/pkg/rpc"
)

const (
	ProcVerifyAccessToken = "auth.verify-access-token"

	codeInvalidAccessToken = "AUTH.INVALID_ACCESS_TOKEN"
)

var ErrInvalidAccessToken = errors.New("invalid access token")

type Auth struct {
	UserID string `json:"userId"`
}

type Client struct {
	rpc *rpc.Client
}

func NewClient(authServiceURL string) *Client {
	return &Client{rpc: rpc.NewClient(authServiceURL)}
}

// VerifyAccessToken returns the holder of token. A rejected token is reported
// as ErrInvalidAccessToken; anything else means the call itself failed.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (*Auth, error) {
	var a Auth
	err := c.rpc.Call(ctx, ProcVerifyAccessToken, map[string]string{"token": token}, &a)
	if err != nil {
		var re *rpc.Error
		if errors.As(err, &re) && re.Code == codeInvalidAccessToken {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
		}
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if a.UserID == "" {
		return nil, ErrInvalidAccessToken
	}
	return &a, nil
}
