// Package userclient calls the user-identity service. Remote failures come
// back tagged with the matching USER.* kind.
package userclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
	"github.com/victorgmp/SGPC-auth/pkg/rpc"
)

const (
	ProcGetByUsername = "user.get-by-username"
	ProcCreate        = "user.create"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Client struct {
	rpc *rpc.Client
}

func New(userServiceURL string) *Client {
	return &Client{rpc: rpc.NewClient(userServiceURL)}
}

func (c *Client) GetByUsername(ctx context.Context, username string) (User, error) {
	return c.call(ctx, ProcGetByUsername, username)
}

func (c *Client) Create(ctx context.Context, username string) (User, error) {
	return c.call(ctx, ProcCreate, username)
}

func (c *Client) call(ctx context.Context, procedure, username string) (User, error) {
	var u User
	payload := map[string]string{"username": username}
	if err := c.rpc.Call(ctx, procedure, payload, &u); err != nil {
		return User{}, mapError(procedure, err)
	}
	if u.ID == "" {
		return User{}, fmt.Errorf("%s: empty user id: %w", procedure, apperr.ErrInternal)
	}
	return u, nil
}

func mapError(procedure string, err error) error {
	var re *rpc.Error
	if errors.As(err, &re) {
		switch k := apperr.Kind(re.Code); k {
		case apperr.KindUserNotFound,
			apperr.KindUserAlreadyExists,
			apperr.KindUserInvalidID,
			apperr.KindUserInvalidUsername:
			return fmt.Errorf("%s: %w", procedure, apperr.FromKind(k))
		}
	}
	return fmt.Errorf("%s: %w: %v", procedure, apperr.ErrInternal, err)
}
