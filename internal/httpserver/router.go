package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type Deps struct {
	AuthHandler *AuthHTTP
	Ready       Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/sign-up", d.AuthHandler.SignUp)
	e.POST("/sign-in", d.AuthHandler.SignIn)
	e.POST("/refresh-token", d.AuthHandler.RefreshToken)
}
