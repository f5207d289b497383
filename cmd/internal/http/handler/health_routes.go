package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealthCheck answers "OK" while the database is reachable.
func NewHealthCheck(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			log.Errorf("health check failed: %v", err)
			return c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
		}
		return c.String(http.StatusOK, "OK")
	}
}
