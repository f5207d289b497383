package middleware

import (
	"strconv"
	"time"

	"coursenotes/cmd/internal/metrics"

	"github.com/labstack/echo/v4"
)

// NewMetricsMiddleware records request counts and latencies labelled by the
// matched route template, so ids do not explode label cardinality.
func NewMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			metrics.ActiveRequests.Inc()
			defer metrics.ActiveRequests.Dec()

			// The error is handled here so the recorded status is final.
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
