package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"lampreasvioleta.com/storefront/internal/logging"
	"lampreasvioleta.com/storefront/internal/version"
)

type versionKey struct{}

// RequestIDContext copies the id assigned by echo's RequestID middleware into
// the request context so logging.FromContext can tag entries with it.
// It must run after RequestID.
func RequestIDContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				ctx := logging.WithRequestID(c.Request().Context(), id)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// Version adds the app version to the request context.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), versionKey{}, version.Version)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetVersion retrieves the version from context.
func GetVersion(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return version.Version
}
