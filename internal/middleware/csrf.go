package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type csrfKey struct{}

// CSRFForm is the form field the web pages post the token in.
const CSRFForm = "_csrf"

// CSRFConfig is echo's CSRF middleware configured for the web forms.
func CSRFConfig() echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:" + CSRFForm,
		CookiePath:     "/web",
		CookieHTTPOnly: true,
	})
}

// CSRF copies the token set by CSRFConfig into the request context, where
// page components read it. It must run after CSRFConfig.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string); ok {
				ctx := context.WithValue(c.Request().Context(), csrfKey{}, token)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// GetCSRF retrieves the CSRF token from context.
func GetCSRF(ctx context.Context) string {
	if token, ok := ctx.Value(csrfKey{}).(string); ok {
		return token
	}
	return ""
}
