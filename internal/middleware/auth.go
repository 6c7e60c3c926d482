package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const SessionCookieName = "storefront_session"

// AdminAPIKeyAuth validates the X-API-Key header against adminKey.
// Used for ADMIN API endpoints. Returns 401 if authentication fails.
func AdminAPIKeyAuth(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminKey == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin API key not configured")
			}

			key := c.Request().Header.Get("X-API-Key")
			if key == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing admin API key")
			}

			if !constantEqual(adminKey, key) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid admin API key")
			}

			return next(c)
		}
	}
}

// WebAuth validates requests via X-API-Key header OR session cookie.
// Used for WEB UI endpoints. Redirects to login if authentication fails.
func WebAuth(adminKey string, sessions SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Public routes: login page and static assets
			if path == "/web/login" ||
				strings.HasPrefix(path, "/web/static/") {
				return next(c)
			}

			// Check X-API-Key header first (for programmatic access)
			if key := c.Request().Header.Get("X-API-Key"); key != "" && ValidateAdminKey(adminKey, key) {
				return next(c)
			}

			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if _, ok := sessions.Get(cookie.Value); ok {
					return next(c)
				}
			}

			return c.Redirect(http.StatusFound, "/web/login")
		}
	}
}

// ValidateAdminKey checks key against adminKey in constant time. An
// unconfigured admin key never validates.
func ValidateAdminKey(adminKey, key string) bool {
	if adminKey == "" {
		return false
	}
	return constantEqual(adminKey, key)
}

func constantEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
