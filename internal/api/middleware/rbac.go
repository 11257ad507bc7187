package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// RequireAuthenticated rejects unauthenticated requests. The response carries
// the login path with the originally requested path preserved, so the client
// can return the user after a successful login.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(UserContextKey).(*domain.User); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "authentication required",
					"login": "/login?next=" + url.QueryEscape(c.Request().RequestURI),
				})
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. It implies the
// authenticated check and answers every mismatch with one fixed message.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*domain.User)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "authentication required",
					"login": "/login?next=" + url.QueryEscape(c.Request().RequestURI),
				})
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
