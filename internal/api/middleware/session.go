package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// UserContextKey is where the restored user is stored on the echo context.
const UserContextKey = "current_user"

// Session restores the persistent session before any authorization check.
// A missing or invalid cookie is not an error: the request simply proceeds
// unauthenticated, and a stale cookie is cleared on the way.
func Session(sessions ports.SessionService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, ok := sessions.Validate(c.Request().Context(), cookie.Value)
			if !ok {
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				return next(c)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
