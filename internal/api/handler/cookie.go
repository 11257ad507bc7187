package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// SessionCookies manages the session-token cookie. The cookie is always
// httpOnly; it is persistent only for "remember me" logins, otherwise it
// lives for the browser session while the server-side row enforces expiry.
type SessionCookies struct {
	name string
}

func NewSessionCookies(name string) *SessionCookies {
	return &SessionCookies{name: name}
}

// Set writes the session token cookie.
func (s *SessionCookies) Set(c echo.Context, session *domain.Session, persistent bool) {
	cookie := &http.Cookie{
		Name:     s.name,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if persistent {
		cookie.Expires = session.ExpiresAt
		cookie.MaxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	c.SetCookie(cookie)
}

// Clear removes the session cookie.
func (s *SessionCookies) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Token returns the cookie value, or empty when absent.
func (s *SessionCookies) Token(c echo.Context) string {
	cookie, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
