package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/api/middleware"
	"github.com/civicvoice/civicvoice-api/internal/core/domain"
)

// currentUser extracts the user restored by the session middleware. Guards
// run before handlers, so a miss here means a route was wired without its
// middleware — reject rather than assume.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
