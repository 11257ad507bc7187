package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

type ProfileHandler struct {
	authService   ports.AuthService
	reportService ports.ReportService
}

func NewProfileHandler(authService ports.AuthService, reportService ports.ReportService) *ProfileHandler {
	return &ProfileHandler{authService: authService, reportService: reportService}
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
}

// Me returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  authResponse
// @Router       /profile [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.authService.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: profile})
}

// UpdateMe updates the authenticated user's contact details. Username and
// role are fixed at registration and cannot be changed here.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Router       /profile [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, req.FullName, req.Email, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: updated})
}

// MyStats returns the caller's report counters for the profile dashboard.
//
// @Summary      Get own report statistics
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.ReportStats
// @Router       /profile/stats [get]
func (h *ProfileHandler) MyStats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.reportService.Stats(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
