package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// AdminHandler groups the admin-only account management endpoints. Routes
// using it must sit behind the admin role guard.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type createAuthorityRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateAuthority provisions a new authority account.
//
// @Summary      Create an authority account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createAuthorityRequest  true  "Authority details"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Router       /admin/authorities [post]
func (h *AdminHandler) CreateAuthority(c echo.Context) error {
	var req createAuthorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.CreateAuthority(c.Request().Context(), ports.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// ListUsers returns every account, newest first.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// RemoveAuthority deletes an authority account that has no triage history.
//
// @Summary      Remove an authority account
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/authorities/{id} [delete]
func (h *AdminHandler) RemoveAuthority(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.authService.RemoveAuthority(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "authority removed"})
}
