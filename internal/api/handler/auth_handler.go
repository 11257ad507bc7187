package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/api/metrics"
	"github.com/civicvoice/civicvoice-api/internal/core/domain"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionService
	cookies     *SessionCookies
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionService, cookies *SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookies: cookies}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Login      string `json:"login" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type authResponse struct {
	User *domain.User `json:"user"`
}

// Register creates a new citizen account.
//
// @Summary      Register a new citizen
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
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

// Login authenticates by username or email and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Login:      req.Login,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookies.Set(c, result.Session, req.RememberMe)
	return c.JSON(http.StatusOK, authResponse{User: result.User})
}

// Logout destroys the current session and clears the cookie. Idempotent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := h.cookies.Token(c); token != "" {
		h.sessions.Destroy(c.Request().Context(), token)
		metrics.SessionsRevokedTotal.Inc()
	}
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
