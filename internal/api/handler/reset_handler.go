package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/civicvoice-api/internal/api/metrics"
	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

// ResetHandler exposes the three-step password-reset workflow. Every step
// answers 200: outcomes are carried in the body so the transport leaks
// nothing about which emails exist.
type ResetHandler struct {
	resetService ports.ResetService
}

func NewResetHandler(resetService ports.ResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Forgot requests a reset code for an email address.
//
// @Summary      Request a password reset code
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  ports.ResetRequestResult
// @Router       /auth/password/forgot [post]
func (h *ResetHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := h.resetService.Request(c.Request().Context(), req.Email)
	if result.Success {
		metrics.ResetRequestsTotal.WithLabelValues("accepted").Inc()
	} else {
		metrics.ResetRequestsTotal.WithLabelValues("failed").Inc()
	}
	return c.JSON(http.StatusOK, result)
}

// VerifyOTP checks an emailed code without consuming it.
//
// @Summary      Verify a password reset code
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and code"
// @Success      200   {object}  ports.VerifyOTPResult
// @Router       /auth/password/verify [post]
func (h *ResetHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := h.resetService.VerifyOTP(c.Request().Context(), req.Email, req.Code)
	if result.Valid {
		metrics.OTPVerificationsTotal.WithLabelValues("valid").Inc()
	} else {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
	}
	return c.JSON(http.StatusOK, result)
}

// Reset sets a new password for a verified email/code pair.
//
// @Summary      Complete a password reset
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  ports.ResetPasswordResult
// @Router       /auth/password/reset [post]
func (h *ResetHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := h.resetService.Reset(c.Request().Context(), req.Email, req.Code, req.NewPassword)
	if result.Success {
		metrics.ResetsCompletedTotal.Inc()
	}
	return c.JSON(http.StatusOK, result)
}
