package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/insured-person-service/internal/api/dto"
	"github.com/spec-kit/insured-person-service/internal/service"
	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

// AuthHandler exposes login and password lifecycle endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/insuredpersons/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("userId and password required", nil)
	}

	person, token, exp, err := h.auth.Login(c.Context(), req.UserID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Yes, you are in! Here is your policy number: " + person.PolicyNumber,
		"data": fiber.Map{
			"user":  dto.NewPersonResponse(person),
			"token": token,
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ForgotPassword handles POST /api/insuredpersons/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}

	message, err := h.auth.ForgotPassword(c.Context(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Password reset token sent successfully",
		"data":    message,
	})
}

// ResetPassword handles POST /api/insuredpersons/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OTP == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("otp and newPassword required", nil)
	}

	person, err := h.auth.ResetPassword(c.Context(), req.OTP, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Password reset successful for the following User",
		"data":    dto.NewPersonResponse(person),
	})
}

// ChangePassword handles PUT /api/insuredpersons/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("userId, oldPassword, newPassword required", nil)
	}

	person, err := h.auth.ChangePassword(c.Context(), req.UserID, req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Password changed successfully for the User",
		"data":    dto.NewPersonResponse(person),
	})
}
