package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// ForgotPasswordRequest payload for requesting a reset passcode.
type ForgotPasswordRequest struct {
	UserID string `json:"userId"`
}

// ResetPasswordRequest payload for redeeming a reset passcode.
type ResetPasswordRequest struct {
	OTP                string `json:"otp"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// ChangePasswordRequest payload for changing a known password.
type ChangePasswordRequest struct {
	UserID             string `json:"userId"`
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
