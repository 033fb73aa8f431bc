package service

import (
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

var (
	credentialCharset = regexp.MustCompile(`^[A-Za-z\d@!$*_]{8,}$`)
	lowerPattern      = regexp.MustCompile(`[a-z]`)
	upperPattern      = regexp.MustCompile(`[A-Z]`)
	digitPattern      = regexp.MustCompile(`\d`)
	specialPattern    = regexp.MustCompile(`[@!$*_]`)
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidateUserID enforces the login-id strength policy.
func ValidateUserID(userID string) error {
	if !credentialStrong(userID) {
		return apperrors.NewValidationError(
			"UserId must be at least 8 characters long and contain "+
				"one uppercase, one lowercase, one digit, and one special character (@!$*_)", nil)
	}
	return nil
}

// ValidatePassword enforces the password strength policy.
func ValidatePassword(password string) error {
	if !credentialStrong(password) {
		return apperrors.NewValidationError(
			"Password must be at least 8 characters long and contain "+
				"one uppercase, one lowercase, one digit, and one special character (@!$*_)", nil)
	}
	return nil
}

// ValidatePolicyNumber requires the business prefix.
func ValidatePolicyNumber(policyNumber string) error {
	if !strings.HasPrefix(policyNumber, "PA") {
		return apperrors.NewValidationError("Policy Number must start with 'PA'", nil)
	}
	return nil
}

// ValidateEmail checks basic address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("Email id format is invalid", nil)
	}
	return nil
}

func credentialStrong(value string) bool {
	return credentialCharset.MatchString(value) &&
		lowerPattern.MatchString(value) &&
		upperPattern.MatchString(value) &&
		digitPattern.MatchString(value) &&
		specialPattern.MatchString(value)
}
