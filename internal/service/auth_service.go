package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/insured-person-service/internal/auth"
	"github.com/spec-kit/insured-person-service/internal/config"
	"github.com/spec-kit/insured-person-service/internal/domain"
	"github.com/spec-kit/insured-person-service/internal/events"
	"github.com/spec-kit/insured-person-service/internal/repository"
	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

// AuthService coordinates login, password reset, and password change flows.
type AuthService struct {
	persons    repository.InsuredPersonRepository
	passcodes  *auth.PasscodeStore
	tokenMgr   *auth.TokenManager
	mailer     Mailer
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	PersonRepo    repository.InsuredPersonRepository
	PasscodeStore *auth.PasscodeStore
	Mailer        Mailer
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		persons:    deps.PersonRepo,
		passcodes:  deps.PasscodeStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates by login id and password. The failure message
// never reveals which of the two was wrong.
func (s *AuthService) Login(ctx context.Context, userID, password string) (*domain.InsuredPerson, string, time.Time, error) {
	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials!!! Please try again.")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(person.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials!!! Please try again.")
	}

	token, exp, err := s.tokenMgr.GenerateToken(person)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return person, token, exp, nil
}

// ForgotPassword issues a reset passcode and emails it to the account's
// address. Mail failure is surfaced to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, userID string) (string, error) {
	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundMessage("User not found")
		}
		return "", err
	}

	code := s.passcodes.Issue(userID)

	body := fmt.Sprintf("Hello %s.\n\nAs you requested for resetting the password, "+
		"Here is your reset OTP: %s\n\n\n\nThanks,\nOperations team.", person.FirstName, code)
	if err := s.mailer.Send(ctx, person.Email, "Password Reset OTP", body); err != nil {
		return "", apperrors.NewUnauthorized("Failed to send reset email. Please check your email configuration.")
	}

	s.publish(ctx, events.EventPasswordResetRequested, person.PolicyNumber, events.PasswordResetRequestedPayload{
		UserID: person.UserID,
		Email:  person.Email,
	})

	return "Reset OTP sent successfully to the following email: " + person.Email, nil
}

// ResetPassword redeems a passcode and sets a new password. The code is
// consumed at match time; a later validation failure requires a fresh
// code.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword, confirmNewPassword string) (*domain.InsuredPerson, error) {
	userID, err := s.passcodes.Redeem(code)
	if err != nil {
		return nil, err
	}

	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	if newPassword != confirmNewPassword {
		return nil, apperrors.NewUnauthorized("Passwords do not match")
	}

	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("User not found")
		}
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.persons.UpdatePassword(ctx, person.PolicyNumber, hash); err != nil {
		return nil, err
	}
	person.PasswordHash = hash

	s.publish(ctx, events.EventPasswordResetCompleted, person.PolicyNumber, nil)
	return person, nil
}

// ChangePassword verifies the old password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirmNewPassword string) (*domain.InsuredPerson, error) {
	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("Invalid old password credentials!!! Please try again.")
		}
		return nil, err
	}
	if err := auth.ComparePassword(person.PasswordHash, oldPassword); err != nil {
		return nil, apperrors.NewUnauthorized("Invalid old password credentials!!! Please try again.")
	}

	if err := ValidatePassword(newPassword); err != nil {
		return nil, err
	}
	if newPassword != confirmNewPassword {
		return nil, apperrors.NewUnauthorized("Passwords do not match")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.persons.UpdatePassword(ctx, person.PolicyNumber, hash); err != nil {
		return nil, err
	}
	person.PasswordHash = hash

	s.publish(ctx, events.EventPasswordChanged, person.PolicyNumber, nil)
	return person, nil
}

// TokenManager exposes the underlying token manager for gateway usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, policyNumber string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		PolicyNumber: policyNumber,
		Timestamp:    time.Now(),
		Payload:      payload,
	})
}
