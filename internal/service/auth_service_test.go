package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/insured-person-service/internal/auth"
	"github.com/spec-kit/insured-person-service/internal/config"
	"github.com/spec-kit/insured-person-service/internal/domain"
	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

var otpPattern = regexp.MustCompile(`\d{6}`)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "unit-test-secret",
			AccessTokenTTLMinutes: 5,
			ResetCodeTTLMinutes:   10,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func seedPerson(t *testing.T, repo *mockPersonRepo, policyNumber, userID, password string) *domain.InsuredPerson {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	age := 34
	person := &domain.InsuredPerson{
		PolicyNumber:    policyNumber,
		FirstName:       "Jane",
		LastName:        "Doe",
		Age:             &age,
		Role:            domain.RoleUser,
		Email:           userID + "@example.com",
		UserID:          userID,
		PasswordHash:    hash,
		PhoneNumber:     "5551234567",
		TypeOfInsurance: domain.InsuranceHealth,
	}
	repo.add(person)
	return person
}

func newAuthService(repo *mockPersonRepo, mailer *mockMailer) (*AuthService, *auth.PasscodeStore) {
	cfg := testConfig()
	store := auth.NewPasscodeStore(cfg.Auth.ResetCodeTTLMinutes)
	svc := NewAuthService(cfg, AuthDependencies{
		PersonRepo:    repo,
		PasscodeStore: store,
		Mailer:        mailer,
	})
	return svc, store
}

func assertDomainCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("error code = %s, want %s (message %q)", domainErr.Code, code, domainErr.Message)
	}
	return domainErr
}

func TestLoginIssuesTokenBoundToPolicyNumber(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	svc, _ := newAuthService(repo, &mockMailer{})

	person, token, _, err := svc.Login(context.Background(), "Jane$Doe7", "Jane@Doe1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if person.PolicyNumber != "PA10001" {
		t.Fatalf("person policy number = %s, want PA10001", person.PolicyNumber)
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != "PA10001" {
		t.Fatalf("token subject = %s, want PA10001", claims.Subject)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("token role = %s, want %s", claims.Role, domain.RoleUser)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	svc, _ := newAuthService(repo, &mockMailer{})

	_, token, _, err := svc.Login(context.Background(), "Jane$Doe7", "Wrong@Pass1")
	domainErr := assertDomainCode(t, err, "UNAUTHORIZED")
	if domainErr.Message != "Invalid credentials!!! Please try again." {
		t.Fatalf("message = %q", domainErr.Message)
	}
	if token != "" {
		t.Fatal("token issued for wrong password")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService(newMockPersonRepo(), &mockMailer{})

	_, token, _, err := svc.Login(context.Background(), "Nobody$Here1", "Jane@Doe1")
	domainErr := assertDomainCode(t, err, "UNAUTHORIZED")
	if domainErr.Message != "Invalid credentials!!! Please try again." {
		t.Fatalf("message = %q", domainErr.Message)
	}
	if token != "" {
		t.Fatal("token issued for unknown user")
	}
}

func TestForgotPasswordEmailsCode(t *testing.T) {
	repo := newMockPersonRepo()
	person := seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	mailer := &mockMailer{}
	svc, store := newAuthService(repo, mailer)

	msg, err := svc.ForgotPassword(context.Background(), "Jane$Doe7")
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	want := "Reset OTP sent successfully to the following email: " + person.Email
	if msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mailer.sent))
	}
	if mailer.sent[0].to != person.Email {
		t.Fatalf("mail recipient = %s, want %s", mailer.sent[0].to, person.Email)
	}
	if code := otpPattern.FindString(mailer.sent[0].body); code == "" {
		t.Fatalf("no 6-digit code in mail body %q", mailer.sent[0].body)
	}
	if store.Outstanding() != 1 {
		t.Fatalf("outstanding codes = %d, want 1", store.Outstanding())
	}
}

func TestForgotPasswordUnknownUser(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newAuthService(newMockPersonRepo(), mailer)

	_, err := svc.ForgotPassword(context.Background(), "Nobody$Here1")
	domainErr := assertDomainCode(t, err, "NOT_FOUND")
	if domainErr.Message != "User not found" {
		t.Fatalf("message = %q", domainErr.Message)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("mail sent for unknown user")
	}
}

func TestForgotPasswordMailFailure(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	svc, _ := newAuthService(repo, &mockMailer{fail: true})

	_, err := svc.ForgotPassword(context.Background(), "Jane$Doe7")
	domainErr := assertDomainCode(t, err, "UNAUTHORIZED")
	if domainErr.Message != "Failed to send reset email. Please check your email configuration." {
		t.Fatalf("message = %q", domainErr.Message)
	}
}

func TestResetPasswordRedeemsCodeOnce(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	mailer := &mockMailer{}
	svc, _ := newAuthService(repo, mailer)

	if _, err := svc.ForgotPassword(context.Background(), "Jane$Doe7"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	code := otpPattern.FindString(mailer.sent[0].body)

	person, err := svc.ResetPassword(context.Background(), code, "Fresh@Pass9", "Fresh@Pass9")
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if person.PolicyNumber != "PA10001" {
		t.Fatalf("reset for policy %s, want PA10001", person.PolicyNumber)
	}

	// New password is live, old one is not.
	if _, _, _, err := svc.Login(context.Background(), "Jane$Doe7", "Fresh@Pass9"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "Jane$Doe7", "Jane@Doe1"); err == nil {
		t.Fatal("login with old password still works")
	}

	_, err = svc.ResetPassword(context.Background(), code, "Other@Pass9", "Other@Pass9")
	domainErr := assertDomainCode(t, err, "INVALID_OR_EXPIRED_CODE")
	if domainErr.Message != "Invalid or expired OTP" {
		t.Fatalf("message = %q", domainErr.Message)
	}
}

func TestResetPasswordUnknownCode(t *testing.T) {
	svc, _ := newAuthService(newMockPersonRepo(), &mockMailer{})

	_, err := svc.ResetPassword(context.Background(), "000000", "Fresh@Pass9", "Fresh@Pass9")
	assertDomainCode(t, err, "INVALID_OR_EXPIRED_CODE")
}

func TestResetPasswordMismatchConsumesCode(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	mailer := &mockMailer{}
	svc, _ := newAuthService(repo, mailer)

	if _, err := svc.ForgotPassword(context.Background(), "Jane$Doe7"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	code := otpPattern.FindString(mailer.sent[0].body)

	_, err := svc.ResetPassword(context.Background(), code, "Fresh@Pass9", "Other@Pass9")
	domainErr := assertDomainCode(t, err, "UNAUTHORIZED")
	if domainErr.Message != "Passwords do not match" {
		t.Fatalf("message = %q", domainErr.Message)
	}

	// The code died at match time: a corrected retry needs a fresh one.
	_, err = svc.ResetPassword(context.Background(), code, "Fresh@Pass9", "Fresh@Pass9")
	assertDomainCode(t, err, "INVALID_OR_EXPIRED_CODE")
}

func TestResetPasswordWeakPassword(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	mailer := &mockMailer{}
	svc, _ := newAuthService(repo, mailer)

	if _, err := svc.ForgotPassword(context.Background(), "Jane$Doe7"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	code := otpPattern.FindString(mailer.sent[0].body)

	_, err := svc.ResetPassword(context.Background(), code, "weak", "weak")
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestChangePassword(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	svc, _ := newAuthService(repo, &mockMailer{})

	if _, err := svc.ChangePassword(context.Background(), "Jane$Doe7", "Jane@Doe1", "Fresh@Pass9", "Fresh@Pass9"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "Jane$Doe7", "Fresh@Pass9"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	repo := newMockPersonRepo()
	seedPerson(t, repo, "PA10001", "Jane$Doe7", "Jane@Doe1")
	svc, _ := newAuthService(repo, &mockMailer{})

	_, err := svc.ChangePassword(context.Background(), "Jane$Doe7", "Wrong@Old1", "Fresh@Pass9", "Fresh@Pass9")
	domainErr := assertDomainCode(t, err, "UNAUTHORIZED")
	if domainErr.Message != "Invalid old password credentials!!! Please try again." {
		t.Fatalf("message = %q", domainErr.Message)
	}
}
