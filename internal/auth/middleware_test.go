package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

func newGatewayApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})

	gateway := NewGateway(tm, []string{"/public"})
	app.Use(gateway.Handle)
	app.Get("/public", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/protected", func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("no claims")
		}
		return c.SendString(claims.Subject)
	})
	return app
}

func TestGatewayAllowList(t *testing.T) {
	app := newGatewayApp(t, NewTokenManager("test-secret", 5))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGatewayMissingHeader(t *testing.T) {
	app := newGatewayApp(t, NewTokenManager("test-secret", 5))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGatewayMalformedHeader(t *testing.T) {
	app := newGatewayApp(t, NewTokenManager("test-secret", 5))

	for _, header := range []string{"Basic abc", "Bearer", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, resp.StatusCode)
		}
	}
}

func TestGatewayInvalidToken(t *testing.T) {
	app := newGatewayApp(t, NewTokenManager("test-secret", 5))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGatewayAttachesClaims(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	app := newGatewayApp(t, tm)

	token, _, err := tm.GenerateToken(testPerson())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != "PA1234" {
		t.Errorf("subject = %q, want PA1234", got)
	}
}

func TestGatewayMethodQualifiedAllowList(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})
	gateway := NewGateway(NewTokenManager("test-secret", 5), []string{"POST /records"})
	app.Use(gateway.Handle)
	handler := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Post("/records", handler)
	app.Get("/records", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/records", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d, want 200", resp.StatusCode)
	}

	// Same path, different method: still behind the gateway.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/records", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("GET status = %d, want 401", resp.StatusCode)
	}
}
