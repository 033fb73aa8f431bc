package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/insured-person-service/internal/api/http/handlers"
	"github.com/spec-kit/insured-person-service/internal/auth"
)

// PublicPaths is the gateway allow list: registration, login, the
// password lifecycle, profile-picture downloads, and health probes.
var PublicPaths = []string{
	"/health/live",
	"/health/ready",
	"POST /api/insuredpersons",
	"/api/insuredpersons/login",
	"/api/insuredpersons/forgot-password",
	"/api/insuredpersons/reset-password",
	"/api/insuredpersons/change-password",
	"/api/insuredpersons/profile-picture/",
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Persons *handlers.InsuredPersonsHandler
	Gateway *auth.Gateway
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/insuredpersons", cfg.Gateway.Handle)

	// Public per the allow list.
	api.Post("/", cfg.Persons.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Post("/forgot-password", cfg.Auth.ForgotPassword)
	api.Post("/reset-password", cfg.Auth.ResetPassword)
	api.Put("/change-password", cfg.Auth.ChangePassword)
	api.Get("/profile-picture/:policyNumber", cfg.Persons.GetProfilePicture)

	// Protected; handlers apply the access policy per operation.
	api.Get("/", cfg.Persons.List)
	api.Get("/policySearch", cfg.Persons.Search)
	api.Get("/findByFirstName", cfg.Persons.FindByFirstName)
	api.Get("/findByLastName", cfg.Persons.FindByLastName)
	api.Get("/findByFirstChar", cfg.Persons.FindByFirstChar)
	api.Get("/:policyNumber", cfg.Persons.FindByPolicyNumber)
	api.Patch("/:policyNumber", cfg.Persons.Update)
	api.Delete("/:policyNumber", cfg.Persons.Delete)
	api.Put("/:policyNumber/profile-picture", cfg.Persons.UploadProfilePicture)
	api.Get("/:policyNumber/documents", cfg.Persons.ListDocuments)
}
