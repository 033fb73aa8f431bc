package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/insured-person-service/internal/api/dto"
	"github.com/spec-kit/insured-person-service/internal/auth"
	"github.com/spec-kit/insured-person-service/internal/domain"
	"github.com/spec-kit/insured-person-service/internal/service"
	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

// InsuredPersonsHandler manages the insured person CRUD endpoints.
type InsuredPersonsHandler struct {
	service *service.InsuredPersonService
}

// NewInsuredPersonsHandler constructs handler.
func NewInsuredPersonsHandler(personService *service.InsuredPersonService) *InsuredPersonsHandler {
	return &InsuredPersonsHandler{service: personService}
}

// Register handles POST /api/insuredpersons. Accepts JSON or multipart
// form data; in the multipart case up to five files may be attached
// under the "documents" field.
func (h *InsuredPersonsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterPersonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PolicyNumber == "" || req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("policyNumber, userId, password required", nil)
	}

	input := service.RegisterInput{
		PolicyNumber:    req.PolicyNumber,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             req.Age,
		Role:            req.Role,
		Email:           req.Email,
		UserID:          req.UserID,
		Password:        req.Password,
		PhoneNumber:     req.PhoneNumber,
		Street:          req.Street,
		Apartment:       req.Apartment,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		Zipcode:         req.Zipcode,
		TypeOfInsurance: req.TypeOfInsurance,
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["documents"] {
			src, err := file.Open()
			if err != nil {
				return apperrors.NewValidationError("failed to read document: "+file.Filename, nil)
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				return apperrors.NewValidationError("failed to read document: "+file.Filename, nil)
			}
			input.Documents = append(input.Documents, service.DocumentInput{
				FileName: file.Filename,
				FileType: file.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	}

	person, err := h.service.Register(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":  http.StatusCreated,
		"message": "InsuredPerson created successfully",
		"data":    dto.NewPersonResponse(person),
	})
}

// List handles GET /api/insuredpersons.
func (h *InsuredPersonsHandler) List(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims.Role, claims.Subject, "", auth.AccessAdminOnly); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("offSet", "0"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "3"))

	result, err := h.service.List(c.Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":        http.StatusOK,
		"message":       "All InsuredPersons retrieved successfully",
		"data":          dto.NewPersonResponses(result.Items),
		"hasNext":       result.HasNext,
		"hasPrevious":   result.HasPrevious,
		"totalPages":    result.TotalPages,
		"totalElements": result.TotalElements,
		"currentPage":   result.CurrentPage,
	})
}

// Search handles GET /api/insuredpersons/policySearch. A policy-number
// hit is self-or-admin scoped; the field fallback is admin only.
func (h *InsuredPersonsHandler) Search(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	query := c.Query("query")
	if query == "" {
		return apperrors.NewValidationError("query required", nil)
	}

	person, err := h.service.FindByPolicyNumber(c.Context(), query)
	if err == nil {
		if err := auth.Authorize(claims.Role, claims.Subject, person.PolicyNumber, auth.AccessSelfOrAdmin); err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status":  http.StatusOK,
			"message": "Policy retrieved successfully",
			"data":    []dto.PersonResponse{dto.NewPersonResponse(person)},
		})
	}
	if !isNotFound(err) {
		return err
	}

	if err := auth.Authorize(claims.Role, claims.Subject, "", auth.AccessAdminOnly); err != nil {
		return err
	}

	persons, err := h.service.SearchByAnyField(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Records retrieved successfully",
		"data":    dto.NewPersonResponses(persons),
	})
}

// FindByPolicyNumber handles GET /api/insuredpersons/:policyNumber.
func (h *InsuredPersonsHandler) FindByPolicyNumber(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	person, err := h.service.FindByPolicyNumber(c.Context(), c.Params("policyNumber"))
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims.Role, claims.Subject, person.PolicyNumber, auth.AccessSelfOrAdmin); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "InsuredPerson retrieved successfully",
		"data":    dto.NewPersonResponse(person),
	})
}

// FindByFirstName handles GET /api/insuredpersons/findByFirstName.
func (h *InsuredPersonsHandler) FindByFirstName(c *fiber.Ctx) error {
	return h.adminSearch(c, c.Query("firstName"), "firstName", h.service.FindByFirstName)
}

// FindByLastName handles GET /api/insuredpersons/findByLastName.
func (h *InsuredPersonsHandler) FindByLastName(c *fiber.Ctx) error {
	return h.adminSearch(c, c.Query("lastName"), "lastName", h.service.FindByLastName)
}

// FindByFirstChar handles GET /api/insuredpersons/findByFirstChar.
func (h *InsuredPersonsHandler) FindByFirstChar(c *fiber.Ctx) error {
	return h.adminSearch(c, c.Query("firstChar"), "firstChar", h.service.FindByFirstCharOfFirstName)
}

// Update handles PATCH /api/insuredpersons/:policyNumber.
func (h *InsuredPersonsHandler) Update(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims.Role, claims.Subject, "", auth.AccessAdminOnly); err != nil {
		return err
	}

	var req dto.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	person, err := h.service.Update(c.Context(), c.Params("policyNumber"), service.UpdateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             req.Age,
		Role:            req.Role,
		Email:           req.Email,
		UserID:          req.UserID,
		PhoneNumber:     req.PhoneNumber,
		Street:          req.Street,
		Apartment:       req.Apartment,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		Zipcode:         req.Zipcode,
		TypeOfInsurance: req.TypeOfInsurance,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "InsuredPerson updated successfully",
		"data":    dto.NewPersonResponse(person),
	})
}

// Delete handles DELETE /api/insuredpersons/:policyNumber.
func (h *InsuredPersonsHandler) Delete(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims.Role, claims.Subject, "", auth.AccessAdminOnly); err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), c.Params("policyNumber")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "InsuredPerson deleted successfully",
	})
}

// UploadProfilePicture handles PUT /api/insuredpersons/:policyNumber/profile-picture.
func (h *InsuredPersonsHandler) UploadProfilePicture(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	policyNumber := c.Params("policyNumber")
	if err := auth.Authorize(claims.Role, claims.Subject, policyNumber, auth.AccessSelfOrAdmin); err != nil {
		return err
	}

	file, err := c.FormFile("profilePicture")
	if err != nil {
		return apperrors.NewValidationError("profilePicture file required", nil)
	}
	src, err := file.Open()
	if err != nil {
		return apperrors.NewValidationError("failed to read profile picture", nil)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return apperrors.NewValidationError("failed to read profile picture", nil)
	}

	if err := h.service.SaveProfilePicture(c.Context(), policyNumber, data); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Profile picture uploaded successfully",
	})
}

// GetProfilePicture handles GET /api/insuredpersons/profile-picture/:policyNumber.
func (h *InsuredPersonsHandler) GetProfilePicture(c *fiber.Ctx) error {
	picture, err := h.service.GetProfilePicture(c.Context(), c.Params("policyNumber"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, http.DetectContentType(picture))
	return c.Send(picture)
}

// ListDocuments handles GET /api/insuredpersons/:policyNumber/documents.
func (h *InsuredPersonsHandler) ListDocuments(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	policyNumber := c.Params("policyNumber")
	if err := auth.Authorize(claims.Role, claims.Subject, policyNumber, auth.AccessSelfOrAdmin); err != nil {
		return err
	}

	documents, err := h.service.ListDocuments(c.Context(), policyNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "Documents retrieved successfully",
		"data":    dto.NewDocumentSummaries(documents),
	})
}

func (h *InsuredPersonsHandler) adminSearch(c *fiber.Ctx, value, name string, find func(context.Context, string) ([]domain.InsuredPerson, error)) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(claims.Role, claims.Subject, "", auth.AccessAdminOnly); err != nil {
		return err
	}
	if value == "" {
		return apperrors.NewValidationError(name+" is required", nil)
	}

	persons, err := find(c.Context(), value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  http.StatusOK,
		"message": "InsuredPersons retrieved successfully",
		"data":    dto.NewPersonResponses(persons),
	})
}

func requireClaims(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("Missing or invalid Authorization header")
	}
	return claims, nil
}

func isNotFound(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
