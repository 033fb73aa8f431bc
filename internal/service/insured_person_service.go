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

// InsuredPersonService coordinates record management workflows.
type InsuredPersonService struct {
	persons    repository.InsuredPersonRepository
	documents  repository.DocumentRepository
	pictures   *repository.PictureCache
	mailer     Mailer
	dispatcher events.Dispatcher
	bcryptCost int
}

// PersonDependencies bundles collaborators for the person service.
type PersonDependencies struct {
	PersonRepo   repository.InsuredPersonRepository
	DocumentRepo repository.DocumentRepository
	PictureCache *repository.PictureCache
	Mailer       Mailer
	Dispatcher   events.Dispatcher
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	PolicyNumber    string
	FirstName       string
	LastName        string
	Age             *int
	Role            string
	Email           string
	UserID          string
	Password        string
	PhoneNumber     string
	Street          string
	Apartment       string
	City            string
	State           string
	Country         string
	Zipcode         string
	TypeOfInsurance string
	Documents       []DocumentInput
}

// DocumentInput carries an uploaded file.
type DocumentInput struct {
	FileName string
	FileType string
	Data     []byte
}

// UpdateInput describes a partial update; nil fields are left unchanged.
type UpdateInput struct {
	FirstName       *string
	LastName        *string
	Age             *int
	Role            *string
	Email           *string
	UserID          *string
	PhoneNumber     *string
	Street          *string
	Apartment       *string
	City            *string
	State           *string
	Country         *string
	Zipcode         *string
	TypeOfInsurance *string
}

// PersonPage is one page of a listing.
type PersonPage struct {
	Items         []domain.InsuredPerson
	TotalElements int64
	TotalPages    int
	CurrentPage   int
	HasNext       bool
	HasPrevious   bool
}

// NewInsuredPersonService constructs the service.
func NewInsuredPersonService(cfg config.Config, deps PersonDependencies) *InsuredPersonService {
	return &InsuredPersonService{
		persons:    deps.PersonRepo,
		documents:  deps.DocumentRepo,
		pictures:   deps.PictureCache,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new insured person, stores any attached documents,
// and sends a welcome email whose failure is surfaced to the caller.
func (s *InsuredPersonService) Register(ctx context.Context, input RegisterInput) (*domain.InsuredPerson, error) {
	if exists, err := s.persons.ExistsByPolicyNumber(ctx, input.PolicyNumber); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.NewConflict("Policy number already exists: "+input.PolicyNumber, nil)
	}
	if exists, err := s.persons.ExistsByUserID(ctx, input.UserID); err != nil {
		return nil, err
	} else if exists {
		return nil, apperrors.NewConflict("User id already exists: "+input.UserID, nil)
	}

	if err := ValidateUserID(input.UserID); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := ValidatePolicyNumber(input.PolicyNumber); err != nil {
		return nil, err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	insuranceType, err := domain.ParseInsuranceType(input.TypeOfInsurance)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if len(input.Documents) > domain.MaxDocumentsPerPerson {
		return nil, apperrors.NewValidationError("You can upload a maximum of 5 documents.", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	person := &domain.InsuredPerson{
		PolicyNumber:    input.PolicyNumber,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Age:             input.Age,
		Role:            domain.ParseRole(input.Role),
		Email:           input.Email,
		UserID:          input.UserID,
		PasswordHash:    hash,
		PhoneNumber:     input.PhoneNumber,
		Street:          input.Street,
		Apartment:       input.Apartment,
		City:            input.City,
		State:           input.State,
		Country:         input.Country,
		Zipcode:         input.Zipcode,
		TypeOfInsurance: insuranceType,
	}
	if err := s.persons.Create(ctx, person); err != nil {
		return nil, err
	}

	for _, doc := range input.Documents {
		if len(doc.Data) == 0 {
			continue
		}
		document := &domain.Document{
			ID:           uuid.NewString(),
			PolicyNumber: person.PolicyNumber,
			FileName:     doc.FileName,
			FileType:     doc.FileType,
			SizeBytes:    int64(len(doc.Data)),
			Data:         doc.Data,
		}
		if err := s.documents.Create(ctx, document); err != nil {
			return nil, err
		}
	}

	body := fmt.Sprintf("Hello %s,\n\nThank you for registering with our Insurance company.\n\n"+
		"Here are your login credentials:\nUsername: %s\n"+
		"To reset your password or set a new one, please use the forgot-password flow.\n\n"+
		"Thanks,\nOperations Team", person.FirstName, person.UserID)
	if err := s.mailer.Send(ctx, person.Email, "Insurance Portal Credentials Created Successfully", body); err != nil {
		return nil, apperrors.NewUnauthorized("Failed to send reset email. Please check your email configuration.")
	}

	s.publish(ctx, events.EventPersonRegistered, person.PolicyNumber, events.PersonRegisteredPayload{
		UserID:          person.UserID,
		Email:           person.Email,
		Role:            person.Role,
		TypeOfInsurance: person.TypeOfInsurance,
		DocumentCount:   len(input.Documents),
	})

	return person, nil
}

// List returns one page of insured persons.
func (s *InsuredPersonService) List(ctx context.Context, page, pageSize int) (*PersonPage, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = 3
	}

	items, total, err := s.persons.List(ctx, page*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &PersonPage{
		Items:         items,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		HasNext:       page+1 < totalPages,
		HasPrevious:   page > 0,
	}, nil
}

// FindByPolicyNumber fetches a single record.
func (s *InsuredPersonService) FindByPolicyNumber(ctx context.Context, policyNumber string) (*domain.InsuredPerson, error) {
	person, err := s.persons.GetByPolicyNumber(ctx, policyNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("InsuredPerson not found with policyNumber: " + policyNumber)
		}
		return nil, err
	}
	return person, nil
}

// FindByUserID fetches a single record by login id.
func (s *InsuredPersonService) FindByUserID(ctx context.Context, userID string) (*domain.InsuredPerson, error) {
	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with userId: " + userID)
		}
		return nil, err
	}
	return person, nil
}

// FindByFirstName lists records matching a first name.
func (s *InsuredPersonService) FindByFirstName(ctx context.Context, firstName string) ([]domain.InsuredPerson, error) {
	persons, err := s.persons.FindByFirstName(ctx, firstName)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with firstName: " + firstName)
	}
	return persons, nil
}

// FindByLastName lists records matching a last name.
func (s *InsuredPersonService) FindByLastName(ctx context.Context, lastName string) ([]domain.InsuredPerson, error) {
	persons, err := s.persons.FindByLastName(ctx, lastName)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with lastName: " + lastName)
	}
	return persons, nil
}

// FindByFirstCharOfFirstName lists records whose first name starts with
// the given prefix.
func (s *InsuredPersonService) FindByFirstCharOfFirstName(ctx context.Context, firstChar string) ([]domain.InsuredPerson, error) {
	persons, err := s.persons.FindByFirstNameStartingWith(ctx, firstChar)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with starting character: " + firstChar)
	}
	return persons, nil
}

// FindByEmail lists records matching an email address.
func (s *InsuredPersonService) FindByEmail(ctx context.Context, email string) ([]domain.InsuredPerson, error) {
	persons, err := s.persons.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with email: " + email)
	}
	return persons, nil
}

// FindByPhoneNumber lists records matching a phone number.
func (s *InsuredPersonService) FindByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.InsuredPerson, error) {
	persons, err := s.persons.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with phone number: " + phoneNumber)
	}
	return persons, nil
}

// SearchByAnyField tries each field one by one; first match wins.
func (s *InsuredPersonService) SearchByAnyField(ctx context.Context, query string) ([]domain.InsuredPerson, error) {
	finders := []func(context.Context, string) ([]domain.InsuredPerson, error){
		s.FindByFirstName,
		s.FindByLastName,
		s.FindByFirstCharOfFirstName,
		s.FindByEmail,
		s.FindByPhoneNumber,
	}
	for _, find := range finders {
		persons, err := find(ctx, query)
		if err == nil {
			return persons, nil
		}
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			return nil, err
		}
	}

	person, err := s.FindByUserID(ctx, query)
	if err == nil {
		return []domain.InsuredPerson{*person}, nil
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		return nil, err
	}
	return nil, apperrors.NewNotFoundMessage("No InsuredPerson found with query: " + query)
}

// Update applies a partial update and notifies the record's owner.
func (s *InsuredPersonService) Update(ctx context.Context, policyNumber string, input UpdateInput) (*domain.InsuredPerson, error) {
	person, err := s.FindByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return nil, err
	}

	var updated []string
	apply := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			updated = append(updated, field)
		}
	}
	apply("firstName", &person.FirstName, input.FirstName)
	apply("lastName", &person.LastName, input.LastName)
	apply("email", &person.Email, input.Email)
	apply("phoneNumber", &person.PhoneNumber, input.PhoneNumber)
	apply("street", &person.Street, input.Street)
	apply("apartment", &person.Apartment, input.Apartment)
	apply("city", &person.City, input.City)
	apply("state", &person.State, input.State)
	apply("country", &person.Country, input.Country)
	apply("zipcode", &person.Zipcode, input.Zipcode)

	if input.Age != nil {
		person.Age = input.Age
		updated = append(updated, "age")
	}
	if input.Role != nil {
		person.Role = domain.ParseRole(*input.Role)
		updated = append(updated, "role")
	}
	if input.TypeOfInsurance != nil {
		insuranceType, err := domain.ParseInsuranceType(*input.TypeOfInsurance)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		person.TypeOfInsurance = insuranceType
		updated = append(updated, "typeOfInsurance")
	}
	if input.UserID != nil {
		existing, err := s.persons.GetByUserID(ctx, *input.UserID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if existing != nil && existing.PolicyNumber != policyNumber {
			return nil, apperrors.NewConflict("UserId already exists: "+*input.UserID, nil)
		}
		person.UserID = *input.UserID
		updated = append(updated, "userId")
	}

	if err := s.persons.Update(ctx, person); err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nAs per your request we updated your details in our portal, "+
		"please check the same with your credentials. If you have any concerns please let our "+
		"insurance company know, we will follow up the same.\n\nThanks,\nOperations Team", person.FirstName)
	if err := s.mailer.Send(ctx, person.Email, "Insurance Portal Details Updated Successfully", body); err != nil {
		return nil, apperrors.NewUnauthorized("Failed to send reset email. Please check your email configuration.")
	}

	s.publish(ctx, events.EventPersonUpdated, person.PolicyNumber, events.PersonUpdatedPayload{UpdatedFields: updated})
	return person, nil
}

// Delete removes a record by policy number.
func (s *InsuredPersonService) Delete(ctx context.Context, policyNumber string) error {
	if err := s.persons.Delete(ctx, policyNumber); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage("InsuredPerson not found with policyNumber: " + policyNumber)
		}
		return err
	}
	s.pictures.Invalidate(ctx, policyNumber)
	s.publish(ctx, events.EventPersonDeleted, policyNumber, nil)
	return nil
}

// SaveProfilePicture stores a picture and invalidates the cache.
func (s *InsuredPersonService) SaveProfilePicture(ctx context.Context, policyNumber string, picture []byte) error {
	if err := s.persons.SaveProfilePicture(ctx, policyNumber, picture); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage("InsuredPerson not found with policyNumber: " + policyNumber)
		}
		return err
	}
	s.pictures.Invalidate(ctx, policyNumber)
	return nil
}

// GetProfilePicture serves a picture, preferring the redis cache.
func (s *InsuredPersonService) GetProfilePicture(ctx context.Context, policyNumber string) ([]byte, error) {
	if picture, ok := s.pictures.Get(ctx, policyNumber); ok {
		return picture, nil
	}

	picture, err := s.persons.GetProfilePicture(ctx, policyNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("InsuredPerson not found with policyNumber: " + policyNumber)
		}
		return nil, err
	}
	if len(picture) == 0 {
		return nil, apperrors.NewNotFoundMessage("No profile picture found for policyNumber: " + policyNumber)
	}

	s.pictures.Set(ctx, policyNumber, picture)
	return picture, nil
}

// ListDocuments returns document metadata for a record.
func (s *InsuredPersonService) ListDocuments(ctx context.Context, policyNumber string) ([]domain.Document, error) {
	if _, err := s.FindByPolicyNumber(ctx, policyNumber); err != nil {
		return nil, err
	}
	return s.documents.ListByPolicyNumber(ctx, policyNumber)
}

// GetDocument fetches a single document with its data.
func (s *InsuredPersonService) GetDocument(ctx context.Context, policyNumber, fileName string) (*domain.Document, error) {
	document, err := s.documents.GetByPolicyNumberAndFileName(ctx, policyNumber, fileName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("No document found with fileName: " + fileName)
		}
		return nil, err
	}
	return document, nil
}

func (s *InsuredPersonService) publish(ctx context.Context, eventType events.EventType, policyNumber string, payload interface{}) {
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
