package dto

import "github.com/spec-kit/insured-person-service/internal/domain"

// RegisterPersonRequest payload for new insured persons.
type RegisterPersonRequest struct {
	PolicyNumber    string `json:"policyNumber"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Age             *int   `json:"age"`
	Role            string `json:"role"`
	Email           string `json:"email"`
	UserID          string `json:"userId"`
	Password        string `json:"password"`
	PhoneNumber     string `json:"phoneNumber"`
	Street          string `json:"street"`
	Apartment       string `json:"apartment"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	Zipcode         string `json:"zipcode"`
	TypeOfInsurance string `json:"typeOfInsurance"`
}

// UpdatePersonRequest payload for partial updates.
type UpdatePersonRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Age             *int    `json:"age"`
	Role            *string `json:"role"`
	Email           *string `json:"email"`
	UserID          *string `json:"userId"`
	PhoneNumber     *string `json:"phoneNumber"`
	Street          *string `json:"street"`
	Apartment       *string `json:"apartment"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Country         *string `json:"country"`
	Zipcode         *string `json:"zipcode"`
	TypeOfInsurance *string `json:"typeOfInsurance"`
}

// PersonResponse is the outward shape of an insured person. The
// password hash and profile picture never leave through it.
type PersonResponse struct {
	PolicyNumber    string               `json:"policyNumber"`
	FirstName       string               `json:"firstName"`
	LastName        string               `json:"lastName"`
	Age             *int                 `json:"age"`
	Role            domain.Role          `json:"role"`
	Email           string               `json:"email"`
	UserID          string               `json:"userId"`
	PhoneNumber     string               `json:"phoneNumber"`
	Street          string               `json:"street"`
	Apartment       string               `json:"apartment"`
	City            string               `json:"city"`
	State           string               `json:"state"`
	Country         string               `json:"country"`
	Zipcode         string               `json:"zipcode"`
	TypeOfInsurance domain.InsuranceType `json:"typeOfInsurance"`
}

// NewPersonResponse maps the domain model to its outward shape.
func NewPersonResponse(person *domain.InsuredPerson) PersonResponse {
	return PersonResponse{
		PolicyNumber:    person.PolicyNumber,
		FirstName:       person.FirstName,
		LastName:        person.LastName,
		Age:             person.Age,
		Role:            person.Role,
		Email:           person.Email,
		UserID:          person.UserID,
		PhoneNumber:     person.PhoneNumber,
		Street:          person.Street,
		Apartment:       person.Apartment,
		City:            person.City,
		State:           person.State,
		Country:         person.Country,
		Zipcode:         person.Zipcode,
		TypeOfInsurance: person.TypeOfInsurance,
	}
}

// NewPersonResponses maps a slice of domain models.
func NewPersonResponses(persons []domain.InsuredPerson) []PersonResponse {
	result := make([]PersonResponse, 0, len(persons))
	for i := range persons {
		result = append(result, NewPersonResponse(&persons[i]))
	}
	return result
}
