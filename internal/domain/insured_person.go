package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the coarse-grained permission class attached to an insured person.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole resolves a role value ignoring case. Unknown values are
// returned as-is so the access policy can reject them explicitly.
func ParseRole(value string) Role {
	switch strings.ToLower(value) {
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	default:
		return Role(value)
	}
}

// InsuranceType enumerates supported policy categories.
type InsuranceType string

const (
	InsuranceAuto   InsuranceType = "Auto"
	InsuranceHealth InsuranceType = "Health"
	InsuranceLife   InsuranceType = "Life"
	InsuranceHome   InsuranceType = "Home"
	InsuranceTravel InsuranceType = "Travel"
)

// ParseInsuranceType resolves an insurance type label ignoring case.
func ParseInsuranceType(value string) (InsuranceType, error) {
	for _, t := range []InsuranceType{InsuranceAuto, InsuranceHealth, InsuranceLife, InsuranceHome, InsuranceTravel} {
		if strings.EqualFold(string(t), value) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid insurance type: %s", value)
}

// InsuredPerson is the domain model for policy holders. The policy
// number is the business primary key and the ownership key for access
// decisions.
type InsuredPerson struct {
	PolicyNumber    string
	FirstName       string
	LastName        string
	Age             *int
	Role            Role
	Email           string
	UserID          string
	PasswordHash    string
	PhoneNumber     string
	Street          string
	Apartment       string
	City            string
	State           string
	Country         string
	Zipcode         string
	TypeOfInsurance InsuranceType
	ProfilePicture  []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
