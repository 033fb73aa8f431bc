package auth

import (
	"github.com/spec-kit/insured-person-service/internal/domain"
	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

// AccessLevel classifies how much privilege an operation demands.
type AccessLevel string

const (
	// AccessSelfOrAdmin is satisfied by the caller owning the target
	// record or by the Admin role.
	AccessSelfOrAdmin AccessLevel = "SELF_OR_ADMIN"
	// AccessAdminOnly is satisfied only by the Admin role, regardless of
	// ownership.
	AccessAdminOnly AccessLevel = "ADMIN_ONLY"
)

// Authorize is the central access decision. Rules are evaluated in
// order, first match wins. A nil return means Allow; every Deny carries
// an UNAUTHORIZED error. The function is pure and total: well-formed
// inputs always produce a decision.
func Authorize(callerRole domain.Role, callerSubject, targetSubject string, level AccessLevel) error {
	switch callerRole {
	case domain.RoleAdmin:
		return nil
	case domain.RoleUser:
		if level == AccessSelfOrAdmin {
			if callerSubject == targetSubject {
				return nil
			}
			return apperrors.NewUnauthorized("Access denied! You can only view your own details.")
		}
		return apperrors.NewUnauthorized("Admins only")
	default:
		return apperrors.NewUnauthorized("Invalid role")
	}
}
