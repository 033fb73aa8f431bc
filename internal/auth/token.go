package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

// ErrInvalidToken covers signature failures, malformed tokens, and
// expired tokens alike. Token validation never defaults to allow.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 5
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}
}

// Claims describes the JWT payload. The subject is the policy number;
// the rest is a denormalized copy of the identity at issuance time and
// stays stale until re-authentication.
type Claims struct {
	UserID    string      `json:"userId"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Age       *int        `json:"age,omitempty"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// PolicyNumber returns the token subject.
func (c *Claims) PolicyNumber() string {
	return c.Subject
}

// GenerateToken builds and signs a JWT for the insured person.
func (tm *TokenManager) GenerateToken(person *domain.InsuredPerson) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID:    person.UserID,
		FirstName: person.FirstName,
		LastName:  person.LastName,
		Age:       person.Age,
		Role:      person.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   person.PolicyNumber,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns the embedded claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractSubject returns the policy number bound to the token. It fails
// exactly as ParseToken does on bad input.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRole returns the role embedded in the token. It fails exactly
// as ParseToken does on bad input.
func (tm *TokenManager) ExtractRole(tokenStr string) (domain.Role, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
