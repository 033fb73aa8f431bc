package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/insured-person-service/pkg/util"
)

const claimsKey = "auth_claims"

// Gateway validates bearer tokens on every protected route and attaches
// the caller's claims to the request context. Routes on the allow list
// pass through untouched; downstream handlers call Authorize with the
// operation's access level and the target record's policy number.
type Gateway struct {
	tokens    *TokenManager
	allowList []string
}

// NewGateway constructs the gateway. Allow-list entries ending in "/"
// match as prefixes, everything else matches exactly. An entry may be
// qualified with a method ("POST /api/insuredpersons"); unqualified
// entries match any method.
func NewGateway(tokens *TokenManager, allowList []string) *Gateway {
	return &Gateway{tokens: tokens, allowList: allowList}
}

// Handle enforces authentication for protected routes.
func (g *Gateway) Handle(c *fiber.Ctx) error {
	if g.allowed(c.Method(), c.Path()) {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("Missing or invalid Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("Missing or invalid Authorization header")
	}

	claims, err := g.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewInvalidToken("Invalid or expired token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (g *Gateway) allowed(method, path string) bool {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, entry := range g.allowList {
		if m, p, ok := strings.Cut(entry, " "); ok {
			if !strings.EqualFold(m, method) {
				continue
			}
			entry = p
		}
		if strings.HasSuffix(entry, "/") {
			if strings.HasPrefix(path, entry) {
				return true
			}
			continue
		}
		if path == entry {
			return true
		}
	}
	return false
}

// ClaimsFromContext retrieves the authenticated caller's claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
