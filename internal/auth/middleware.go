package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-hub/internal/domain"
	apperrors "github.com/spec-kit/project-hub/pkg/util"
)

const principalKey = "auth_principal"

// Gate intercepts every inbound request, classifies the route, verifies the
// bearer token where one is required and binds the resulting Principal for the
// rest of request handling. Authorization failures short-circuit the request.
type Gate struct {
	issuer *TokenIssuer
	rules  []RouteRule
}

// NewGate constructs the gate with a verifier and a static rule table.
func NewGate(issuer *TokenIssuer, rules []RouteRule) *Gate {
	if rules == nil {
		rules = DefaultRouteRules
	}
	return &Gate{issuer: issuer, rules: rules}
}

// Handle is the fiber middleware entry point.
func (g *Gate) Handle(c *fiber.Ctx) error {
	access := Classify(g.rules, c.Path())
	if access == AccessPublic {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	principal, err := g.issuer.Verify(parts[1])
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewTokenExpired("session token expired")
		}
		return apperrors.NewUnauthenticated("invalid token")
	}

	if access == AccessAdmin && principal.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
