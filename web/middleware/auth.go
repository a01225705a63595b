package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gtiq/auth"
)

// ClaimsKey is the locals key the parsed token claims are stored under
const ClaimsKey = "claims"

// RequireAuth validates the bearer token and stores its claims in locals
func RequireAuth(tokens *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := bearerClaims(c, tokens)
		if err != nil {
			return err
		}
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// OptionalAuth parses a bearer token when present but lets the request
// through without one. The clock endpoint uses this for its kiosk path.
func OptionalAuth(tokens *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		claims, err := bearerClaims(c, tokens)
		if err != nil {
			return err
		}
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireSuperadmin gates superadmin-only endpoints. An impersonation token
// does not count: support staff must drop back to their own identity first.
func RequireSuperadmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || !claims.Superadmin || claims.Impersonating() {
			return fiber.NewError(fiber.StatusForbidden, "superadmin required")
		}
		return c.Next()
	}
}

// Claims returns the parsed token claims for the request, or nil
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsKey).(*auth.Claims)
	return claims
}

func bearerClaims(c *fiber.Ctx, tokens *auth.TokenIssuer) (*auth.Claims, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "authorization header missing")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
	}

	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
