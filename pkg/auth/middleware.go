package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

const tenantIDLocal = "tenant_id"

// Middleware authenticates requests with either a Bearer access token or an
// X-API-Key header and stores the resolved tenant in the request context.
func Middleware(tokens TokenService, keys APIKeyResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey := c.Get("X-API-Key"); apiKey != "" && keys != nil {
			tenantID, err := keys.ResolveTenant(apiKey)
			if err != nil {
				return err
			}
			c.Locals(tenantIDLocal, tenantID)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return ErrMissingCredentials()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return ErrInvalidToken().WithDetail("reason", "expected Bearer scheme")
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return err
		}

		c.Locals(tenantIDLocal, claims.TenantID)
		return c.Next()
	}
}

// GetTenantID extracts the authenticated tenant from the request context.
func GetTenantID(c *fiber.Ctx) (kernel.TenantID, bool) {
	tenantID, ok := c.Locals(tenantIDLocal).(kernel.TenantID)
	return tenantID, ok
}
