package middleware

import (
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireActiveAdvisor rejects sessions whose advisor was removed or
// deactivated after login. Mount after RequireAuth.
func RequireActiveAdvisor(advisors domain.AdvisorRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := AdvisorID(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		a, err := advisors.Get(c.UserContext(), id)
		if err != nil {
			if apperr.IsNotFound(err) {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.FromError(c, err)
		}
		if !a.Active {
			return response.Unauthorized(c, "Advisor account is inactive")
		}
		return c.Next()
	}
}
