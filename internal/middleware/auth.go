package middleware

import (
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	userLocal    = "user"
	advisorLocal = "advisor_id"
)

// RequireAuth ensures an advisor is in the session and exposes its id to
// handlers through AdvisorID. Returns 401 in the standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := advisorIDFromUser(c.Locals(userLocal))
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals(advisorLocal, id)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// AdvisorID returns the authenticated advisor. ok is false outside RequireAuth.
func AdvisorID(c *fiber.Ctx) (id uuid.UUID, ok bool) {
	id, ok = c.Locals(advisorLocal).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func advisorIDFromUser(user interface{}) (uuid.UUID, bool) {
	m, ok := user.(map[string]interface{})
	if !ok {
		return uuid.Nil, false
	}
	s, _ := m["advisor_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
