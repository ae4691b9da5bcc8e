// Package params reads path parameters and the authenticated advisor for
// the API handlers.
package params

import (
	"wealthdesk-backend/internal/middleware"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UUID parses the named path parameter.
func UUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	s := c.Params(name)
	if s == "" {
		return uuid.Nil, apperr.BadRequestf("%s is required", name)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.BadRequestf("Invalid %s format", name)
	}
	return id, nil
}

// OptionalUUID parses the named query parameter; empty yields uuid.Nil.
func OptionalUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	s := c.Query(name)
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.BadRequestf("Invalid %s format", name)
	}
	return id, nil
}

// Advisor returns the advisor set by middleware.RequireAuth.
func Advisor(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.AdvisorID(c)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

// AdvisorAndID combines Advisor and UUID(c, "id"), the common prologue of
// the item routes.
func AdvisorAndID(c *fiber.Ctx) (advisorID, id uuid.UUID, err error) {
	if advisorID, err = Advisor(c); err != nil {
		return
	}
	id, err = UUID(c, "id")
	return
}
