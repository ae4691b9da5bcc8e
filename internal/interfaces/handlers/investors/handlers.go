package investors

import (
	invsvc "wealthdesk-backend/internal/application/investors"
	"wealthdesk-backend/internal/interfaces/handlers/params"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *invsvc.Service
}

func parseInput(c *fiber.Ctx) (invsvc.Input, error) {
	var in invsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return in, nil
}

// POST /api/v1/investors
func (h *Handlers) Create(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	in, err := parseInput(c)
	if err != nil {
		return response.FromError(c, err)
	}
	inv, err := h.Service.Create(c.UserContext(), advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Investor created successfully", inv, nil)
}

// GET /api/v1/investors?profile=
func (h *Handlers) List(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.Service.List(c.UserContext(), advisorID, c.Query("profile"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investors fetched successfully", list, fiber.Map{"count": len(list)})
}

// GET /api/v1/investors/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	inv, err := h.Service.Get(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investor fetched successfully", inv, nil)
}

// PUT /api/v1/investors/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	in, err := parseInput(c)
	if err != nil {
		return response.FromError(c, err)
	}
	inv, err := h.Service.Update(c.UserContext(), id, advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investor updated successfully", inv, nil)
}

// DELETE /api/v1/investors/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, advisorID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investor deleted successfully", nil, nil)
}
