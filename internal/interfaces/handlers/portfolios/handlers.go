package portfolios

import (
	portsvc "wealthdesk-backend/internal/application/portfolios"
	"wealthdesk-backend/internal/interfaces/handlers/params"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *portsvc.Service
}

func (h *Handlers) body(c *fiber.Ctx) (uuid.UUID, portsvc.Input, error) {
	var in portsvc.Input
	advisorID, err := params.Advisor(c)
	if err != nil {
		return uuid.Nil, in, err
	}
	if err := c.BodyParser(&in); err != nil {
		return uuid.Nil, in, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return advisorID, in, nil
}

// POST /api/v1/portfolios
func (h *Handlers) Create(c *fiber.Ctx) error {
	advisorID, in, err := h.body(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Create(c.UserContext(), advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Portfolio created successfully", p, nil)
}

// POST /api/v1/portfolios/simulate: validate and project without saving.
func (h *Handlers) Simulate(c *fiber.Ctx) error {
	advisorID, in, err := h.body(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Simulate(c.UserContext(), advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio simulated successfully", p, fiber.Map{"persisted": false})
}

// GET /api/v1/portfolios
func (h *Handlers) List(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.Service.List(c.UserContext(), advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolios fetched successfully", list, fiber.Map{"count": len(list)})
}

// GET /api/v1/portfolios/models
func (h *Handlers) ListModels(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.Service.ListModels(c.UserContext(), advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Model portfolios fetched successfully", list, fiber.Map{"count": len(list)})
}

// GET /api/v1/portfolios/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Get(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio fetched successfully", p, nil)
}

// PUT /api/v1/portfolios/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	advisorID, in, err := h.body(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := params.UUID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Update(c.UserContext(), id, advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio updated successfully", p, nil)
}

// DELETE /api/v1/portfolios/:id removes the portfolio and its holdings.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, advisorID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio deleted successfully", nil, nil)
}

// POST /api/v1/portfolios/:id/recompute
func (h *Handlers) Recompute(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Recompute(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio recomputed successfully", p, nil)
}
