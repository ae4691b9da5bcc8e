package insights

import (
	inssvc "wealthdesk-backend/internal/application/insights"
	"wealthdesk-backend/internal/interfaces/handlers/params"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *inssvc.Service
}

// POST /api/v1/insights/investors/:id
func (h *Handlers) Generate(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	in, err := h.Service.Generate(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Insight generated successfully", in, nil)
}

// GET /api/v1/insights/investors/:id
func (h *Handlers) List(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.Service.List(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Insights fetched successfully", list, fiber.Map{"count": len(list)})
}
