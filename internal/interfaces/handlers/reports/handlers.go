package reports

import (
	repsvc "wealthdesk-backend/internal/application/reports"
	"wealthdesk-backend/internal/interfaces/handlers/params"
	"wealthdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *repsvc.Service
}

// GET /api/v1/reports/investors/:id
func (h *Handlers) Investor(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	r, err := h.Service.Investor(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Investor report generated successfully", r, nil)
}

// POST /api/v1/reports/investors/:id/snapshots
func (h *Handlers) SaveSnapshot(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	snap, err := h.Service.SaveSnapshot(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Report snapshot saved successfully", snap, nil)
}

// GET /api/v1/reports/investors/:id/snapshots
func (h *Handlers) ListSnapshots(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	list, err := h.Service.ListSnapshots(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Report snapshots fetched successfully", list, fiber.Map{"count": len(list)})
}
