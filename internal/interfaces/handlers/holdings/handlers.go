package holdings

import (
	"strings"
	"time"

	holdsvc "wealthdesk-backend/internal/application/holdings"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/interfaces/handlers/params"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/response"
	"wealthdesk-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *holdsvc.Service
}

// holdingRequest is the JSON body of create and update. Dates are strings
// so that plain dates and full timestamps are both accepted.
type holdingRequest struct {
	PortfolioID    uuid.UUID        `json:"portfolio_id"`
	ProductType    string           `json:"product_type"`
	AssetCode      string           `json:"asset_code"`
	AmountInvested *decimal.Decimal `json:"amount_invested"`
	Quantity       *decimal.Decimal `json:"quantity"`
	PurchaseDate   string           `json:"purchase_date"`
	SaleDate       string           `json:"sale_date"`
	CurrentReturn  *decimal.Decimal `json:"current_return"`
	Status         string           `json:"status"`
	Notes          string           `json:"notes"`
}

type closeRequest struct {
	SaleDate    string           `json:"sale_date"`
	FinalReturn *decimal.Decimal `json:"final_return"`
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// optionalDate parses s into *time.Time, recording a field error when the
// value is present but malformed.
func optionalDate(fe validation.FieldErrors, field, s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := validation.ParseDate(s)
	if err != nil {
		fe.Add(field, "Invalid date, expected YYYY-MM-DD or an RFC 3339 timestamp")
		return nil
	}
	return &t
}

func parseInput(c *fiber.Ctx) (holdsvc.Input, error) {
	var req holdingRequest
	if err := c.BodyParser(&req); err != nil {
		return holdsvc.Input{}, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	fe := validation.FieldErrors{}
	in := holdsvc.Input{
		PortfolioID:    req.PortfolioID,
		ProductType:    domain.ProductType(upper(req.ProductType)),
		AssetCode:      req.AssetCode,
		AmountInvested: req.AmountInvested,
		Quantity:       req.Quantity,
		PurchaseDate:   optionalDate(fe, "purchase_date", req.PurchaseDate),
		SaleDate:       optionalDate(fe, "sale_date", req.SaleDate),
		CurrentReturn:  req.CurrentReturn,
		Status:         domain.HoldingStatus(upper(req.Status)),
		Notes:          strings.TrimSpace(req.Notes),
	}
	return in, fe.Err()
}

// POST /api/v1/holdings
func (h *Handlers) Create(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	in, err := parseInput(c)
	if err != nil {
		return response.FromError(c, err)
	}
	holding, err := h.Service.Create(c.UserContext(), advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Holding created successfully", holding, nil)
}

// GET /api/v1/holdings?portfolio_id=&status=
func (h *Handlers) List(c *fiber.Ctx) error {
	advisorID, err := params.Advisor(c)
	if err != nil {
		return response.FromError(c, err)
	}
	portfolioID, err := params.OptionalUUID(c, "portfolio_id")
	if err != nil {
		return response.FromError(c, err)
	}
	var status domain.HoldingStatus
	if q := c.Query("status"); q != "" {
		st, ok := domain.ParseHoldingStatus(q)
		if !ok {
			return response.FromError(c, apperr.BadRequestf("Unknown holding status: %s", q))
		}
		status = st
	}
	list, err := h.Service.List(c.UserContext(), advisorID, holdsvc.Filter{
		PortfolioID: portfolioID,
		Status:      status,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holdings fetched successfully", list, fiber.Map{"count": len(list)})
}

// GET /api/v1/holdings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	holding, err := h.Service.Get(c.UserContext(), id, advisorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holding fetched successfully", holding, nil)
}

// PUT /api/v1/holdings/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	in, err := parseInput(c)
	if err != nil {
		return response.FromError(c, err)
	}
	holding, err := h.Service.Update(c.UserContext(), id, advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holding updated successfully", holding, nil)
}

// DELETE /api/v1/holdings/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id, advisorID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holding deleted successfully", nil, nil)
}

// PATCH /api/v1/holdings/:id/close
func (h *Handlers) Close(c *fiber.Ctx) error {
	advisorID, id, err := params.AdvisorAndID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var req closeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	fe := validation.FieldErrors{}
	in := holdsvc.CloseInput{
		SaleDate:    optionalDate(fe, "sale_date", req.SaleDate),
		FinalReturn: req.FinalReturn,
	}
	if err := fe.Err(); err != nil {
		return response.FromError(c, err)
	}
	holding, err := h.Service.Close(c.UserContext(), id, advisorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holding closed successfully", holding, nil)
}
