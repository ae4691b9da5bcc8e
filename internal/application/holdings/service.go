package holdings

import (
	"context"
	"time"
	"unicode/utf8"

	"wealthdesk-backend/internal/application/portfolios"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var maxAmountInvested = decimal.NewFromInt(100_000_000)

const (
	maxAssetCodeLen = 20
	maxNotesLen     = 500
)

// Column scales of amount_invested, quantity and current_return.
const (
	amountPlaces   int32 = 2
	quantityPlaces int32 = 6
	returnPlaces   int32 = 2
)

// Input carries the writable fields of a holding. PortfolioID is only read on
// Create; a holding never moves between portfolios.
type Input struct {
	PortfolioID    uuid.UUID
	ProductType    domain.ProductType
	AssetCode      string
	AmountInvested *decimal.Decimal
	Quantity       *decimal.Decimal
	PurchaseDate   *time.Time
	SaleDate       *time.Time
	CurrentReturn  *decimal.Decimal
	Status         domain.HoldingStatus
	Notes          string
}

// CloseInput finalizes a position.
type CloseInput struct {
	SaleDate    *time.Time
	FinalReturn *decimal.Decimal
}

// Filter narrows List. Zero values mean no filter.
type Filter struct {
	PortfolioID uuid.UUID
	Status      domain.HoldingStatus
}

// Service owns holding CRUD. Every mutation recomputes the parent portfolio
// in the same transaction.
type Service struct {
	Store      domain.Store
	Aggregator *portfolios.Aggregator
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// validate collects field violations first, then checks the business rules in
// order and returns the first one broken.
func (s *Service) validate(in *Input, create bool) error {
	in.AssetCode = validation.CanonicalAssetCode(in.AssetCode)
	if in.Status == "" {
		in.Status = domain.StatusActive
	}

	fe := validation.FieldErrors{}
	if create {
		fe.Check(in.PortfolioID != uuid.Nil, "portfolio_id", "Portfolio is required")
	}
	fe.Check(in.ProductType != "", "product_type", "Product type is required")
	fe.Check(in.ProductType == "" || in.ProductType.Valid(), "product_type", "Unknown product type")
	fe.Check(in.AssetCode != "", "asset_code", "Asset code is required")
	fe.Check(len(in.AssetCode) <= maxAssetCodeLen, "asset_code", "Asset code must be at most 20 characters")
	if in.AmountInvested == nil {
		fe.Add("amount_invested", "Amount invested is required")
	} else {
		fe.Check(in.AmountInvested.IsPositive(), "amount_invested", "Amount invested must be greater than zero")
		fe.Check(!in.AmountInvested.GreaterThan(maxAmountInvested), "amount_invested", "Amount invested must be at most 100,000,000")
		fe.Check(validation.FitsPlaces(*in.AmountInvested, amountPlaces), "amount_invested", "Amount invested must have at most 2 decimal places")
	}
	if in.Quantity == nil {
		fe.Add("quantity", "Quantity is required")
	} else {
		fe.Check(in.Quantity.IsPositive(), "quantity", "Quantity must be greater than zero")
		fe.Check(validation.FitsPlaces(*in.Quantity, quantityPlaces), "quantity", "Quantity must have at most 6 decimal places")
	}
	if in.CurrentReturn != nil {
		fe.Check(validation.FitsPlaces(*in.CurrentReturn, returnPlaces), "current_return", "Current return must have at most 2 decimal places")
	}
	fe.Check(in.PurchaseDate != nil, "purchase_date", "Purchase date is required")
	fe.Check(in.Status.Valid(), "status", "Status must be ACTIVE, CLOSED or REDEEMED")
	fe.Check(utf8.RuneCountInString(in.Notes) <= maxNotesLen, "notes", "Notes must be at most 500 characters")
	if err := fe.Err(); err != nil {
		return err
	}

	if !validation.IsValidAssetCode(in.ProductType, in.AssetCode) {
		return apperr.BadRequest(validation.AssetCodeMessage(in.ProductType))
	}
	if !validation.IsValidReturnRate(in.CurrentReturn, in.ProductType) {
		return apperr.BadRequest(validation.ReturnRateMessage(in.ProductType))
	}
	return s.checkSaleDate(*in.PurchaseDate, in.SaleDate)
}

func (s *Service) checkSaleDate(purchase time.Time, sale *time.Time) error {
	if sale == nil {
		return nil
	}
	if sale.Before(purchase) {
		return apperr.BadRequest("Sale date cannot be before the purchase date")
	}
	if sale.After(s.now()) {
		return apperr.BadRequest("Sale date cannot be in the future")
	}
	return nil
}

func (s *Service) ownedPortfolio(ctx context.Context, portfolioID, advisorID uuid.UUID) (*domain.Portfolio, error) {
	p, err := s.Store.Portfolios().Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if p.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Portfolio does not belong to this advisor")
	}
	return p, nil
}

func (s *Service) owned(ctx context.Context, id, advisorID uuid.UUID) (*domain.Holding, *domain.Portfolio, error) {
	h, err := s.Store.Holdings().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.Store.Portfolios().Get(ctx, h.PortfolioID)
	if err != nil {
		return nil, nil, err
	}
	if p.AdvisorID != advisorID {
		return nil, nil, apperr.BadRequest("Holding does not belong to this advisor")
	}
	return h, p, nil
}

// mutate runs fn and the portfolio recompute in one transaction while holding
// the portfolio lock, then invalidates the investor's cached report.
func (s *Service) mutate(ctx context.Context, portfolioID uuid.UUID, fn func(tx domain.Store) error) error {
	unlock := s.Aggregator.Lock(portfolioID)
	defer unlock()

	var p *domain.Portfolio
	err := s.Store.Transaction(ctx, func(tx domain.Store) error {
		if err := fn(tx); err != nil {
			return err
		}
		var err error
		p, err = s.Aggregator.RecomputeWithin(ctx, tx, portfolioID)
		return err
	})
	if err != nil {
		return err
	}
	s.Aggregator.Invalidate(ctx, p)
	return nil
}

func duplicateCode(ctx context.Context, tx domain.Store, portfolioID uuid.UUID, code string, exclude uuid.UUID) error {
	taken, err := tx.Holdings().ExistsWithCode(ctx, portfolioID, code, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperr.BadRequestf("Asset code %s already exists in this portfolio", code)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, advisorID uuid.UUID, in Input) (*domain.Holding, error) {
	if err := s.validate(&in, true); err != nil {
		return nil, err
	}
	if _, err := s.ownedPortfolio(ctx, in.PortfolioID, advisorID); err != nil {
		return nil, err
	}

	h := &domain.Holding{
		PortfolioID:    in.PortfolioID,
		ProductType:    in.ProductType,
		AssetCode:      in.AssetCode,
		AmountInvested: *in.AmountInvested,
		Quantity:       *in.Quantity,
		PurchaseDate:   *in.PurchaseDate,
		SaleDate:       in.SaleDate,
		CurrentReturn:  nullable(in.CurrentReturn),
		Status:         in.Status,
		Notes:          in.Notes,
	}
	err := s.mutate(ctx, h.PortfolioID, func(tx domain.Store) error {
		if err := duplicateCode(ctx, tx, h.PortfolioID, h.AssetCode, uuid.Nil); err != nil {
			return err
		}
		return tx.Holdings().Save(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("holding_id", h.HoldingID.String()).Str("portfolio_id", h.PortfolioID.String()).Msg("holding created")
	return h, nil
}

// List returns the advisor's holdings, optionally narrowed to one portfolio
// and/or one status.
func (s *Service) List(ctx context.Context, advisorID uuid.UUID, f Filter) ([]domain.Holding, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.BadRequestf("Unknown holding status: %s", f.Status)
	}
	if f.PortfolioID != uuid.Nil {
		if _, err := s.ownedPortfolio(ctx, f.PortfolioID, advisorID); err != nil {
			return nil, err
		}
	}
	return s.Store.Holdings().List(ctx, domain.HoldingFilter{
		AdvisorID:   advisorID,
		PortfolioID: f.PortfolioID,
		Status:      f.Status,
	})
}

func (s *Service) ListAll(ctx context.Context, advisorID uuid.UUID) ([]domain.Holding, error) {
	return s.List(ctx, advisorID, Filter{})
}

func (s *Service) ListByPortfolio(ctx context.Context, advisorID, portfolioID uuid.UUID) ([]domain.Holding, error) {
	return s.List(ctx, advisorID, Filter{PortfolioID: portfolioID})
}

func (s *Service) ListByStatus(ctx context.Context, advisorID uuid.UUID, status domain.HoldingStatus) ([]domain.Holding, error) {
	return s.List(ctx, advisorID, Filter{Status: status})
}

func (s *Service) ListByPortfolioAndStatus(ctx context.Context, advisorID, portfolioID uuid.UUID, status domain.HoldingStatus) ([]domain.Holding, error) {
	return s.List(ctx, advisorID, Filter{PortfolioID: portfolioID, Status: status})
}

func (s *Service) Get(ctx context.Context, id, advisorID uuid.UUID) (*domain.Holding, error) {
	h, _, err := s.owned(ctx, id, advisorID)
	return h, err
}

func (s *Service) Update(ctx context.Context, id, advisorID uuid.UUID, in Input) (*domain.Holding, error) {
	h, _, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&in, false); err != nil {
		return nil, err
	}

	var out *domain.Holding
	err = s.mutate(ctx, h.PortfolioID, func(tx domain.Store) error {
		cur, err := tx.Holdings().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := duplicateCode(ctx, tx, cur.PortfolioID, in.AssetCode, cur.HoldingID); err != nil {
			return err
		}
		cur.ProductType = in.ProductType
		cur.AssetCode = in.AssetCode
		cur.AmountInvested = *in.AmountInvested
		cur.Quantity = *in.Quantity
		cur.PurchaseDate = *in.PurchaseDate
		cur.SaleDate = in.SaleDate
		cur.CurrentReturn = nullable(in.CurrentReturn)
		cur.Status = in.Status
		cur.Notes = in.Notes
		out = cur
		return tx.Holdings().Save(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("holding_id", out.HoldingID.String()).Msg("holding updated")
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id, advisorID uuid.UUID) error {
	h, _, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return err
	}
	err = s.mutate(ctx, h.PortfolioID, func(tx domain.Store) error {
		return tx.Holdings().Delete(ctx, h.HoldingID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("holding_id", h.HoldingID.String()).Msg("holding deleted")
	return nil
}

// Close marks an active holding CLOSED with its sale date and final return.
func (s *Service) Close(ctx context.Context, id, advisorID uuid.UUID, in CloseInput) (*domain.Holding, error) {
	h, _, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return nil, err
	}
	fe := validation.FieldErrors{}
	fe.Check(in.SaleDate != nil, "sale_date", "Sale date is required")
	fe.Check(in.FinalReturn != nil, "final_return", "Final return is required")
	if in.FinalReturn != nil {
		fe.Check(validation.FitsPlaces(*in.FinalReturn, returnPlaces), "final_return", "Final return must have at most 2 decimal places")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	var out *domain.Holding
	err = s.mutate(ctx, h.PortfolioID, func(tx domain.Store) error {
		cur, err := tx.Holdings().Get(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status.Finalized() {
			return apperr.BadRequest("Holding is already closed")
		}
		if !validation.IsValidReturnRate(in.FinalReturn, cur.ProductType) {
			return apperr.BadRequest(validation.ReturnRateMessage(cur.ProductType))
		}
		if err := s.checkSaleDate(cur.PurchaseDate, in.SaleDate); err != nil {
			return err
		}
		cur.SaleDate = in.SaleDate
		cur.CurrentReturn = decimal.NewNullDecimal(*in.FinalReturn)
		cur.Status = domain.StatusClosed
		out = cur
		return tx.Holdings().Save(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("holding_id", out.HoldingID.String()).Str("final_return", in.FinalReturn.String()).Msg("holding closed")
	return out, nil
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
