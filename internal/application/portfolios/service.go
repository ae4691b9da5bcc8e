package portfolios

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	maxTargetReturn = decimal.NewFromInt(100)
	// simulatedShare is the fraction of the target a simulation reports as achieved.
	simulatedShare = decimal.RequireFromString("0.8")
)

// Input carries the user-editable fields of a portfolio. Type and InvestorID
// are fixed at creation and ignored by Update.
type Input struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Type         string           `json:"type"`
	RiskLevel    string           `json:"risk_level"`
	TargetReturn *decimal.Decimal `json:"target_return"`
	InvestorID   *uuid.UUID       `json:"investor_id"`
}

// Service owns portfolio CRUD and the explicit recompute trigger.
type Service struct {
	Store      domain.Store
	Aggregator *Aggregator
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.RiskLevel = strings.ToUpper(strings.TrimSpace(in.RiskLevel))
	if in.InvestorID != nil && *in.InvestorID == uuid.Nil {
		in.InvestorID = nil
	}
}

func (in *Input) validate() error {
	fe := validation.FieldErrors{}
	n := utf8.RuneCountInString(in.Name)
	fe.Check(in.Name != "", "name", "Name is required")
	fe.Check(n == 0 || (n >= 3 && n <= 100), "name", "Name must be between 3 and 100 characters")
	fe.Check(utf8.RuneCountInString(in.Description) <= 500, "description", "Description must be at most 500 characters")
	fe.Check(domain.PortfolioType(in.Type).Valid(), "type", "Type must be MODEL or CUSTOM")
	fe.Check(domain.RiskLevel(in.RiskLevel).Valid(), "risk_level", "Risk level must be LOW, MODERATE or HIGH")
	if in.TargetReturn == nil {
		fe.Add("target_return", "Target return is required")
	} else {
		fe.Check(!in.TargetReturn.IsNegative() && !in.TargetReturn.GreaterThan(maxTargetReturn),
			"target_return", "Target return must be between 0 and 100")
		fe.Check(validation.FitsPlaces(*in.TargetReturn, 2), "target_return", "Target return must have at most 2 decimal places")
	}
	return fe.Err()
}

// checkInvestor enforces the MODEL/CUSTOM rules, ownership and the risk
// compatibility matrix.
func (s *Service) checkInvestor(ctx context.Context, advisorID uuid.UUID, typ domain.PortfolioType, risk domain.RiskLevel, investorID *uuid.UUID) error {
	switch {
	case typ == domain.PortfolioCustom && investorID == nil:
		return apperr.BadRequest("A CUSTOM portfolio must reference an investor")
	case typ == domain.PortfolioModel && investorID != nil:
		return apperr.BadRequest("A MODEL portfolio cannot reference an investor")
	case investorID == nil:
		return nil
	}
	inv, err := s.Store.Investors().Get(ctx, *investorID)
	if err != nil {
		return err
	}
	if inv.AdvisorID != advisorID {
		return apperr.BadRequest("Investor does not belong to this advisor")
	}
	if !validation.IsCompatible(inv.RiskProfile, risk) {
		return incompatible(inv.RiskProfile, risk)
	}
	return nil
}

func incompatible(profile domain.RiskProfile, risk domain.RiskLevel) error {
	allowed := validation.AllowedRiskLevels(profile)
	names := make([]string, len(allowed))
	for i, l := range allowed {
		names[i] = string(l)
	}
	return apperr.BadRequestf("%s. %s (allowed: %s; requested: %s)",
		validation.CompatibilityMessage(profile), validation.Recommendation(profile),
		strings.Join(names, ", "), risk)
}

func (s *Service) owned(ctx context.Context, id, advisorID uuid.UUID) (*domain.Portfolio, error) {
	p, err := s.Store.Portfolios().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Portfolio does not belong to this advisor")
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, advisorID uuid.UUID, in Input) (*domain.Portfolio, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	taken, err := s.Store.Portfolios().ExistsWithName(ctx, advisorID, in.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.BadRequest("A portfolio with this name already exists")
	}
	typ, risk := domain.PortfolioType(in.Type), domain.RiskLevel(in.RiskLevel)
	if err := s.checkInvestor(ctx, advisorID, typ, risk, in.InvestorID); err != nil {
		return nil, err
	}

	p := &domain.Portfolio{
		Name:         in.Name,
		Description:  in.Description,
		Type:         typ,
		RiskLevel:    risk,
		TargetReturn: *in.TargetReturn,
		InvestorID:   in.InvestorID,
		AdvisorID:    advisorID,
	}
	if err := s.Store.Portfolios().Save(ctx, p); err != nil {
		return nil, err
	}
	s.Aggregator.Invalidate(ctx, p)
	log.Info().Str("portfolio_id", p.PortfolioID.String()).Str("advisor_id", advisorID.String()).Msg("portfolio created")
	return p, nil
}

func (s *Service) List(ctx context.Context, advisorID uuid.UUID) ([]domain.Portfolio, error) {
	return s.Store.Portfolios().ListByAdvisor(ctx, advisorID)
}

// ListModels returns the advisor's MODEL portfolios.
func (s *Service) ListModels(ctx context.Context, advisorID uuid.UUID) ([]domain.Portfolio, error) {
	return s.Store.Portfolios().ListModels(ctx, advisorID)
}

func (s *Service) Get(ctx context.Context, id, advisorID uuid.UUID) (*domain.Portfolio, error) {
	return s.owned(ctx, id, advisorID)
}

// Update edits name, description, risk level and target return. The type and
// the investor reference never change after creation.
func (s *Service) Update(ctx context.Context, id, advisorID uuid.UUID, in Input) (*domain.Portfolio, error) {
	p, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	in.Type = string(p.Type)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Name != p.Name {
		taken, err := s.Store.Portfolios().ExistsWithName(ctx, advisorID, in.Name, p.PortfolioID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.BadRequest("A portfolio with this name already exists")
		}
	}
	risk := domain.RiskLevel(in.RiskLevel)
	if err := s.checkInvestor(ctx, advisorID, p.Type, risk, p.InvestorID); err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Description = in.Description
	p.RiskLevel = risk
	p.TargetReturn = *in.TargetReturn
	p.UpdatedAt = time.Now()
	if err := s.Store.Portfolios().Save(ctx, p); err != nil {
		return nil, err
	}
	s.Aggregator.Invalidate(ctx, p)
	log.Info().Str("portfolio_id", p.PortfolioID.String()).Msg("portfolio updated")
	return p, nil
}

// Delete removes the portfolio together with its holdings.
func (s *Service) Delete(ctx context.Context, id, advisorID uuid.UUID) error {
	p, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return err
	}
	unlock := s.Aggregator.Lock(p.PortfolioID)
	defer unlock()

	err = s.Store.Transaction(ctx, func(tx domain.Store) error {
		if err := tx.Holdings().DeleteByPortfolio(ctx, p.PortfolioID); err != nil {
			return err
		}
		return tx.Portfolios().Delete(ctx, p.PortfolioID)
	})
	if err != nil {
		return err
	}
	s.Aggregator.Invalidate(ctx, p)
	log.Info().Str("portfolio_id", p.PortfolioID.String()).Msg("portfolio deleted")
	return nil
}

// Simulate validates in as a new portfolio and returns it without persisting.
// The simulated current return is 80% of the target.
func (s *Service) Simulate(ctx context.Context, advisorID uuid.UUID, in Input) (*domain.Portfolio, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	typ, risk := domain.PortfolioType(in.Type), domain.RiskLevel(in.RiskLevel)
	if err := s.checkInvestor(ctx, advisorID, typ, risk, in.InvestorID); err != nil {
		return nil, err
	}
	now := time.Now()
	return &domain.Portfolio{
		Name:         in.Name,
		Description:  in.Description,
		Type:         typ,
		RiskLevel:    risk,
		TargetReturn: *in.TargetReturn,
		Stats: domain.PortfolioStats{
			TotalValue:    decimal.Zero,
			CurrentReturn: in.TargetReturn.Mul(simulatedShare).Round(2),
		},
		InvestorID: in.InvestorID,
		AdvisorID:  advisorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Recompute forces a statistics refresh of an owned portfolio.
func (s *Service) Recompute(ctx context.Context, id, advisorID uuid.UUID) (*domain.Portfolio, error) {
	if _, err := s.owned(ctx, id, advisorID); err != nil {
		return nil, err
	}
	return s.Aggregator.RecomputePortfolio(ctx, id)
}
