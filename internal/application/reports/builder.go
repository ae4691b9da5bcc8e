package reports

import (
	"context"
	"time"

	"wealthdesk-backend/internal/application/analytics"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Builder assembles the cross-portfolio report of one investor.
type Builder struct {
	Store domain.Store
	Cache *Cache
	Now   func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// BuildReport returns the investor's report, served from the cache when a
// fresh entry exists.
func (b *Builder) BuildReport(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.InvestorReport, error) {
	inv, err := b.Store.Investors().Get(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if inv.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Investor does not belong to this advisor")
	}
	if r, ok := b.Cache.Get(ctx, investorID); ok {
		return r, nil
	}

	gen, cacheable := b.Cache.Generation(ctx, investorID)
	r, err := b.build(ctx, inv)
	if err != nil {
		return nil, err
	}
	if cacheable {
		b.Cache.Set(ctx, r, gen)
	}
	return r, nil
}

func (b *Builder) build(ctx context.Context, inv *domain.Investor) (*domain.InvestorReport, error) {
	portfolios, err := b.Store.Portfolios().FindByInvestor(ctx, inv.InvestorID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(portfolios))
	for _, p := range portfolios {
		ids = append(ids, p.PortfolioID)
	}
	holdings, err := b.Store.Holdings().FindByPortfolios(ctx, ids)
	if err != nil {
		return nil, err
	}

	totalInvested := analytics.TotalInvested(holdings)
	weighted := analytics.WeightedReturn(holdings)
	r := &domain.InvestorReport{
		InvestorID:      inv.InvestorID,
		Name:            inv.Name,
		TaxID:           inv.TaxID,
		Email:           inv.Email,
		RiskProfile:     inv.RiskProfile,
		NetWorth:        inv.NetWorth,
		MonthlyIncome:   inv.MonthlyIncome,
		Objectives:      inv.Objectives,
		TotalPortfolios: len(portfolios),
		TotalHoldings:   len(holdings),
		TotalInvested:   totalInvested,
		WeightedReturn:  weighted,
		Breakdown:       analytics.Breakdown(holdings),
		Statuses:        analytics.CountByStatus(holdings),
		Alert:           analytics.AssessAlert(len(portfolios), totalInvested, weighted),
		InvestorCreated: inv.CreatedAt,
		InvestorUpdated: inv.UpdatedAt,
		GeneratedAt:     b.now(),
	}
	log.Debug().
		Str("investor_id", inv.InvestorID.String()).
		Int("portfolios", r.TotalPortfolios).
		Int("holdings", r.TotalHoldings).
		Str("alert", string(r.Alert.Level)).
		Msg("investor report built")
	return r, nil
}
