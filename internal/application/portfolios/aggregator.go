package portfolios

import (
	"context"
	"time"

	"wealthdesk-backend/internal/application/analytics"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/keylock"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportInvalidator drops cached investor reports.
type ReportInvalidator interface {
	Invalidate(ctx context.Context, investorID uuid.UUID)
}

// Aggregator recomputes a portfolio's derived fields from its holdings.
// Callers mutating holdings hold Lock for the portfolio and call
// RecomputeWithin inside the same transaction as the mutation.
type Aggregator struct {
	Store   domain.Store
	Reports ReportInvalidator
	Now     func() time.Time

	locks keylock.Locker[uuid.UUID]
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Lock serialises recomputes and holding mutations of one portfolio.
func (a *Aggregator) Lock(portfolioID uuid.UUID) (unlock func()) {
	return a.locks.Lock(portfolioID)
}

// RecomputePortfolio recomputes and persists the stats of portfolioID in its
// own transaction.
func (a *Aggregator) RecomputePortfolio(ctx context.Context, portfolioID uuid.UUID) (*domain.Portfolio, error) {
	unlock := a.Lock(portfolioID)
	defer unlock()

	var out *domain.Portfolio
	err := a.Store.Transaction(ctx, func(tx domain.Store) error {
		p, err := a.RecomputeWithin(ctx, tx, portfolioID)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	a.Invalidate(ctx, out)
	return out, nil
}

// RecomputeWithin reads every holding of portfolioID through st and writes
// the total value and weighted return back onto the portfolio.
func (a *Aggregator) RecomputeWithin(ctx context.Context, st domain.Store, portfolioID uuid.UUID) (*domain.Portfolio, error) {
	p, err := st.Portfolios().Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	holdings, err := st.Holdings().FindByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	stats := analytics.Stats(holdings)
	now := a.now()
	if err := st.Portfolios().SaveStats(ctx, portfolioID, stats, now); err != nil {
		return nil, err
	}
	p.Stats = stats
	p.UpdatedAt = now

	log.Info().
		Str("portfolio_id", portfolioID.String()).
		Int("holdings", len(holdings)).
		Str("total_value", stats.TotalValue.StringFixed(2)).
		Str("current_return", stats.CurrentReturn.StringFixed(2)).
		Msg("portfolio statistics recomputed")
	return p, nil
}

// Invalidate drops the cached report of the investor p belongs to, if any.
func (a *Aggregator) Invalidate(ctx context.Context, p *domain.Portfolio) {
	if a.Reports == nil || p == nil || p.InvestorID == nil {
		return
	}
	a.Reports.Invalidate(ctx, *p.InvestorID)
}
