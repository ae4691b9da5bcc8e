package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repositories return *apperr.Error with KindNotFound for missing rows.

type AdvisorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Advisor, error)
	GetByEmail(ctx context.Context, email string) (*Advisor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, a *Advisor) error
}

type InvestorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Investor, error)
	Save(ctx context.Context, inv *Investor) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]Investor, error)
	ListByAdvisorAndProfile(ctx context.Context, advisorID uuid.UUID, profile RiskProfile) ([]Investor, error)
	// ExistsWithTaxID ignores the investor with id exclude (uuid.Nil to consider all).
	ExistsWithTaxID(ctx context.Context, advisorID uuid.UUID, taxID string, exclude uuid.UUID) (bool, error)
}

type PortfolioRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Portfolio, error)
	// Save writes user-editable fields only; Stats are never written here.
	Save(ctx context.Context, p *Portfolio) error
	SaveStats(ctx context.Context, id uuid.UUID, stats PortfolioStats, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]Portfolio, error)
	ListModels(ctx context.Context, advisorID uuid.UUID) ([]Portfolio, error)
	FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]Portfolio, error)
	ExistsWithName(ctx context.Context, advisorID uuid.UUID, name string, exclude uuid.UUID) (bool, error)
}

// HoldingFilter narrows holding listings. Zero values mean no filter.
type HoldingFilter struct {
	AdvisorID   uuid.UUID
	PortfolioID uuid.UUID
	Status      HoldingStatus
}

type HoldingRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*Holding, error)
	Save(ctx context.Context, h *Holding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPortfolio(ctx context.Context, portfolioID uuid.UUID) error
	FindByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]Holding, error)
	FindByPortfolios(ctx context.Context, portfolioIDs []uuid.UUID) ([]Holding, error)
	List(ctx context.Context, f HoldingFilter) ([]Holding, error)
	// ExistsWithCode compares codes case-insensitively.
	ExistsWithCode(ctx context.Context, portfolioID uuid.UUID, code string, exclude uuid.UUID) (bool, error)
}

type InsightRepository interface {
	Save(ctx context.Context, in *Insight) error
	ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]Insight, error)
}

type ReportRepository interface {
	Save(ctx context.Context, r *ReportSnapshot) error
	ListByReference(ctx context.Context, referenceID uuid.UUID) ([]ReportSnapshot, error)
}

// Store bundles the repositories. Transaction runs fn against a Store bound
// to one database transaction; fn's error rolls it back.
type Store interface {
	Advisors() AdvisorRepository
	Investors() InvestorRepository
	Portfolios() PortfolioRepository
	Holdings() HoldingRepository
	Insights() InsightRepository
	Reports() ReportRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
