package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store implements domain.Store on top of GORM.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Advisors() domain.AdvisorRepository     { return &advisorRepo{db: s.db} }
func (s *Store) Investors() domain.InvestorRepository   { return &investorRepo{db: s.db} }
func (s *Store) Portfolios() domain.PortfolioRepository { return &portfolioRepo{db: s.db} }
func (s *Store) Holdings() domain.HoldingRepository     { return &holdingRepo{db: s.db} }
func (s *Store) Insights() domain.InsightRepository     { return &insightRepo{db: s.db} }
func (s *Store) Reports() domain.ReportRepository       { return &reportRepo{db: s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks the underlying connection (health checks).
func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func first(ctx context.Context, db *gorm.DB, dst interface{}, resource, column string, id uuid.UUID) error {
	if err := db.WithContext(ctx).Where(column+" = ?", id).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(resource, id)
		}
		return apperr.Internal("Failed to load "+strings.ToLower(resource), err)
	}
	return nil
}

func exists(ctx context.Context, q *gorm.DB) (bool, error) {
	var n int64
	if err := q.WithContext(ctx).Count(&n).Error; err != nil {
		return false, apperr.Internal("Failed to query database", err)
	}
	return n > 0, nil
}

func wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	return apperr.Internal(message, err)
}

type advisorRepo struct{ db *gorm.DB }

func (r *advisorRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Advisor, error) {
	var a domain.Advisor
	if err := first(ctx, r.db, &a, "Advisor", "advisor_id", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *advisorRepo) GetByEmail(ctx context.Context, email string) (*domain.Advisor, error) {
	var a domain.Advisor
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Advisor", email)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load advisor", err)
	}
	return &a, nil
}

func (r *advisorRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, r.db.Model(&domain.Advisor{}).Where("LOWER(email) = ?", strings.ToLower(email)))
}

func (r *advisorRepo) Save(ctx context.Context, a *domain.Advisor) error {
	return wrap("Failed to save advisor", r.db.WithContext(ctx).Save(a).Error)
}

type investorRepo struct{ db *gorm.DB }

func (r *investorRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Investor, error) {
	var inv domain.Investor
	if err := first(ctx, r.db, &inv, "Investor", "investor_id", id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *investorRepo) Save(ctx context.Context, inv *domain.Investor) error {
	return wrap("Failed to save investor", r.db.WithContext(ctx).Save(inv).Error)
}

func (r *investorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return wrap("Failed to delete investor", r.db.WithContext(ctx).Where("investor_id = ?", id).Delete(&domain.Investor{}).Error)
}

func (r *investorRepo) ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]domain.Investor, error) {
	var out []domain.Investor
	err := r.db.WithContext(ctx).Where("advisor_id = ?", advisorID).Order("name ASC").Find(&out).Error
	return out, wrap("Failed to fetch investors", err)
}

func (r *investorRepo) ListByAdvisorAndProfile(ctx context.Context, advisorID uuid.UUID, profile domain.RiskProfile) ([]domain.Investor, error) {
	var out []domain.Investor
	err := r.db.WithContext(ctx).
		Where("advisor_id = ? AND risk_profile = ?", advisorID, profile).
		Order("name ASC").
		Find(&out).Error
	return out, wrap("Failed to fetch investors", err)
}

func (r *investorRepo) ExistsWithTaxID(ctx context.Context, advisorID uuid.UUID, taxID string, exclude uuid.UUID) (bool, error) {
	q := r.db.Model(&domain.Investor{}).Where("advisor_id = ? AND tax_id = ?", advisorID, taxID)
	if exclude != uuid.Nil {
		q = q.Where("investor_id <> ?", exclude)
	}
	return exists(ctx, q)
}

type portfolioRepo struct{ db *gorm.DB }

func (r *portfolioRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	var p domain.Portfolio
	if err := first(ctx, r.db, &p, "Portfolio", "portfolio_id", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepo) Save(ctx context.Context, p *domain.Portfolio) error {
	db := r.db.WithContext(ctx)
	var count int64
	if p.PortfolioID != uuid.Nil {
		if err := db.Model(&domain.Portfolio{}).Where("portfolio_id = ?", p.PortfolioID).Count(&count).Error; err != nil {
			return apperr.Internal("Failed to save portfolio", err)
		}
	}
	if count == 0 {
		// New rows start with zeroed stats regardless of what the caller set.
		p.Stats = domain.PortfolioStats{TotalValue: decimal.Zero, CurrentReturn: decimal.Zero}
		return wrap("Failed to save portfolio", db.Create(p).Error)
	}
	return wrap("Failed to save portfolio", db.Model(p).Select(editablePortfolioColumns).Updates(p).Error)
}

var editablePortfolioColumns = []string{
	"name", "description", "type", "risk_level", "target_return", "investor_id", "updated_at",
}

func (r *portfolioRepo) SaveStats(ctx context.Context, id uuid.UUID, stats domain.PortfolioStats, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Portfolio{}).
		Where("portfolio_id = ?", id).
		Updates(map[string]interface{}{
			"total_value":    stats.TotalValue,
			"current_return": stats.CurrentReturn,
			"updated_at":     at,
		})
	if res.Error != nil {
		return apperr.Internal("Failed to save portfolio statistics", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Portfolio", id)
	}
	return nil
}

func (r *portfolioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return wrap("Failed to delete portfolio", r.db.WithContext(ctx).Where("portfolio_id = ?", id).Delete(&domain.Portfolio{}).Error)
}

func (r *portfolioRepo) ListByAdvisor(ctx context.Context, advisorID uuid.UUID) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	err := r.db.WithContext(ctx).Where("advisor_id = ?", advisorID).Order("created_at ASC").Find(&out).Error
	return out, wrap("Failed to fetch portfolios", err)
}

func (r *portfolioRepo) ListModels(ctx context.Context, advisorID uuid.UUID) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	err := r.db.WithContext(ctx).
		Where("advisor_id = ? AND type = ? AND investor_id IS NULL", advisorID, domain.PortfolioModel).
		Order("created_at ASC").
		Find(&out).Error
	return out, wrap("Failed to fetch model portfolios", err)
}

func (r *portfolioRepo) FindByInvestor(ctx context.Context, investorID uuid.UUID) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	err := r.db.WithContext(ctx).Where("investor_id = ?", investorID).Order("created_at ASC").Find(&out).Error
	return out, wrap("Failed to fetch portfolios", err)
}

func (r *portfolioRepo) ExistsWithName(ctx context.Context, advisorID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	q := r.db.Model(&domain.Portfolio{}).Where("advisor_id = ? AND name = ?", advisorID, name)
	if exclude != uuid.Nil {
		q = q.Where("portfolio_id <> ?", exclude)
	}
	return exists(ctx, q)
}

type holdingRepo struct{ db *gorm.DB }

func (r *holdingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	var h domain.Holding
	if err := first(ctx, r.db, &h, "Holding", "holding_id", id); err != nil {
		return nil, err
	}
	return &h, nil
}

// Save inserts holdings without an id and updates existing ones. Updating a
// row that no longer exists is NotFound, never a re-insert.
func (r *holdingRepo) Save(ctx context.Context, h *domain.Holding) error {
	db := r.db.WithContext(ctx)
	if h.HoldingID == uuid.Nil {
		return wrap("Failed to save holding", db.Create(h).Error)
	}
	res := db.Model(h).Select("*").Omit("created_at").Updates(h)
	if res.Error != nil {
		return apperr.Internal("Failed to save holding", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Holding", h.HoldingID)
	}
	return nil
}

func (r *holdingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return wrap("Failed to delete holding", r.db.WithContext(ctx).Where("holding_id = ?", id).Delete(&domain.Holding{}).Error)
}

func (r *holdingRepo) DeleteByPortfolio(ctx context.Context, portfolioID uuid.UUID) error {
	return wrap("Failed to delete holdings", r.db.WithContext(ctx).Where("portfolio_id = ?", portfolioID).Delete(&domain.Holding{}).Error)
}

func (r *holdingRepo) FindByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.Holding, error) {
	var out []domain.Holding
	err := r.db.WithContext(ctx).Where("portfolio_id = ?", portfolioID).Order("purchase_date ASC").Find(&out).Error
	return out, wrap("Failed to fetch holdings", err)
}

func (r *holdingRepo) FindByPortfolios(ctx context.Context, portfolioIDs []uuid.UUID) ([]domain.Holding, error) {
	if len(portfolioIDs) == 0 {
		return nil, nil
	}
	var out []domain.Holding
	err := r.db.WithContext(ctx).Where("portfolio_id IN ?", portfolioIDs).Order("purchase_date ASC").Find(&out).Error
	return out, wrap("Failed to fetch holdings", err)
}

func (r *holdingRepo) List(ctx context.Context, f domain.HoldingFilter) ([]domain.Holding, error) {
	q := r.db.WithContext(ctx).Model(&domain.Holding{})
	if f.AdvisorID != uuid.Nil {
		q = q.Where("portfolio_id IN (?)",
			r.db.Model(&domain.Portfolio{}).Select("portfolio_id").Where("advisor_id = ?", f.AdvisorID))
	}
	if f.PortfolioID != uuid.Nil {
		q = q.Where("portfolio_id = ?", f.PortfolioID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []domain.Holding
	err := q.Order("purchase_date ASC").Find(&out).Error
	return out, wrap("Failed to fetch holdings", err)
}

func (r *holdingRepo) ExistsWithCode(ctx context.Context, portfolioID uuid.UUID, code string, exclude uuid.UUID) (bool, error) {
	q := r.db.Model(&domain.Holding{}).
		Where("portfolio_id = ? AND UPPER(asset_code) = ?", portfolioID, strings.ToUpper(strings.TrimSpace(code)))
	if exclude != uuid.Nil {
		q = q.Where("holding_id <> ?", exclude)
	}
	return exists(ctx, q)
}

type insightRepo struct{ db *gorm.DB }

func (r *insightRepo) Save(ctx context.Context, in *domain.Insight) error {
	return wrap("Failed to save insight", r.db.WithContext(ctx).Create(in).Error)
}

func (r *insightRepo) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]domain.Insight, error) {
	var out []domain.Insight
	err := r.db.WithContext(ctx).Where("investor_id = ?", investorID).Order("created_at DESC").Find(&out).Error
	return out, wrap("Failed to fetch insights", err)
}

type reportRepo struct{ db *gorm.DB }

func (r *reportRepo) Save(ctx context.Context, snap *domain.ReportSnapshot) error {
	return wrap("Failed to save report", r.db.WithContext(ctx).Create(snap).Error)
}

func (r *reportRepo) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]domain.ReportSnapshot, error) {
	var out []domain.ReportSnapshot
	err := r.db.WithContext(ctx).Where("reference_id = ?", referenceID).Order("created_at DESC").Find(&out).Error
	return out, wrap("Failed to fetch reports", err)
}
