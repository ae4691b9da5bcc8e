package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryBreakdown sums amount invested per product bucket.
type CategoryBreakdown struct {
	Equity      decimal.Decimal `json:"equity"`
	REIT        decimal.Decimal `json:"reit"`
	FixedIncome decimal.Decimal `json:"fixed_income"`
	Fund        decimal.Decimal `json:"fund"`
	Crypto      decimal.Decimal `json:"crypto"`
	Other       decimal.Decimal `json:"other"`
}

// StatusCounts counts holdings per status.
type StatusCounts struct {
	Active   int `json:"active"`
	Closed   int `json:"closed"`
	Redeemed int `json:"redeemed"`
}

// Alert is the prioritized verdict attached to an investor report.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
}

// InvestorReport is the cross-portfolio rollup for one investor.
type InvestorReport struct {
	InvestorID      uuid.UUID         `json:"investor_id"`
	Name            string            `json:"name"`
	TaxID           string            `json:"tax_id"`
	Email           string            `json:"email"`
	RiskProfile     RiskProfile       `json:"risk_profile"`
	NetWorth        decimal.Decimal   `json:"net_worth"`
	MonthlyIncome   decimal.Decimal   `json:"monthly_income"`
	Objectives      string            `json:"objectives"`
	TotalPortfolios int               `json:"total_portfolios"`
	TotalHoldings   int               `json:"total_holdings"`
	TotalInvested   decimal.Decimal   `json:"total_invested"`
	WeightedReturn  decimal.Decimal   `json:"weighted_return"`
	Breakdown       CategoryBreakdown `json:"breakdown"`
	Statuses        StatusCounts      `json:"statuses"`
	Alert           Alert             `json:"alert"`
	InvestorCreated time.Time         `json:"investor_created_at"`
	InvestorUpdated time.Time         `json:"investor_updated_at"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// ReportSnapshot is a persisted copy of a generated report.
type ReportSnapshot struct {
	SnapshotID     uuid.UUID       `gorm:"column:snapshot_id;type:uuid;primaryKey" json:"snapshot_id"`
	Kind           ReportKind      `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	ReferenceID    uuid.UUID       `gorm:"column:reference_id;type:uuid;not null;index" json:"reference_id"`
	Summary        datatypes.JSON  `gorm:"column:summary" json:"summary"`
	TotalInvested  decimal.Decimal `gorm:"column:total_invested;type:decimal(18,2);not null" json:"total_invested"`
	WeightedReturn decimal.Decimal `gorm:"column:weighted_return;type:decimal(9,2);not null" json:"weighted_return"`
	CreatedBy      uuid.UUID       `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (ReportSnapshot) TableName() string {
	return "report_snapshots"
}

func (r *ReportSnapshot) BeforeCreate(tx *gorm.DB) error {
	if r.SnapshotID == uuid.Nil {
		r.SnapshotID = uuid.New()
	}
	return nil
}
