package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioStats holds the fields derived from a portfolio's holdings.
// Only the aggregator writes them; edit paths omit these columns.
type PortfolioStats struct {
	TotalValue    decimal.Decimal `gorm:"column:total_value;type:decimal(18,2);not null;default:0" json:"total_value"`
	CurrentReturn decimal.Decimal `gorm:"column:current_return;type:decimal(9,2);not null;default:0" json:"current_return"`
}

// Portfolio groups holdings. MODEL portfolios never reference an investor,
// CUSTOM portfolios always do.
type Portfolio struct {
	PortfolioID  uuid.UUID       `gorm:"column:portfolio_id;type:uuid;primaryKey" json:"portfolio_id"`
	Name         string          `gorm:"column:name;not null;index:idx_portfolio_name_advisor,unique" json:"name"`
	Description  string          `gorm:"column:description;type:text" json:"description"`
	Type         PortfolioType   `gorm:"column:type;type:varchar(16);not null" json:"type"`
	RiskLevel    RiskLevel       `gorm:"column:risk_level;type:varchar(16);not null" json:"risk_level"`
	TargetReturn decimal.Decimal `gorm:"column:target_return;type:decimal(9,2);not null;default:0" json:"target_return"`
	Stats        PortfolioStats  `gorm:"embedded" json:"stats"`
	InvestorID   *uuid.UUID      `gorm:"column:investor_id;type:uuid;index" json:"investor_id"`
	AdvisorID    uuid.UUID       `gorm:"column:advisor_id;type:uuid;not null;index;index:idx_portfolio_name_advisor,unique" json:"advisor_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.PortfolioID == uuid.Nil {
		p.PortfolioID = uuid.New()
	}
	return nil
}
