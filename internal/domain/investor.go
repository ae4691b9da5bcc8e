package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investor is a client of an advisor. TaxID holds the canonical 11-digit CPF.
type Investor struct {
	InvestorID    uuid.UUID       `gorm:"column:investor_id;type:uuid;primaryKey" json:"investor_id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	TaxID         string          `gorm:"column:tax_id;type:char(11);not null;index:idx_investor_tax_advisor,unique" json:"tax_id"`
	Email         string          `gorm:"column:email" json:"email"`
	Phone         string          `gorm:"column:phone" json:"phone"`
	RiskProfile   RiskProfile     `gorm:"column:risk_profile;type:varchar(16);not null" json:"risk_profile"`
	NetWorth      decimal.Decimal `gorm:"column:net_worth;type:decimal(18,2);not null;default:0" json:"net_worth"`
	MonthlyIncome decimal.Decimal `gorm:"column:monthly_income;type:decimal(18,2);not null;default:0" json:"monthly_income"`
	Objectives    string          `gorm:"column:objectives;type:text" json:"objectives"`
	AdvisorID     uuid.UUID       `gorm:"column:advisor_id;type:uuid;not null;index;index:idx_investor_tax_advisor,unique" json:"advisor_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Investor) TableName() string {
	return "investors"
}

func (i *Investor) BeforeCreate(tx *gorm.DB) error {
	if i.InvestorID == uuid.Nil {
		i.InvestorID = uuid.New()
	}
	return nil
}
