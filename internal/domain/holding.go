package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding is a single financial position inside a portfolio.
// AssetCode is stored trimmed and upper-cased.
type Holding struct {
	HoldingID      uuid.UUID           `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	PortfolioID    uuid.UUID           `gorm:"column:portfolio_id;type:uuid;not null;index;index:idx_holding_portfolio_code,unique" json:"portfolio_id"`
	ProductType    ProductType         `gorm:"column:product_type;type:varchar(20);not null" json:"product_type"`
	AssetCode      string              `gorm:"column:asset_code;type:varchar(20);not null;index:idx_holding_portfolio_code,unique" json:"asset_code"`
	AmountInvested decimal.Decimal     `gorm:"column:amount_invested;type:decimal(18,2);not null" json:"amount_invested"`
	Quantity       decimal.Decimal     `gorm:"column:quantity;type:decimal(18,6);not null" json:"quantity"`
	PurchaseDate   time.Time           `gorm:"column:purchase_date;not null" json:"purchase_date"`
	SaleDate       *time.Time          `gorm:"column:sale_date" json:"sale_date"`
	CurrentReturn  decimal.NullDecimal `gorm:"column:current_return;type:decimal(9,2)" json:"current_return"`
	Status         HoldingStatus       `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	Notes          string              `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
