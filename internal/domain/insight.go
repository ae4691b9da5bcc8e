package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Insight is generated advice for an investor.
type Insight struct {
	InsightID   uuid.UUID   `gorm:"column:insight_id;type:uuid;primaryKey" json:"insight_id"`
	InvestorID  uuid.UUID   `gorm:"column:investor_id;type:uuid;not null;index" json:"investor_id"`
	Text        string      `gorm:"column:text;type:text;not null" json:"text"`
	GeneratedBy string      `gorm:"column:generated_by;not null" json:"generated_by"`
	Type        InsightType `gorm:"column:type;type:varchar(16);not null" json:"type"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (Insight) TableName() string {
	return "insights"
}

func (i *Insight) BeforeCreate(tx *gorm.DB) error {
	if i.InsightID == uuid.Nil {
		i.InsightID = uuid.New()
	}
	return nil
}
