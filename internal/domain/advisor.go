package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advisor is the authenticated user who owns investors and portfolios.
type Advisor struct {
	AdvisorID    uuid.UUID  `gorm:"column:advisor_id;type:uuid;primaryKey" json:"advisor_id"`
	Name         string     `gorm:"column:name;not null" json:"name"`
	Email        string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Active       bool       `gorm:"column:active;not null;default:true" json:"active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Advisor) TableName() string {
	return "advisors"
}

func (a *Advisor) BeforeCreate(tx *gorm.DB) error {
	if a.AdvisorID == uuid.Nil {
		a.AdvisorID = uuid.New()
	}
	return nil
}
