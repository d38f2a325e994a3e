package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree       = "FREE"
	PlanPremium    = "PREMIUM"
	PlanEnterprise = "ENTERPRISE"
)

// Subscription is one row per organization; plan changes update it in place.
// A missing row is a valid state and entitlement checks treat it as FREE.
type Subscription struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"organization_id"`
	Plan           string         `gorm:"column:plan;not null;default:'FREE'" json:"plan"`
	RenewsAt       *time.Time     `gorm:"column:renews_at" json:"renews_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Subscription) TableName() string { return "subscription" }
