package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vendor is a remediation-vendor catalog entry. Categories is a JSON array of
// gap categories the vendor covers; ranking is by simple coverage count.
type Vendor struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string         `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Website    string         `gorm:"column:website" json:"website"`
	Categories datatypes.JSON `gorm:"column:categories;type:jsonb" json:"categories"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Vendor) TableName() string { return "vendor" }
