package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GapSeverityCritical = "CRITICAL"
	GapSeverityHigh     = "HIGH"
	GapSeverityMedium   = "MEDIUM"
	GapSeverityLow      = "LOW"
)

const (
	GapPriorityImmediate  = "IMMEDIATE"
	GapPriorityShortTerm  = "SHORT_TERM"
	GapPriorityMediumTerm = "MEDIUM_TERM"
	GapPriorityLongTerm   = "LONG_TERM"
)

const (
	GapEffortSmall  = "SMALL"
	GapEffortMedium = "MEDIUM"
	GapEffortLarge  = "LARGE"
)

// CategoryHiddenAnalysis marks gaps produced by the freemium mock path.
const CategoryHiddenAnalysis = "HIDDEN_ANALYSIS"

type Gap struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessmentId"`
	Category          string         `gorm:"column:category;not null" json:"category"`
	Title             string         `gorm:"column:title;not null" json:"title"`
	Description       string         `gorm:"column:description" json:"description"`
	Severity          string         `gorm:"column:severity;not null" json:"severity"`
	Priority          string         `gorm:"column:priority;not null" json:"priority"`
	EstimatedCostLow  *int           `gorm:"column:estimated_cost_low" json:"estimatedCostLow"`
	EstimatedCostHigh *int           `gorm:"column:estimated_cost_high" json:"estimatedCostHigh"`
	EstimatedEffort   *string        `gorm:"column:estimated_effort" json:"estimatedEffort"`
	PriorityScore     *float64       `gorm:"column:priority_score" json:"priorityScore"`
	SuggestedVendors  datatypes.JSON `gorm:"column:suggested_vendors;type:jsonb" json:"suggestedVendors"`
	IsRestricted      bool           `gorm:"column:is_restricted;not null;default:false" json:"isRestricted"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Gap) TableName() string { return "gap" }
