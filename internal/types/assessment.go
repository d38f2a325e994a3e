package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssessmentStatusInProgress = "in_progress"
	AssessmentStatusComplete   = "complete"
)

// Assessment.ScoreSnapshot holds the last computed ScoreResult as JSONB. It is
// derived state: scoring always recomputes the whole snapshot from the live
// answers, never patches it incrementally.
type Assessment struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization    *Organization  `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	TemplateID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"template_id"`
	Template        *Template      `gorm:"constraint:OnDelete:RESTRICT;foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	Status          string         `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	OverallScore    *float64       `gorm:"column:overall_score" json:"overall_score,omitempty"`
	RiskLevel       *string        `gorm:"column:risk_level" json:"risk_level,omitempty"`
	ConfidenceLevel *string        `gorm:"column:confidence_level" json:"confidence_level,omitempty"`
	ScoreSnapshot   datatypes.JSON `gorm:"column:score_snapshot;type:jsonb" json:"score_snapshot,omitempty"`
	ScoredAt        *time.Time     `gorm:"column:scored_at" json:"scored_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }
