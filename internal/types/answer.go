package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EvidenceTier0 = "TIER_0"
	EvidenceTier1 = "TIER_1"
	EvidenceTier2 = "TIER_2"
)

// Answer rows are never deleted; editing an answer supersedes the previous row
// so the evidence trail stays auditable. The live answer for a question is the
// one with SupersededAt == nil.
type Answer struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	QuestionID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Value                datatypes.JSON `gorm:"column:value;type:jsonb" json:"value"`
	EvidenceTier         string         `gorm:"column:evidence_tier;not null;default:'TIER_0'" json:"evidence_tier"`
	SourceDocumentID     *uuid.UUID     `gorm:"type:uuid" json:"source_document_id,omitempty"`
	ExtractionConfidence *float64       `gorm:"column:extraction_confidence" json:"extraction_confidence,omitempty"`
	SupersededAt         *time.Time     `gorm:"column:superseded_at;index" json:"superseded_at,omitempty"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Answer) TableName() string { return "answer" }
