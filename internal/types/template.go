package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TemplateStatusDraft     = "draft"
	TemplateStatusPublished = "published"
)

const (
	QuestionTypeSingleSelect = "single_select"
	QuestionTypeMultiSelect  = "multi_select"
	QuestionTypeFreeText     = "free_text"
	QuestionTypeRating       = "rating"
	QuestionTypeYesNo        = "yes_no"
)

// Template is a versioned questionnaire definition. Once published (and so
// referenceable by assessments) it is immutable; revisions are new rows.
type Template struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Framework string         `gorm:"column:framework" json:"framework"`
	Version   int            `gorm:"column:version;not null;default:1" json:"version"`
	Status    string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	Sections  []Section      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TemplateID;references:ID" json:"sections,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Template) TableName() string { return "template" }

type Section struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"template_id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Category   string         `gorm:"column:category" json:"category"`
	Position   int            `gorm:"column:position;not null;default:0" json:"position"`
	Weight     float64        `gorm:"column:weight;not null" json:"weight"`
	Questions  []Question     `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"questions,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Section) TableName() string { return "section" }

// Question.RawWeight is the author-facing relative importance; the engine
// renormalizes it per section before scoring. A raw weight above 1.0 marks the
// question as foundational (regulatorily critical).
type Question struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"section_id"`
	Prompt      string         `gorm:"column:prompt;not null" json:"prompt"`
	Type        string         `gorm:"column:type;not null" json:"type"`
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	RawWeight   float64        `gorm:"column:raw_weight;not null;default:1" json:"raw_weight"`
	Required    bool           `gorm:"column:required;not null;default:true" json:"required"`
	ScoringRule datatypes.JSON `gorm:"column:scoring_rule;type:jsonb" json:"scoring_rule"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

// IsFoundational reports whether the question carries outsized regulatory
// importance (raw weight above the 1.0 baseline).
func (q Question) IsFoundational() bool { return q.RawWeight > 1.0 }
