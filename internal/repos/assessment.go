package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error)
	ListByOrganizationID(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID) ([]*types.Assessment, error)
	SaveScoreSnapshot(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, snap ScoreSnapshot) error
}

// ScoreSnapshot is the derived score state written back after every scoring
// run. Written whole; never patched field by field.
type ScoreSnapshot struct {
	OverallScore    float64
	RiskLevel       string
	ConfidenceLevel string
	Snapshot        datatypes.JSON
	ScoredAt        time.Time
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (r *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var assessment types.Assessment
	err := transaction.WithContext(ctx).First(&assessment, "id = ?", assessmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepo) ListByOrganizationID(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) SaveScoreSnapshot(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, snap ScoreSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Assessment{}).
		Where("id = ?", assessmentID).
		Updates(map[string]any{
			"overall_score":    snap.OverallScore,
			"risk_level":       snap.RiskLevel,
			"confidence_level": snap.ConfidenceLevel,
			"score_snapshot":   snap.Snapshot,
			"scored_at":        snap.ScoredAt,
			"status":           types.AssessmentStatusComplete,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
