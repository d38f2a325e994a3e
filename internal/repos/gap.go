package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type GapRepo interface {
	// ReplaceForAssessment swaps the derived gap set atomically; gaps are
	// recomputed whole from the current score, never patched.
	ReplaceForAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, gapList []types.Gap) ([]types.Gap, error)
	GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]types.Gap, error)
}

type gapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGapRepo(db *gorm.DB, baseLog *logger.Logger) GapRepo {
	return &gapRepo{db: db, log: baseLog.With("repo", "GapRepo")}
}

func (r *gapRepo) ReplaceForAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID, gapList []types.Gap) ([]types.Gap, error) {
	run := func(transaction *gorm.DB) error {
		if err := transaction.WithContext(ctx).
			Where("assessment_id = ?", assessmentID).
			Delete(&types.Gap{}).Error; err != nil {
			return err
		}
		if len(gapList) == 0 {
			return nil
		}
		return transaction.WithContext(ctx).Create(&gapList).Error
	}

	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
		return gapList, nil
	}
	if err := r.db.WithContext(ctx).Transaction(run); err != nil {
		return nil, err
	}
	return gapList, nil
}

func (r *gapRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]types.Gap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []types.Gap
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("priority_score DESC NULLS LAST, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
