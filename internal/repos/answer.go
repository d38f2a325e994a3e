package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type AnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answer *types.Answer) (*types.Answer, error)
	GetLiveByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Answer, error)
	SupersedeLive(ctx context.Context, tx *gorm.DB, assessmentID, questionID uuid.UUID, at time.Time) error
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return &answerRepo{db: db, log: baseLog.With("repo", "AnswerRepo")}
}

func (r *answerRepo) Create(ctx context.Context, tx *gorm.DB, answer *types.Answer) (*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// GetLiveByAssessmentID returns only the current answer per question; edited
// answers are superseded rows, never deleted ones.
func (r *answerRepo) GetLiveByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Answer
	if err := transaction.WithContext(ctx).
		Where("assessment_id = ? AND superseded_at IS NULL", assessmentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *answerRepo) SupersedeLive(ctx context.Context, tx *gorm.DB, assessmentID, questionID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("assessment_id = ? AND question_id = ? AND superseded_at IS NULL", assessmentID, questionID).
		Update("superseded_at", at).Error
}
