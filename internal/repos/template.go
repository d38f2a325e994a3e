package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type TemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error)
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.Template, error)
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Template, error)
	SetStatus(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, status string) error
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	return &templateRepo{db: db, log: baseLog.With("repo", "TemplateRepo")}
}

func (r *templateRepo) Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(tpl).Error; err != nil {
		return nil, err
	}
	return tpl, nil
}

// GetByID loads the template with sections and questions in declared order,
// which is also the order scoring iterates in.
func (r *templateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var tpl types.Template
	err := transaction.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&tpl, "id = ?", templateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Template
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.TemplateStatusPublished).
		Order("name ASC, version DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *templateRepo) SetStatus(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Template{}).
		Where("id = ?", templateID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
