package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type TemplateService interface {
	CreateDraft(ctx context.Context, tpl *types.Template) (*types.Template, error)
	Publish(ctx context.Context, templateID uuid.UUID) error
	GetByID(ctx context.Context, templateID uuid.UUID) (*types.Template, error)
	ListPublished(ctx context.Context) ([]*types.Template, error)
}

type templateService struct {
	db        *gorm.DB
	log       *logger.Logger
	templates repos.TemplateRepo
}

func NewTemplateService(db *gorm.DB, baseLog *logger.Logger, templates repos.TemplateRepo) TemplateService {
	return &templateService{
		db:        db,
		log:       baseLog.With("service", "TemplateService"),
		templates: templates,
	}
}

func (s *templateService) CreateDraft(ctx context.Context, tpl *types.Template) (*types.Template, error) {
	if tpl == nil || tpl.Name == "" {
		return nil, fmt.Errorf("template name required")
	}
	tpl.Status = types.TemplateStatusDraft
	return s.templates.Create(ctx, nil, tpl)
}

// Publish validates the template's weights and scoring rules before it can be
// referenced by any assessment. A ConfigurationError here is an authoring
// defect and rejects the publish outright; it must never surface during
// scoring of a live assessment.
func (s *templateService) Publish(ctx context.Context, templateID uuid.UUID) error {
	tpl, err := s.templates.GetByID(ctx, nil, templateID)
	if err != nil {
		return err
	}
	if tpl.Status == types.TemplateStatusPublished {
		return nil
	}

	nt, err := scoring.NormalizeTemplate(tpl)
	if err != nil {
		var cfgErr *scoring.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.log.Warn("template rejected at publish",
				"template_id", templateID, "weight_sum", cfgErr.Sum, "delta", cfgErr.Delta)
		}
		return err
	}
	if err := nt.ValidateRules(); err != nil {
		s.log.Warn("template rejected at publish", "template_id", templateID, "error", err)
		return err
	}

	return s.templates.SetStatus(ctx, nil, templateID, types.TemplateStatusPublished)
}

func (s *templateService) GetByID(ctx context.Context, templateID uuid.UUID) (*types.Template, error) {
	return s.templates.GetByID(ctx, nil, templateID)
}

func (s *templateService) ListPublished(ctx context.Context) ([]*types.Template, error) {
	return s.templates.ListPublished(ctx, nil)
}
