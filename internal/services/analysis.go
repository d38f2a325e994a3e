package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/entitlement"
	"github.com/veracomply/veracomply-backend/internal/gaps"
	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/strategy"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// AnalysisService serves the gated surfaces: gap analysis and strategy
// matrix. The entitlement gate is the only plan check; both operations branch
// on its answer and nowhere else.
type AnalysisService interface {
	GetGapAnalysis(ctx context.Context, assessmentID, organizationID uuid.UUID) ([]types.Gap, error)
	GetStrategyMatrix(ctx context.Context, assessmentID, organizationID uuid.UUID) (*strategy.StrategyMatrix, error)
}

type analysisService struct {
	db          *gorm.DB
	log         *logger.Logger
	assessments repos.AssessmentRepo
	answers     repos.AnswerRepo
	templates   repos.TemplateRepo
	gapStore    repos.GapRepo
	vendors     repos.VendorRepo
	engine      *scoring.Engine
	generator   *gaps.Generator
	gate        entitlement.Gate
}

func NewAnalysisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessments repos.AssessmentRepo,
	answers repos.AnswerRepo,
	templates repos.TemplateRepo,
	gapStore repos.GapRepo,
	vendors repos.VendorRepo,
	engine *scoring.Engine,
	generator *gaps.Generator,
	gate entitlement.Gate,
) AnalysisService {
	return &analysisService{
		db:          db,
		log:         baseLog.With("service", "AnalysisService"),
		assessments: assessments,
		answers:     answers,
		templates:   templates,
		gapStore:    gapStore,
		vendors:     vendors,
		engine:      engine,
		generator:   generator,
		gate:        gate,
	}
}

func (s *analysisService) GetGapAnalysis(ctx context.Context, assessmentID, organizationID uuid.UUID) ([]types.Gap, error) {
	gapList, _, err := s.gapsFor(ctx, assessmentID, organizationID)
	return gapList, err
}

func (s *analysisService) GetStrategyMatrix(ctx context.Context, assessmentID, organizationID uuid.UUID) (*strategy.StrategyMatrix, error) {
	gapList, full, err := s.gapsFor(ctx, assessmentID, organizationID)
	if err != nil {
		return nil, err
	}
	return strategy.BuildMatrix(assessmentID, gapList, !full), nil
}

// gapsFor resolves the gap set for a caller: the real derived list for
// entitled organizations, the restricted mock for everyone else. Also reports
// whether the caller was entitled, so the matrix knows to degrade.
func (s *analysisService) gapsFor(ctx context.Context, assessmentID, organizationID uuid.UUID) ([]types.Gap, bool, error) {
	assessment, err := s.assessments.GetByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, false, err
	}
	// An assessment belonging to another organization does not exist as
	// far as the caller is concerned.
	if assessment.OrganizationID != organizationID {
		return nil, false, repos.ErrNotFound
	}

	if !s.gate.CanAccessFullAnalysis(ctx, organizationID) {
		return gaps.GenerateMockedGapAnalysis(assessmentID), false, nil
	}

	gapList, err := s.realGaps(ctx, assessment)
	if err != nil {
		return nil, false, err
	}
	return gapList, true, nil
}

// realGaps recomputes the derived gap set from the current score snapshot and
// persists it, replacing whatever was stored for the assessment.
func (s *analysisService) realGaps(ctx context.Context, assessment *types.Assessment) ([]types.Gap, error) {
	result, nt, err := computeScoreSnapshot(ctx, s.engine, s.templates, s.answers, assessment)
	if err != nil {
		return nil, err
	}
	catalog, err := s.vendors.ListAll(ctx, nil)
	if err != nil {
		// A missing vendor catalog degrades suggestions, not the
		// analysis itself.
		s.log.Warn("vendor catalog unavailable", "error", err)
		catalog = nil
	}

	gapList := s.generator.Generate(assessment.ID, nt, result, catalog)
	for i := range gapList {
		gapList[i].ID = uuid.New()
	}
	stored, err := s.gapStore.ReplaceForAssessment(ctx, nil, assessment.ID, gapList)
	if err != nil {
		return nil, fmt.Errorf("persist gap analysis: %w", err)
	}
	return stored, nil
}
