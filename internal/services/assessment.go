package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/veracomply/veracomply-backend/internal/clients/redis"
	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// ScoreView is ScoreResult plus the derived classifications, as returned to
// the API layer.
type ScoreView struct {
	scoring.ScoreResult
	RiskLevel       string `json:"riskLevel"`
	RiskMessage     string `json:"riskMessage"`
	ConfidenceLevel string `json:"confidenceLevel"`
}

type SubmitAnswerInput struct {
	QuestionID           uuid.UUID
	Value                json.RawMessage
	EvidenceTier         string
	SourceDocumentID     *uuid.UUID
	ExtractionConfidence *float64
}

type AssessmentService interface {
	Start(ctx context.Context, organizationID, templateID uuid.UUID) (*types.Assessment, error)
	GetByID(ctx context.Context, assessmentID, organizationID uuid.UUID) (*types.Assessment, error)
	SubmitAnswer(ctx context.Context, assessmentID, organizationID uuid.UUID, in SubmitAnswerInput) (*types.Answer, error)
	ComputeScore(ctx context.Context, assessmentID, organizationID uuid.UUID) (*ScoreView, error)
}

type assessmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	assessments repos.AssessmentRepo
	answers     repos.AnswerRepo
	templates   repos.TemplateRepo
	engine      *scoring.Engine
	cache       redisclient.ScoreCache // nil when redis is not configured
}

func NewAssessmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessments repos.AssessmentRepo,
	answers repos.AnswerRepo,
	templates repos.TemplateRepo,
	engine *scoring.Engine,
	cache redisclient.ScoreCache,
) AssessmentService {
	return &assessmentService{
		db:          db,
		log:         baseLog.With("service", "AssessmentService"),
		assessments: assessments,
		answers:     answers,
		templates:   templates,
		engine:      engine,
		cache:       cache,
	}
}

func (s *assessmentService) Start(ctx context.Context, organizationID, templateID uuid.UUID) (*types.Assessment, error) {
	tpl, err := s.templates.GetByID(ctx, nil, templateID)
	if err != nil {
		return nil, err
	}
	if tpl.Status != types.TemplateStatusPublished {
		return nil, fmt.Errorf("template %s is not published", templateID)
	}
	return s.assessments.Create(ctx, nil, &types.Assessment{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		TemplateID:     templateID,
		Status:         types.AssessmentStatusInProgress,
	})
}

func (s *assessmentService) GetByID(ctx context.Context, assessmentID, organizationID uuid.UUID) (*types.Assessment, error) {
	return s.ownedAssessment(ctx, assessmentID, organizationID)
}

// ownedAssessment scopes every read and write to the caller's organization.
// An assessment belonging to another organization does not exist as far as
// the caller is concerned.
func (s *assessmentService) ownedAssessment(ctx context.Context, assessmentID, organizationID uuid.UUID) (*types.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.OrganizationID != organizationID {
		return nil, repos.ErrNotFound
	}
	return assessment, nil
}

// SubmitAnswer supersedes any live answer for the question and inserts the new
// one atomically. Document-extraction pre-fills come through the same path,
// carrying their source document id and confidence.
func (s *assessmentService) SubmitAnswer(ctx context.Context, assessmentID, organizationID uuid.UUID, in SubmitAnswerInput) (*types.Answer, error) {
	if in.QuestionID == uuid.Nil {
		return nil, fmt.Errorf("missing question_id")
	}
	if _, err := s.ownedAssessment(ctx, assessmentID, organizationID); err != nil {
		return nil, err
	}

	answer := &types.Answer{
		ID:                   uuid.New(),
		AssessmentID:         assessmentID,
		QuestionID:           in.QuestionID,
		Value:                datatypes.JSON(in.Value),
		EvidenceTier:         scoring.TierOrDefault(in.EvidenceTier),
		SourceDocumentID:     in.SourceDocumentID,
		ExtractionConfidence: in.ExtractionConfidence,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.answers.SupersedeLive(ctx, tx, assessmentID, in.QuestionID, time.Now().UTC()); err != nil {
			return err
		}
		_, err := s.answers.Create(ctx, tx, answer)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, assessmentID)
	}
	return answer, nil
}

// ComputeScore recomputes the full score snapshot from the live answers. The
// result is deterministic for an unchanged answer set, so completed
// assessments are served from cache until an answer changes.
func (s *assessmentService) ComputeScore(ctx context.Context, assessmentID, organizationID uuid.UUID) (*ScoreView, error) {
	assessment, err := s.ownedAssessment(ctx, assessmentID, organizationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, assessmentID); ok {
			return viewFromResult(cached), nil
		}
	}

	result, _, err := s.scoreFromStore(ctx, assessment)
	if err != nil {
		return nil, err
	}

	view := viewFromResult(result)
	if err := s.persistSnapshot(ctx, assessmentID, view); err != nil {
		// The score is still valid for this request; only the snapshot
		// write failed.
		s.log.Error("score snapshot write failed", "assessment_id", assessmentID, "error", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, assessmentID, result)
	}
	return view, nil
}

func (s *assessmentService) scoreFromStore(ctx context.Context, assessment *types.Assessment) (*scoring.ScoreResult, *scoring.NormalizedTemplate, error) {
	return computeScoreSnapshot(ctx, s.engine, s.templates, s.answers, assessment)
}

// computeScoreSnapshot loads template and answers in parallel and runs the
// engine. Shared with the analysis service, which needs the normalized
// template as well as the score.
func computeScoreSnapshot(
	ctx context.Context,
	engine *scoring.Engine,
	templates repos.TemplateRepo,
	answers repos.AnswerRepo,
	assessment *types.Assessment,
) (*scoring.ScoreResult, *scoring.NormalizedTemplate, error) {
	var (
		tpl  *types.Template
		live []*types.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tpl, err = templates.GetByID(gctx, nil, assessment.TemplateID)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = answers.GetLiveByAssessmentID(gctx, nil, assessment.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	nt, err := scoring.NormalizeTemplate(tpl)
	if err != nil {
		// Published templates are validated; reaching this means the
		// template row was corrupted after publish.
		return nil, nil, fmt.Errorf("template %s failed normalization: %w", tpl.ID, err)
	}

	byQuestion := make(map[uuid.UUID]*types.Answer, len(live))
	for _, a := range live {
		byQuestion[a.QuestionID] = a
	}
	return engine.Score(nt, byQuestion), nt, nil
}

func (s *assessmentService) persistSnapshot(ctx context.Context, assessmentID uuid.UUID, view *ScoreView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.assessments.SaveScoreSnapshot(ctx, nil, assessmentID, repos.ScoreSnapshot{
		OverallScore:    view.OverallScore,
		RiskLevel:       view.RiskLevel,
		ConfidenceLevel: view.ConfidenceLevel,
		Snapshot:        datatypes.JSON(raw),
		ScoredAt:        time.Now().UTC(),
	})
}

func viewFromResult(result *scoring.ScoreResult) *ScoreView {
	level, message := scoring.ClassifyRisk(result.OverallScore)
	return &ScoreView{
		ScoreResult:     *result,
		RiskLevel:       level,
		RiskMessage:     message,
		ConfidenceLevel: scoring.ClassifyConfidence(result.EvidenceDistribution),
	}
}
