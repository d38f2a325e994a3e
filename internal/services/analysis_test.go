package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/veracomply/veracomply-backend/internal/gaps"
	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/strategy"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type fakeAssessmentRepo struct {
	byID map[uuid.UUID]*types.Assessment
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, a *types.Assessment) (*types.Assessment, error) {
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repos.ErrNotFound
	}
	return a, nil
}

func (f *fakeAssessmentRepo) ListByOrganizationID(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) ([]*types.Assessment, error) {
	var out []*types.Assessment
	for _, a := range f.byID {
		if a.OrganizationID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) SaveScoreSnapshot(ctx context.Context, tx *gorm.DB, id uuid.UUID, snap repos.ScoreSnapshot) error {
	return nil
}

type fakeAnswerRepo struct {
	live []*types.Answer
}

func (f *fakeAnswerRepo) Create(ctx context.Context, tx *gorm.DB, a *types.Answer) (*types.Answer, error) {
	f.live = append(f.live, a)
	return a, nil
}

func (f *fakeAnswerRepo) GetLiveByAssessmentID(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*types.Answer, error) {
	return f.live, nil
}

func (f *fakeAnswerRepo) SupersedeLive(ctx context.Context, tx *gorm.DB, assessmentID, questionID uuid.UUID, at time.Time) error {
	return nil
}

type fakeTemplateRepo struct {
	tpl *types.Template
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tx *gorm.DB, tpl *types.Template) (*types.Template, error) {
	return tpl, nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Template, error) {
	if f.tpl == nil || f.tpl.ID != id {
		return nil, repos.ErrNotFound
	}
	return f.tpl, nil
}

func (f *fakeTemplateRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Template, error) {
	return []*types.Template{f.tpl}, nil
}

func (f *fakeTemplateRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	f.tpl.Status = status
	return nil
}

type fakeGapRepo struct {
	stored []types.Gap
}

func (f *fakeGapRepo) ReplaceForAssessment(ctx context.Context, tx *gorm.DB, id uuid.UUID, gapList []types.Gap) ([]types.Gap, error) {
	f.stored = gapList
	return gapList, nil
}

func (f *fakeGapRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]types.Gap, error) {
	return f.stored, nil
}

type fakeVendorRepo struct {
	vendors []types.Vendor
	err     error
}

func (f *fakeVendorRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]types.Vendor, error) {
	return f.vendors, f.err
}

func (f *fakeVendorRepo) UpsertByName(ctx context.Context, tx *gorm.DB, vendors []types.Vendor) error {
	return nil
}

type fakeGate struct{ full bool }

func (f fakeGate) CanAccessFullAnalysis(ctx context.Context, organizationID uuid.UUID) bool {
	return f.full
}

// analysisFixture builds a published single-section template with one weak
// answer, an assessment over it, and an analysis service wired to fakes.
func analysisFixture(t *testing.T, full bool) (AnalysisService, *types.Assessment, *fakeGapRepo) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}

	q1, q2 := uuid.New(), uuid.New()
	tpl := &types.Template{
		ID:     uuid.New(),
		Name:   "SOC 2 Readiness",
		Status: types.TemplateStatusPublished,
		Sections: []types.Section{{
			ID:       uuid.New(),
			Title:    "Access Control",
			Category: "access_control",
			Weight:   1.0,
			Questions: []types.Question{
				{ID: q1, Prompt: "MFA enforced?", Type: types.QuestionTypeYesNo, RawWeight: 1,
					ScoringRule: datatypes.JSON(`{"kind":"mapping","points":{"yes":100,"no":0}}`)},
				{ID: q2, Prompt: "Access reviews?", Type: types.QuestionTypeYesNo, RawWeight: 1,
					ScoringRule: datatypes.JSON(`{"kind":"mapping","points":{"yes":100,"no":0}}`)},
			},
		}},
	}
	assessment := &types.Assessment{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		TemplateID:     tpl.ID,
		Status:         types.AssessmentStatusInProgress,
	}

	assessments := &fakeAssessmentRepo{byID: map[uuid.UUID]*types.Assessment{assessment.ID: assessment}}
	answers := &fakeAnswerRepo{live: []*types.Answer{
		{ID: uuid.New(), AssessmentID: assessment.ID, QuestionID: q1,
			Value: datatypes.JSON(`"no"`), EvidenceTier: types.EvidenceTier2},
	}}
	gapStore := &fakeGapRepo{}

	svc := NewAnalysisService(
		nil, log,
		assessments, answers, &fakeTemplateRepo{tpl: tpl}, gapStore,
		&fakeVendorRepo{vendors: []types.Vendor{
			{ID: uuid.New(), Name: "Vanta", Categories: datatypes.JSON(`["access_control"]`)},
		}},
		scoring.NewEngine(log),
		gaps.NewGenerator(log),
		fakeGate{full: full},
	)
	return svc, assessment, gapStore
}

func TestGapAnalysisRestrictedOrgGetsMockedGaps(t *testing.T) {
	svc, assessment, gapStore := analysisFixture(t, false)

	got, err := svc.GetGapAnalysis(context.Background(), assessment.ID, assessment.OrganizationID)
	if err != nil {
		t.Fatalf("GetGapAnalysis: %v", err)
	}
	if len(got) < 3 || len(got) > 5 {
		t.Fatalf("mocked gap count=%d, want 3..5", len(got))
	}
	for _, g := range got {
		if !g.IsRestricted {
			t.Fatalf("restricted gap not flagged: %+v", g)
		}
		if g.Category != types.CategoryHiddenAnalysis {
			t.Fatalf("category=%q, want %q", g.Category, types.CategoryHiddenAnalysis)
		}
		if !strings.HasSuffix(g.Description, gaps.UpsellMarker) {
			t.Fatalf("description missing upsell marker: %q", g.Description)
		}
		if g.EstimatedCostLow != nil || g.EstimatedCostHigh != nil || g.EstimatedEffort != nil {
			t.Fatalf("remediation detail leaked on restricted gap: %+v", g)
		}
	}
	if len(gapStore.stored) != 0 {
		t.Fatalf("mocked gaps must not be persisted, stored %d", len(gapStore.stored))
	}
}

func TestGapAnalysisEntitledOrgGetsDerivedGapsPersisted(t *testing.T) {
	svc, assessment, gapStore := analysisFixture(t, true)

	got, err := svc.GetGapAnalysis(context.Background(), assessment.ID, assessment.OrganizationID)
	if err != nil {
		t.Fatalf("GetGapAnalysis: %v", err)
	}
	// One answered "no" plus one unanswered puts access_control well below
	// target, so the single section yields exactly one gap.
	if len(got) != 1 {
		t.Fatalf("gap count=%d, want 1", len(got))
	}
	g := got[0]
	if g.IsRestricted {
		t.Fatalf("entitled gap flagged restricted")
	}
	if g.Category != "access_control" {
		t.Fatalf("category=%q, want access_control", g.Category)
	}
	if g.EstimatedCostLow == nil || g.EstimatedCostHigh == nil {
		t.Fatalf("entitled gap missing cost estimates: %+v", g)
	}
	if !strings.Contains(string(g.SuggestedVendors), "Vanta") {
		t.Fatalf("vendor suggestion missing: %s", g.SuggestedVendors)
	}
	if len(gapStore.stored) != 1 {
		t.Fatalf("derived gaps not persisted, stored %d", len(gapStore.stored))
	}
}

func TestGapAnalysisCrossOrgAccessIsNotFound(t *testing.T) {
	svc, assessment, _ := analysisFixture(t, true)

	_, err := svc.GetGapAnalysis(context.Background(), assessment.ID, uuid.New())
	if !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("cross-org access: want ErrNotFound, got %v", err)
	}
}

func TestStrategyMatrixRestrictedOrgIsRedacted(t *testing.T) {
	svc, assessment, _ := analysisFixture(t, false)

	matrix, err := svc.GetStrategyMatrix(context.Background(), assessment.ID, assessment.OrganizationID)
	if err != nil {
		t.Fatalf("GetStrategyMatrix: %v", err)
	}
	if !matrix.Restricted {
		t.Fatalf("matrix for restricted org not flagged")
	}
	if len(matrix.Buckets) != 3 {
		t.Fatalf("bucket count=%d, want 3", len(matrix.Buckets))
	}
	for _, b := range matrix.Buckets {
		for _, item := range b.Items {
			if item.Description != strategy.RedactionMarker {
				t.Fatalf("unredacted description in restricted matrix: %q", item.Description)
			}
		}
		if len(b.TopVendors) != 0 {
			t.Fatalf("vendors leaked in restricted matrix: %+v", b.TopVendors)
		}
	}
}

func TestStrategyMatrixEntitledOrgHasCostAndVendors(t *testing.T) {
	svc, assessment, _ := analysisFixture(t, true)

	matrix, err := svc.GetStrategyMatrix(context.Background(), assessment.ID, assessment.OrganizationID)
	if err != nil {
		t.Fatalf("GetStrategyMatrix: %v", err)
	}
	if matrix.Restricted {
		t.Fatalf("matrix for entitled org flagged restricted")
	}

	var populated int
	for _, b := range matrix.Buckets {
		if b.GapCount == 0 {
			if b.EmptyStateMessage == "" {
				t.Fatalf("empty bucket %q missing empty-state message", b.Timeline)
			}
			continue
		}
		populated++
		if b.EstimatedCostRange == "" || b.EstimatedCostRange == strategy.RedactionMarker {
			t.Fatalf("bucket %q cost range=%q", b.Timeline, b.EstimatedCostRange)
		}
		if len(b.TopVendors) == 0 {
			t.Fatalf("bucket %q missing vendor ranking", b.Timeline)
		}
	}
	if populated != 1 {
		t.Fatalf("populated buckets=%d, want 1", populated)
	}
}
