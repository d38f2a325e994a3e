package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewEngine(log)
}

func answerFor(q NormalizedQuestion, value string, tier string) *types.Answer {
	return &types.Answer{
		ID:           uuid.New(),
		QuestionID:   q.QuestionID,
		Value:        datatypes.JSON(value),
		EvidenceTier: tier,
	}
}

func TestScoreEvidenceTierRatio(t *testing.T) {
	// Two identical single-question templates, answers differing only in
	// tier, must score in ratio 0.6 : 1.0.
	nt, err := NormalizeTemplate(testTemplate([]float64{1.0}, [][]float64{{1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	q := nt.Sections[0].Questions[0]

	tier0 := engine.Score(nt, map[uuid.UUID]*types.Answer{
		q.QuestionID: answerFor(q, `"yes"`, types.EvidenceTier0),
	})
	tier2 := engine.Score(nt, map[uuid.UUID]*types.Answer{
		q.QuestionID: answerFor(q, `"yes"`, types.EvidenceTier2),
	})

	if tier2.OverallScore != 100 {
		t.Fatalf("tier2 overall=%v, want 100", tier2.OverallScore)
	}
	if ratio := tier0.OverallScore / tier2.OverallScore; math.Abs(ratio-0.6) > 1e-9 {
		t.Fatalf("tier0:tier2 ratio=%v, want 0.6", ratio)
	}
}

func TestScoreMissingTierDefaultsToTier0(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{1.0}, [][]float64{{1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	q := nt.Sections[0].Questions[0]

	res := engine.Score(nt, map[uuid.UUID]*types.Answer{
		q.QuestionID: answerFor(q, `"yes"`, ""),
	})
	if res.OverallScore != 60 {
		t.Fatalf("overall=%v, want 60 (tier0 multiplier)", res.OverallScore)
	}
	if res.EvidenceDistribution.Tier0Count != 1 {
		t.Fatalf("tier0Count=%d, want 1", res.EvidenceDistribution.Tier0Count)
	}
}

func TestScoreUnansweredQuestionsStayInDenominator(t *testing.T) {
	// Two equal-weight questions, one answered perfectly with full
	// evidence: the section must land at 50, not 100.
	nt, err := NormalizeTemplate(testTemplate([]float64{1.0}, [][]float64{{1, 1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	q := nt.Sections[0].Questions[0]

	res := engine.Score(nt, map[uuid.UUID]*types.Answer{
		q.QuestionID: answerFor(q, `"yes"`, types.EvidenceTier2),
	})
	if res.OverallScore != 50 {
		t.Fatalf("overall=%v, want 50", res.OverallScore)
	}
	if got := res.SectionBreakdown[0].AnsweredCount; got != 1 {
		t.Fatalf("answeredCount=%d, want 1", got)
	}
	if got := res.SectionBreakdown[0].QuestionCount; got != 2 {
		t.Fatalf("questionCount=%d, want 2", got)
	}
	// Unanswered questions have no tier and are excluded from the tally.
	if got := res.EvidenceDistribution.AnsweredCount; got != 1 {
		t.Fatalf("distribution answeredCount=%d, want 1", got)
	}
}

func TestScoreMalformedAnswerScoresZeroWithoutAborting(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{1.0}, [][]float64{{1, 1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	good := nt.Sections[0].Questions[0]
	bad := nt.Sections[0].Questions[1]

	res := engine.Score(nt, map[uuid.UUID]*types.Answer{
		good.QuestionID: answerFor(good, `"yes"`, types.EvidenceTier2),
		// Option no longer present in the template.
		bad.QuestionID: answerFor(bad, `"formerly_valid_option"`, types.EvidenceTier2),
	})
	if res.OverallScore != 50 {
		t.Fatalf("overall=%v, want 50 (bad answer scores 0)", res.OverallScore)
	}
}

func TestScoreSectionWeightsRollUp(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{0.25, 0.75}, [][]float64{{1}, {1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	q1 := nt.Sections[0].Questions[0]

	// Only the lighter section answered.
	res := engine.Score(nt, map[uuid.UUID]*types.Answer{
		q1.QuestionID: answerFor(q1, `"yes"`, types.EvidenceTier2),
	})
	if res.OverallScore != 25 {
		t.Fatalf("overall=%v, want 25", res.OverallScore)
	}
	if res.SectionBreakdown[0].Score != 100 || res.SectionBreakdown[1].Score != 0 {
		t.Fatalf("section scores=%v/%v, want 100/0",
			res.SectionBreakdown[0].Score, res.SectionBreakdown[1].Score)
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{0.5, 0.5}, [][]float64{{1, 2}, {1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	answers := map[uuid.UUID]*types.Answer{}
	for _, s := range nt.Sections {
		for _, q := range s.Questions {
			answers[q.QuestionID] = answerFor(q, `"yes"`, types.EvidenceTier1)
		}
	}

	first, err := json.Marshal(engine.Score(nt, answers))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(engine.Score(nt, answers))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("score not byte-identical across runs:\n%s\n%s", first, second)
	}
}

func TestScoreRaisingOneAnswerNeverLowersTotal(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{0.5, 0.5}, [][]float64{{1, 1}, {2, 1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	answers := map[uuid.UUID]*types.Answer{}
	for _, s := range nt.Sections {
		for _, q := range s.Questions {
			answers[q.QuestionID] = answerFor(q, `"no"`, types.EvidenceTier0)
		}
	}
	base := engine.Score(nt, answers).OverallScore

	target := nt.Sections[1].Questions[0]
	for _, tier := range []string{types.EvidenceTier0, types.EvidenceTier1, types.EvidenceTier2} {
		answers[target.QuestionID] = answerFor(target, `"yes"`, tier)
		got := engine.Score(nt, answers).OverallScore
		if got < base {
			t.Fatalf("raising one answer lowered total: %v -> %v (tier %s)", base, got, tier)
		}
		base = got
	}
}

func TestScoreEvidenceDistributionPercentages(t *testing.T) {
	nt, err := NormalizeTemplate(testTemplate([]float64{1.0}, [][]float64{{1, 1, 1, 1}}))
	if err != nil {
		t.Fatalf("NormalizeTemplate: %v", err)
	}
	engine := testEngine(t)
	qs := nt.Sections[0].Questions
	answers := map[uuid.UUID]*types.Answer{
		qs[0].QuestionID: answerFor(qs[0], `"yes"`, types.EvidenceTier2),
		qs[1].QuestionID: answerFor(qs[1], `"yes"`, types.EvidenceTier2),
		qs[2].QuestionID: answerFor(qs[2], `"yes"`, types.EvidenceTier1),
		qs[3].QuestionID: answerFor(qs[3], `"yes"`, types.EvidenceTier0),
	}

	dist := engine.Score(nt, answers).EvidenceDistribution
	if dist.Tier2Count != 2 || dist.Tier1Count != 1 || dist.Tier0Count != 1 {
		t.Fatalf("counts=%d/%d/%d, want 1/1/2", dist.Tier0Count, dist.Tier1Count, dist.Tier2Count)
	}
	if dist.Tier2Percentage != 50 || dist.Tier1Percentage != 25 || dist.Tier0Percentage != 25 {
		t.Fatalf("percentages=%v/%v/%v, want 25/25/50",
			dist.Tier0Percentage, dist.Tier1Percentage, dist.Tier2Percentage)
	}
}
