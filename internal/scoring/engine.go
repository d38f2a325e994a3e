package scoring

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// ScoreResult is the complete scoring snapshot for one assessment. The JSON
// field names are the contract the UI depends on.
type ScoreResult struct {
	OverallScore         float64              `json:"overallScore"`
	SectionBreakdown     []SectionScore       `json:"sectionBreakdown"`
	EvidenceDistribution EvidenceDistribution `json:"evidenceDistribution"`
}

type SectionScore struct {
	SectionID     uuid.UUID `json:"sectionId"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Weight        float64   `json:"weight"`
	Score         float64   `json:"score"`
	QuestionCount int       `json:"questionCount"`
	AnsweredCount int       `json:"answeredCount"`
}

// EvidenceDistribution tallies tiers across answered questions only;
// unanswered questions have no tier to count.
type EvidenceDistribution struct {
	AnsweredCount   int     `json:"answeredCount"`
	Tier0Count      int     `json:"tier0Count"`
	Tier1Count      int     `json:"tier1Count"`
	Tier2Count      int     `json:"tier2Count"`
	Tier0Percentage float64 `json:"tier0Percentage"`
	Tier1Percentage float64 `json:"tier1Percentage"`
	Tier2Percentage float64 `json:"tier2Percentage"`
}

type Engine struct {
	log *logger.Logger
}

func NewEngine(baseLog *logger.Logger) *Engine {
	return &Engine{log: baseLog.With("component", "ScoringEngine")}
}

// Score computes the weighted score snapshot for one assessment. It is total:
// a malformed answer or unparseable rule scores that question 0 and is logged,
// never propagated — one bad answer must not cost the caller the whole score.
// Unanswered questions also score 0 but stay in the weighted denominator, so
// missing evidence is penalized rather than silently excluded.
func (e *Engine) Score(nt *NormalizedTemplate, answers map[uuid.UUID]*types.Answer) *ScoreResult {
	result := &ScoreResult{
		SectionBreakdown: make([]SectionScore, 0, len(nt.Sections)),
	}

	dist := EvidenceDistribution{}
	overall := 0.0
	for _, section := range nt.Sections {
		ss := SectionScore{
			SectionID:     section.SectionID,
			Title:         section.Title,
			Category:      section.Category,
			Weight:        section.Weight,
			QuestionCount: len(section.Questions),
		}
		for _, q := range section.Questions {
			ans, answered := answers[q.QuestionID]
			if !answered || ans == nil {
				continue
			}
			ss.AnsweredCount++

			tier := TierOrDefault(ans.EvidenceTier)
			switch tier {
			case types.EvidenceTier2:
				dist.Tier2Count++
			case types.EvidenceTier1:
				dist.Tier1Count++
			default:
				dist.Tier0Count++
			}

			raw := e.rawQuestionScore(q, ans)
			ss.Score += q.Weight * raw * MultiplierFor(tier)
		}
		ss.Score = clampScore(ss.Score)
		overall += section.Weight * ss.Score
		result.SectionBreakdown = append(result.SectionBreakdown, ss)
	}
	result.OverallScore = clampScore(overall)

	dist.AnsweredCount = dist.Tier0Count + dist.Tier1Count + dist.Tier2Count
	if dist.AnsweredCount > 0 {
		n := float64(dist.AnsweredCount)
		dist.Tier0Percentage = 100.0 * float64(dist.Tier0Count) / n
		dist.Tier1Percentage = 100.0 * float64(dist.Tier1Count) / n
		dist.Tier2Percentage = 100.0 * float64(dist.Tier2Count) / n
	}
	result.EvidenceDistribution = dist
	return result
}

func (e *Engine) rawQuestionScore(q NormalizedQuestion, ans *types.Answer) float64 {
	if q.Rule == nil {
		e.log.Warn("question has no usable scoring rule, scoring 0",
			"question_id", q.QuestionID, "error", q.RuleErr)
		return 0
	}
	var value any
	if len(ans.Value) > 0 {
		if err := json.Unmarshal(ans.Value, &value); err != nil {
			e.log.Warn("answer value is not valid JSON, scoring 0",
				"question_id", q.QuestionID, "answer_id", ans.ID, "error", err)
			return 0
		}
	}
	score, err := q.Rule.Evaluate(value)
	if err != nil {
		e.log.Warn("scoring rule could not evaluate answer, scoring 0",
			"question_id", q.QuestionID, "answer_id", ans.ID, "error", err)
		return 0
	}
	return score
}
