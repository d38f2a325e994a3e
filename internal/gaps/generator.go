package gaps

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// Sections scoring at or above this need no remediation gap.
const gapScoreThreshold = 90.0

const maxSuggestedVendors = 3

type severityProfile struct {
	costLow  int
	costHigh int
	base     float64
	priority string
}

var severityProfiles = map[string]severityProfile{
	types.GapSeverityCritical: {costLow: 50000, costHigh: 150000, base: 100, priority: types.GapPriorityImmediate},
	types.GapSeverityHigh:     {costLow: 25000, costHigh: 75000, base: 75, priority: types.GapPriorityShortTerm},
	types.GapSeverityMedium:   {costLow: 10000, costHigh: 40000, base: 50, priority: types.GapPriorityMediumTerm},
	types.GapSeverityLow:      {costLow: 2000, costHigh: 15000, base: 25, priority: types.GapPriorityLongTerm},
}

// Generator derives the real gap list from a computed score snapshot. One gap
// per section scoring below threshold, with severity following the section
// score band and vendors suggested by category coverage.
type Generator struct {
	log *logger.Logger
}

func NewGenerator(baseLog *logger.Logger) *Generator {
	return &Generator{log: baseLog.With("component", "GapGenerator")}
}

func (g *Generator) Generate(
	assessmentID uuid.UUID,
	nt *scoring.NormalizedTemplate,
	result *scoring.ScoreResult,
	vendors []types.Vendor,
) []types.Gap {
	coverage := vendorCoverage(vendors, g.log)

	out := []types.Gap{}
	for i, ss := range result.SectionBreakdown {
		if ss.Score >= gapScoreThreshold {
			continue
		}
		severity := severityForSectionScore(ss.Score)
		profile := severityProfiles[severity]

		priority := profile.priority
		if i < len(nt.Sections) && sectionHasFoundational(nt.Sections[i]) {
			priority = escalate(priority)
		}

		costLow, costHigh := profile.costLow, profile.costHigh
		effort := effortForShortfall(gapScoreThreshold - ss.Score)
		priorityScore := profile.base * (0.5 + ss.Weight)

		out = append(out, types.Gap{
			AssessmentID:      assessmentID,
			Category:          ss.Category,
			Title:             fmt.Sprintf("%s controls below target", ss.Title),
			Description:       sectionGapDescription(ss),
			Severity:          severity,
			Priority:          priority,
			EstimatedCostLow:  &costLow,
			EstimatedCostHigh: &costHigh,
			EstimatedEffort:   &effort,
			PriorityScore:     &priorityScore,
			SuggestedVendors:  suggestedVendorsJSON(coverage[ss.Category]),
			IsRestricted:      false,
		})
	}
	return out
}

func sectionGapDescription(ss scoring.SectionScore) string {
	return fmt.Sprintf(
		"%s scored %.0f/100 (%d of %d questions answered). Strengthen the controls in this area and attach supporting evidence to close the gap.",
		ss.Title, ss.Score, ss.AnsweredCount, ss.QuestionCount)
}

func severityForSectionScore(score float64) string {
	switch {
	case score < 30:
		return types.GapSeverityCritical
	case score < 55:
		return types.GapSeverityHigh
	case score < 75:
		return types.GapSeverityMedium
	default:
		return types.GapSeverityLow
	}
}

func effortForShortfall(shortfall float64) string {
	switch {
	case shortfall > 50:
		return types.GapEffortLarge
	case shortfall > 25:
		return types.GapEffortMedium
	default:
		return types.GapEffortSmall
	}
}

// Foundational questions in a section pull its remediation one priority step
// forward.
func escalate(priority string) string {
	switch priority {
	case types.GapPriorityLongTerm:
		return types.GapPriorityMediumTerm
	case types.GapPriorityMediumTerm:
		return types.GapPriorityShortTerm
	case types.GapPriorityShortTerm:
		return types.GapPriorityImmediate
	default:
		return priority
	}
}

func sectionHasFoundational(s scoring.NormalizedSection) bool {
	for _, q := range s.Questions {
		if q.Foundational {
			return true
		}
	}
	return false
}

// vendorCoverage indexes vendor names by covered category, alphabetical so
// the suggestion order is stable across runs.
func vendorCoverage(vendors []types.Vendor, log *logger.Logger) map[string][]string {
	byCategory := map[string][]string{}
	for _, v := range vendors {
		var categories []string
		if len(v.Categories) > 0 {
			if err := json.Unmarshal(v.Categories, &categories); err != nil {
				log.Warn("vendor has malformed category list, skipping",
					"vendor", v.Name, "error", err)
				continue
			}
		}
		for _, c := range categories {
			byCategory[c] = append(byCategory[c], v.Name)
		}
	}
	for c := range byCategory {
		sort.Strings(byCategory[c])
	}
	return byCategory
}

func suggestedVendorsJSON(names []string) datatypes.JSON {
	if len(names) > maxSuggestedVendors {
		names = names[:maxSuggestedVendors]
	}
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return datatypes.JSON(`[]`)
	}
	return datatypes.JSON(raw)
}
