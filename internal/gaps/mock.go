package gaps

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/veracomply/veracomply-backend/internal/types"
)

// UpsellMarker terminates every mocked gap description. The UI keys its
// upgrade prompt off this literal, so it must be preserved exactly.
const UpsellMarker = "[UNLOCK PREMIUM TO SEE DETAILS]"

var mockGapTitles = []string{
	"Access control weakness identified",
	"Data protection gap detected",
	"Incident readiness shortfall",
	"Vendor oversight deficiency",
	"Policy coverage gap found",
}

// Severity pool is arranged so any contiguous 3-5 window contains at least
// two distinct values.
var mockGapSeverities = []string{
	types.GapSeverityHigh,
	types.GapSeverityMedium,
	types.GapSeverityCritical,
	types.GapSeverityMedium,
	types.GapSeverityHigh,
}

// GenerateMockedGapAnalysis produces the freemium substitute for a real gap
// analysis: 3-5 restricted placeholder gaps, structurally plausible but with
// every remediation-specific field withheld. Pure local computation — the free
// tier never touches a paid analysis backend. Deterministic per assessment so
// repeated views render identically.
func GenerateMockedGapAnalysis(assessmentID uuid.UUID) []types.Gap {
	h := fnv.New32a()
	_, _ = h.Write(assessmentID[:])
	seed := h.Sum32()

	count := 3 + int(seed%3) // 3-5
	gaps := make([]types.Gap, 0, count)
	for i := 0; i < count; i++ {
		title := mockGapTitles[(int(seed)+i)%len(mockGapTitles)]
		gaps = append(gaps, types.Gap{
			AssessmentID: assessmentID,
			Category:     types.CategoryHiddenAnalysis,
			Title:        title,
			Description: fmt.Sprintf("%s. Full remediation guidance is available on paid plans. %s",
				title, UpsellMarker),
			Severity:          mockGapSeverities[(int(seed)+i)%len(mockGapSeverities)],
			Priority:          types.GapPriorityMediumTerm,
			EstimatedCostLow:  nil,
			EstimatedCostHigh: nil,
			EstimatedEffort:   nil,
			PriorityScore:     nil,
			SuggestedVendors:  datatypes.JSON(`[]`),
			IsRestricted:      true,
		})
	}
	return gaps
}
