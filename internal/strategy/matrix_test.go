package strategy

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/veracomply/veracomply-backend/internal/gaps"
	"github.com/veracomply/veracomply-backend/internal/types"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func realGap(priority, severity, effort string, costLow, costHigh int, vendors string) types.Gap {
	return types.Gap{
		ID:                uuid.New(),
		Category:          "data_protection",
		Title:             "Encryption gap",
		Description:       "Customer data is not encrypted at rest.",
		Severity:          severity,
		Priority:          priority,
		EstimatedCostLow:  intPtr(costLow),
		EstimatedCostHigh: intPtr(costHigh),
		EstimatedEffort:   strPtr(effort),
		SuggestedVendors:  datatypes.JSON(vendors),
	}
}

func TestBuildMatrixAlwaysReturnsThreeBuckets(t *testing.T) {
	matrix := BuildMatrix(uuid.New(), nil, false)
	if len(matrix.Buckets) != 3 {
		t.Fatalf("bucket count=%d, want 3", len(matrix.Buckets))
	}
	want := []string{TimelineImmediate, TimelineNearTerm, TimelineStrategic}
	for i, bucket := range matrix.Buckets {
		if bucket.Timeline != want[i] {
			t.Fatalf("bucket[%d].timeline=%q, want %q", i, bucket.Timeline, want[i])
		}
		if bucket.GapCount != 0 {
			t.Fatalf("empty matrix bucket has gapCount=%d", bucket.GapCount)
		}
		if bucket.EstimatedCostRange != "No gaps" {
			t.Fatalf("empty bucket estimatedCostRange=%q, want \"No gaps\"", bucket.EstimatedCostRange)
		}
		if bucket.EmptyStateMessage == "" {
			t.Fatalf("empty bucket missing explicit empty state")
		}
	}
}

func TestBuildMatrixBucketAssignment(t *testing.T) {
	gapList := []types.Gap{
		realGap(types.GapPriorityImmediate, types.GapSeverityCritical, types.GapEffortLarge, 50000, 150000, `["ShieldWorks"]`),
		realGap(types.GapPriorityShortTerm, types.GapSeverityHigh, types.GapEffortMedium, 25000, 75000, `["ShieldWorks","AuditPath"]`),
		realGap(types.GapPriorityMediumTerm, types.GapSeverityMedium, types.GapEffortMedium, 10000, 40000, `["AuditPath"]`),
		realGap(types.GapPriorityLongTerm, types.GapSeverityLow, types.GapEffortSmall, 2000, 15000, `[]`),
	}
	matrix := BuildMatrix(uuid.New(), gapList, false)

	if got := matrix.Buckets[0].GapCount; got != 1 {
		t.Fatalf("immediate gapCount=%d, want 1", got)
	}
	// SHORT_TERM and MEDIUM_TERM share the near-term bucket.
	if got := matrix.Buckets[1].GapCount; got != 2 {
		t.Fatalf("near-term gapCount=%d, want 2", got)
	}
	if got := matrix.Buckets[2].GapCount; got != 1 {
		t.Fatalf("strategic gapCount=%d, want 1", got)
	}

	if got := matrix.Buckets[1].EstimatedCostRange; got != "$35,000 - $115,000" {
		t.Fatalf("near-term cost range=%q, want \"$35,000 - $115,000\"", got)
	}
	if dist := matrix.Buckets[1].EffortDistribution; dist.Medium != 2 || dist.Small != 0 || dist.Large != 0 {
		t.Fatalf("near-term effort distribution=%+v, want 2 medium", dist)
	}
}

func TestBuildMatrixVendorRanking(t *testing.T) {
	gapList := []types.Gap{
		realGap(types.GapPriorityShortTerm, types.GapSeverityHigh, types.GapEffortMedium, 1000, 2000, `["AuditPath","ShieldWorks"]`),
		realGap(types.GapPriorityMediumTerm, types.GapSeverityMedium, types.GapEffortSmall, 1000, 2000, `["ShieldWorks"]`),
		realGap(types.GapPriorityShortTerm, types.GapSeverityHigh, types.GapEffortSmall, 1000, 2000, `["ShieldWorks","NetSentry","AuditPath","ZetaSec"]`),
	}
	matrix := BuildMatrix(uuid.New(), gapList, false)

	top := matrix.Buckets[1].TopVendors
	if len(top) != 3 {
		t.Fatalf("topVendors length=%d, want 3 (truncated)", len(top))
	}
	if top[0].Name != "ShieldWorks" || top[0].GapsCovered != 3 {
		t.Fatalf("top vendor=%+v, want ShieldWorks covering 3", top[0])
	}
	if top[1].Name != "AuditPath" || top[1].GapsCovered != 2 {
		t.Fatalf("second vendor=%+v, want AuditPath covering 2", top[1])
	}
	// NetSentry and ZetaSec tie at 1; alphabetical order breaks the tie.
	if top[2].Name != "NetSentry" {
		t.Fatalf("third vendor=%+v, want NetSentry", top[2])
	}
}

func TestBuildMatrixRestrictedDegradesContent(t *testing.T) {
	assessmentID := uuid.New()
	matrix := BuildMatrix(assessmentID, gaps.GenerateMockedGapAnalysis(assessmentID), true)

	if !matrix.Restricted {
		t.Fatalf("matrix not marked restricted")
	}
	// Mocked gaps are all MEDIUM priority, so everything is near-term.
	bucket := matrix.Buckets[1]
	if bucket.GapCount < 3 {
		t.Fatalf("near-term gapCount=%d, want >=3", bucket.GapCount)
	}
	if bucket.EstimatedCostRange != RedactionMarker {
		t.Fatalf("restricted cost range=%q, want %q", bucket.EstimatedCostRange, RedactionMarker)
	}
	for _, item := range bucket.Items {
		if item.Description != RedactionMarker {
			t.Fatalf("restricted item description=%q, want %q", item.Description, RedactionMarker)
		}
	}
	for _, b := range matrix.Buckets {
		if len(b.TopVendors) != 0 {
			t.Fatalf("restricted matrix leaked vendors: %+v", b.TopVendors)
		}
	}
}
