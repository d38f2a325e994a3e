package strategy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/types"
)

// RedactionMarker replaces requirement text in freemium matrices.
const RedactionMarker = "[DETAILS HIDDEN]"

// EmptyBucketMessage is the explicit empty state: callers always receive all
// three buckets, never a missing one.
const EmptyBucketMessage = "No gaps in this timeframe - all requirements met"

const topVendorLimit = 3

const (
	TimelineImmediate = "0-6 months"
	TimelineNearTerm  = "6-18 months"
	TimelineStrategic = "18+ months"
)

// StrategyMatrix JSON field names are the contract existing UI callers depend
// on; keep them bit-for-bit.
type StrategyMatrix struct {
	AssessmentID uuid.UUID        `json:"assessmentId"`
	Restricted   bool             `json:"restricted"`
	Buckets      []TimelineBucket `json:"buckets"`
}

type TimelineBucket struct {
	Timeline           string             `json:"timeline"`
	GapCount           int                `json:"gapCount"`
	EffortDistribution EffortDistribution `json:"effortDistribution"`
	EstimatedCostRange string             `json:"estimatedCostRange"`
	TopVendors         []VendorRank       `json:"topVendors"`
	Items              []MatrixItem       `json:"items"`
	EmptyStateMessage  string             `json:"emptyStateMessage,omitempty"`
}

type EffortDistribution struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

type VendorRank struct {
	Name        string `json:"name"`
	GapsCovered int    `json:"gapsCovered"`
}

type MatrixItem struct {
	GapID       uuid.UUID `json:"gapId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Priority    string    `json:"priority"`
}

// timelineFor is the fixed priority-to-bucket lookup; it is not configurable.
// Anything unrecognized lands in the near-term bucket.
func timelineFor(priority string) string {
	switch priority {
	case types.GapPriorityImmediate:
		return TimelineImmediate
	case types.GapPriorityLongTerm:
		return TimelineStrategic
	default:
		return TimelineNearTerm
	}
}

// BuildMatrix partitions gaps into the three timeline buckets. For restricted
// (freemium) input the item text degrades to the redaction marker and vendor
// lists stay empty; the bucket structure itself never changes shape.
func BuildMatrix(assessmentID uuid.UUID, gapList []types.Gap, restricted bool) *StrategyMatrix {
	matrix := &StrategyMatrix{
		AssessmentID: assessmentID,
		Restricted:   restricted,
		Buckets: []TimelineBucket{
			{Timeline: TimelineImmediate},
			{Timeline: TimelineNearTerm},
			{Timeline: TimelineStrategic},
		},
	}

	type bucketAgg struct {
		costLow    int
		costHigh   int
		hasCost    bool
		vendorHits map[string]int
	}
	aggs := make([]bucketAgg, len(matrix.Buckets))
	for i := range aggs {
		aggs[i].vendorHits = map[string]int{}
	}
	indexFor := map[string]int{
		TimelineImmediate: 0,
		TimelineNearTerm:  1,
		TimelineStrategic: 2,
	}

	for _, g := range gapList {
		i := indexFor[timelineFor(g.Priority)]
		bucket := &matrix.Buckets[i]
		agg := &aggs[i]

		bucket.GapCount++
		if g.EstimatedEffort != nil {
			switch *g.EstimatedEffort {
			case types.GapEffortSmall:
				bucket.EffortDistribution.Small++
			case types.GapEffortMedium:
				bucket.EffortDistribution.Medium++
			case types.GapEffortLarge:
				bucket.EffortDistribution.Large++
			}
		}
		if g.EstimatedCostLow != nil && g.EstimatedCostHigh != nil {
			agg.costLow += *g.EstimatedCostLow
			agg.costHigh += *g.EstimatedCostHigh
			agg.hasCost = true
		}
		if !restricted {
			var names []string
			if len(g.SuggestedVendors) > 0 {
				_ = json.Unmarshal(g.SuggestedVendors, &names)
			}
			for _, name := range names {
				agg.vendorHits[name]++
			}
		}

		description := g.Description
		if restricted {
			description = RedactionMarker
		}
		bucket.Items = append(bucket.Items, MatrixItem{
			GapID:       g.ID,
			Title:       g.Title,
			Description: description,
			Severity:    g.Severity,
			Priority:    g.Priority,
		})
	}

	for i := range matrix.Buckets {
		bucket := &matrix.Buckets[i]
		agg := aggs[i]

		switch {
		case bucket.GapCount == 0:
			bucket.EstimatedCostRange = "No gaps"
			bucket.EmptyStateMessage = EmptyBucketMessage
		case agg.hasCost:
			bucket.EstimatedCostRange = fmt.Sprintf("%s - %s",
				formatDollars(agg.costLow), formatDollars(agg.costHigh))
		default:
			// Gaps present but no cost data: the freemium mock set.
			bucket.EstimatedCostRange = RedactionMarker
		}

		bucket.TopVendors = rankVendors(agg.vendorHits)
		if bucket.Items == nil {
			bucket.Items = []MatrixItem{}
		}
	}
	return matrix
}

// rankVendors orders vendors by in-bucket gaps covered, descending, name
// ascending on ties, truncated to the top 3.
func rankVendors(hits map[string]int) []VendorRank {
	ranked := make([]VendorRank, 0, len(hits))
	for name, covered := range hits {
		ranked = append(ranked, VendorRank{Name: name, GapsCovered: covered})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].GapsCovered != ranked[j].GapsCovered {
			return ranked[i].GapsCovered > ranked[j].GapsCovered
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topVendorLimit {
		ranked = ranked[:topVendorLimit]
	}
	return ranked
}

func formatDollars(amount int) string {
	s := strconv.Itoa(amount)
	neg := false
	if amount < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return "$" + s
}
