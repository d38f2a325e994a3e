package scoring

import "testing"

func TestClassifyRiskBands(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  string
	}{
		{name: "zero", score: 0, want: RiskCritical},
		{name: "just_below_high", score: 29.999, want: RiskCritical},
		{name: "boundary_30_is_high", score: 30, want: RiskHigh},
		{name: "mid_high", score: 45, want: RiskHigh},
		{name: "boundary_60_is_medium", score: 60, want: RiskMedium},
		{name: "just_below_low", score: 79.999, want: RiskMedium},
		{name: "boundary_80_is_low", score: 80, want: RiskLow},
		{name: "perfect", score: 100, want: RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, msg := ClassifyRisk(tc.score)
			if level != tc.want {
				t.Fatalf("ClassifyRisk(%v)=%s, want %s", tc.score, level, tc.want)
			}
			if msg == "" {
				t.Fatalf("ClassifyRisk(%v): empty advisory message", tc.score)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	cases := []struct {
		name  string
		tier2 float64
		want  string
	}{
		{name: "no_verified_evidence", tier2: 0, want: ConfidenceLow},
		{name: "just_below_medium", tier2: 29.9, want: ConfidenceLow},
		{name: "boundary_30_is_medium", tier2: 30, want: ConfidenceMedium},
		{name: "just_below_high", tier2: 59.9, want: ConfidenceMedium},
		{name: "boundary_60_is_high", tier2: 60, want: ConfidenceHigh},
		{name: "fully_verified", tier2: 100, want: ConfidenceHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyConfidence(EvidenceDistribution{Tier2Percentage: tc.tier2})
			if got != tc.want {
				t.Fatalf("ClassifyConfidence(tier2=%v)=%s, want %s", tc.tier2, got, tc.want)
			}
		})
	}
}

func TestMultiplierFor(t *testing.T) {
	cases := []struct {
		tier string
		want float64
	}{
		{tier: "TIER_0", want: 0.6},
		{tier: "TIER_1", want: 0.8},
		{tier: "TIER_2", want: 1.0},
		{tier: "", want: 0.6},
		{tier: "TIER_9", want: 0.6},
	}
	for _, tc := range cases {
		if got := MultiplierFor(tc.tier); got != tc.want {
			t.Fatalf("MultiplierFor(%q)=%v, want %v", tc.tier, got, tc.want)
		}
	}
}
