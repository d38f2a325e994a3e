package scoring

import "github.com/veracomply/veracomply-backend/internal/types"

// Evidence-tier multipliers are platform policy, fixed across all templates:
// self-declared answers earn less than document-backed ones.
const (
	tier0Multiplier = 0.6
	tier1Multiplier = 0.8
	tier2Multiplier = 1.0
)

// TierOrDefault falls back to TIER_0 (most conservative) for any answer
// without a recognized tier designation.
func TierOrDefault(tier string) string {
	switch tier {
	case types.EvidenceTier0, types.EvidenceTier1, types.EvidenceTier2:
		return tier
	default:
		return types.EvidenceTier0
	}
}

// MultiplierFor maps an evidence tier to its scoring multiplier.
func MultiplierFor(tier string) float64 {
	switch TierOrDefault(tier) {
	case types.EvidenceTier2:
		return tier2Multiplier
	case types.EvidenceTier1:
		return tier1Multiplier
	default:
		return tier0Multiplier
	}
}
