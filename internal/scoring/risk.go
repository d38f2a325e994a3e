package scoring

const (
	RiskCritical = "CRITICAL"
	RiskHigh     = "HIGH"
	RiskMedium   = "MEDIUM"
	RiskLow      = "LOW"
)

const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

var riskMessages = map[string]string{
	RiskCritical: "Critical compliance exposure. Core controls are missing or unverified; begin remediation immediately.",
	RiskHigh:     "High compliance exposure. Significant control gaps remain and should be prioritized this quarter.",
	RiskMedium:   "Moderate compliance posture. Most controls are in place; close the remaining gaps to reduce audit risk.",
	RiskLow:      "Strong compliance posture. Maintain current controls and keep evidence up to date.",
}

// ClassifyRisk maps a 0-100 compliance score to a risk level. Higher score
// means lower risk. Boundaries belong to the higher band: exactly 30 is HIGH,
// exactly 80 is LOW.
func ClassifyRisk(score float64) (level, message string) {
	switch {
	case score >= 80:
		level = RiskLow
	case score >= 60:
		level = RiskMedium
	case score >= 30:
		level = RiskHigh
	default:
		level = RiskCritical
	}
	return level, riskMessages[level]
}

// ClassifyConfidence rates how much of the score rests on verified evidence:
// the more of the answered set that is document-extracted (tier 2), the higher
// the confidence, independent of the score itself.
func ClassifyConfidence(dist EvidenceDistribution) string {
	switch {
	case dist.Tier2Percentage >= 60:
		return ConfidenceHigh
	case dist.Tier2Percentage >= 30:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
