package analytics

import (
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
)

// Risk score thresholds and contributions. Probability brackets are
// mutually exclusive; only the highest matching bracket applies.
// Vitals and fall-event points are evaluated against the single most
// recent observation only, not a rolling window.
const (
	probHighBracket   = 0.70 // +4
	probMediumBracket = 0.40 // +2
	probLowBracket    = 0.20 // +1

	feverRiskTemp      = 38.0
	systolicRiskLow    = 100
	systolicRiskHigh   = 160
	heartRateRiskLow   = 60
	heartRateRiskHigh  = 100
	oxygenRiskBelow    = 90
	recentFallLookback = 3 * 24 * time.Hour

	riskHighThreshold   = 6
	riskMediumThreshold = 3

	// AttentionProbability is the fall-probability floor that forces
	// the attention flag regardless of risk level.
	AttentionProbability = 0.50
)

// RiskScore accumulates the additive composite score from the model's
// fall probability and the resident's latest observation. Either input
// may be absent: a nil probability contributes nothing, and with no
// observation history only the probability bracket contributes.
func RiskScore(fallProbability *float64, latest *domain.ShiftObservation, now time.Time) int {
	score := 0

	if fallProbability != nil {
		switch {
		case *fallProbability >= probHighBracket:
			score += 4
		case *fallProbability >= probMediumBracket:
			score += 2
		case *fallProbability >= probLowBracket:
			score += 1
		}
	}

	if latest != nil {
		if latest.Temperature != nil && *latest.Temperature >= feverRiskTemp {
			score += 3
		}
		if latest.BPSystolic != nil && (*latest.BPSystolic < systolicRiskLow || *latest.BPSystolic > systolicRiskHigh) {
			score += 2
		}
		if latest.HeartRate != nil && (*latest.HeartRate < heartRateRiskLow || *latest.HeartRate > heartRateRiskHigh) {
			score += 1
		}
		if latest.OxygenSat != nil && *latest.OxygenSat < oxygenRiskBelow {
			score += 2
		}
		if latest.HasFallEvent() && latest.Timestamp.After(now.Add(-recentFallLookback)) {
			score += 3
		}
	}

	return score
}

// RiskLevelForScore maps a composite score to the three-tier level:
// >=6 High, >=3 Medium, else Low.
func RiskLevelForScore(score int) domain.RiskLevel {
	switch {
	case score >= riskHighThreshold:
		return domain.RiskHigh
	case score >= riskMediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// ClassifyRisk combines RiskScore and RiskLevelForScore
func ClassifyRisk(fallProbability *float64, latest *domain.ShiftObservation, now time.Time) domain.RiskLevel {
	return RiskLevelForScore(RiskScore(fallProbability, latest, now))
}

// NeedsAttention is the binary triage gate: true when the risk level is
// High or Medium, the fall probability reaches 0.50, or the medication
// concern is high or critical. The gate is deliberately permissive; it
// over-triggers rather than miss deterioration. Mood changes are
// tracked on the summary but intentionally not wired into the gate.
func NeedsAttention(risk domain.RiskLevel, fallProbability float64, concern domain.ConcernLevel) bool {
	if risk == domain.RiskHigh || risk == domain.RiskMedium {
		return true
	}
	if fallProbability >= AttentionProbability {
		return true
	}
	return concern == domain.ConcernHigh || concern == domain.ConcernCritical
}
