package analytics_test

import (
	"testing"
	"time"

	"github.com/carebridge/wellness-service/internal/core/analytics"
	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestRiskScore_ProbabilityBracketsAreMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name     string
		prob     float64
		expected int
	}{
		{"below all brackets", 0.19, 0},
		{"low bracket floor", 0.20, 1},
		{"low bracket ceiling", 0.39, 1},
		{"medium bracket floor", 0.40, 2},
		{"medium bracket ceiling", 0.69, 2},
		{"high bracket floor", 0.70, 4},
		{"certain fall", 1.0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := analytics.RiskScore(floatPtr(tt.prob), nil, anchor)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestRiskScore_NilProbability(t *testing.T) {
	assert.Equal(t, 0, analytics.RiskScore(nil, nil, anchor))
}

func TestRiskScore_VitalsContributions(t *testing.T) {
	obs := &domain.ShiftObservation{
		Timestamp:   anchor,
		Temperature: floatPtr(38.5), // +3
		BPSystolic:  intPtr(95),     // +2 (below 100)
		HeartRate:   intPtr(110),    // +1 (above 100)
		OxygenSat:   intPtr(88),     // +2 (below 90)
	}
	assert.Equal(t, 8, analytics.RiskScore(nil, obs, anchor))
}

func TestRiskScore_VitalsBoundaries(t *testing.T) {
	// Exactly at the safe boundaries: no points
	obs := &domain.ShiftObservation{
		Timestamp:   anchor,
		Temperature: floatPtr(37.9),
		BPSystolic:  intPtr(100),
		HeartRate:   intPtr(100),
		OxygenSat:   intPtr(90),
	}
	assert.Equal(t, 0, analytics.RiskScore(nil, obs, anchor))
}

func TestRiskScore_HighSystolicAlsoScores(t *testing.T) {
	obs := &domain.ShiftObservation{
		Timestamp:  anchor,
		BPSystolic: intPtr(170),
	}
	assert.Equal(t, 2, analytics.RiskScore(nil, obs, anchor))
}

func TestRiskScore_RecentFallWithinThreeDays(t *testing.T) {
	obs := &domain.ShiftObservation{
		Timestamp:     anchor.Add(-2 * 24 * time.Hour),
		FallsHasEvent: boolPtr(true),
	}
	assert.Equal(t, 3, analytics.RiskScore(nil, obs, anchor))
}

func TestRiskScore_StaleFallScoresNothing(t *testing.T) {
	obs := &domain.ShiftObservation{
		Timestamp:     anchor.Add(-4 * 24 * time.Hour),
		FallsHasEvent: boolPtr(true),
	}
	assert.Equal(t, 0, analytics.RiskScore(nil, obs, anchor))
}

func TestRiskScore_MaximumAccumulation(t *testing.T) {
	// Every contribution at once: 4+3+2+1+2+3 = 15
	obs := &domain.ShiftObservation{
		Timestamp:     anchor,
		Temperature:   floatPtr(39.0),
		BPSystolic:    intPtr(80),
		HeartRate:     intPtr(120),
		OxygenSat:     intPtr(85),
		FallsHasEvent: boolPtr(true),
	}
	score := analytics.RiskScore(floatPtr(0.95), obs, anchor)
	assert.Equal(t, 15, score)
	assert.Equal(t, domain.RiskHigh, analytics.RiskLevelForScore(score))
}

func TestRiskLevelForScore(t *testing.T) {
	assert.Equal(t, domain.RiskLow, analytics.RiskLevelForScore(0))
	assert.Equal(t, domain.RiskLow, analytics.RiskLevelForScore(2))
	assert.Equal(t, domain.RiskMedium, analytics.RiskLevelForScore(3))
	assert.Equal(t, domain.RiskMedium, analytics.RiskLevelForScore(5))
	assert.Equal(t, domain.RiskHigh, analytics.RiskLevelForScore(6))
	assert.Equal(t, domain.RiskHigh, analytics.RiskLevelForScore(15))
}

func TestClassifyRisk_MediumProbabilityNoHistoryIsLow(t *testing.T) {
	// 0.45 scores +2, under the Medium threshold with nothing else
	assert.Equal(t, domain.RiskLow, analytics.ClassifyRisk(floatPtr(0.45), nil, anchor))
}

func TestNeedsAttention(t *testing.T) {
	tests := []struct {
		name     string
		risk     domain.RiskLevel
		prob     float64
		concern  domain.ConcernLevel
		expected bool
	}{
		{"high risk", domain.RiskHigh, 0.0, domain.ConcernLow, true},
		{"medium risk", domain.RiskMedium, 0.0, domain.ConcernLow, true},
		{"low risk low prob low concern", domain.RiskLow, 0.1, domain.ConcernLow, false},
		{"probability at gate", domain.RiskLow, 0.50, domain.ConcernLow, true},
		{"probability just under gate", domain.RiskLow, 0.49, domain.ConcernLow, false},
		{"high concern", domain.RiskLow, 0.0, domain.ConcernHigh, true},
		{"critical concern", domain.RiskLow, 0.0, domain.ConcernCritical, true},
		{"moderate concern", domain.RiskLow, 0.0, domain.ConcernModerate, false},
		{"error concern does not trigger", domain.RiskLow, 0.0, domain.ConcernError, false},
		{"no_data concern does not trigger", domain.RiskLow, 0.0, domain.ConcernNoData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, analytics.NeedsAttention(tt.risk, tt.prob, tt.concern))
		})
	}
}

func TestZeroObservationResident(t *testing.T) {
	// A resident with no history and the neutral 0.0 fallback
	// probability classifies Low and does not need attention.
	prob := 0.0
	risk := analytics.ClassifyRisk(&prob, nil, anchor)
	assert.Equal(t, domain.RiskLow, risk)
	assert.False(t, analytics.NeedsAttention(risk, prob, domain.ConcernNoData))
}
