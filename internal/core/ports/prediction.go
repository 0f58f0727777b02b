package ports

import (
	"context"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/google/uuid"
)

// FallPrediction is the fall model's response
type FallPrediction struct {
	Probability float64 `json:"fall_risk_probability"` // 0.0-1.0
}

// MoodPrediction is the mood model's response
type MoodPrediction struct {
	Summary string `json:"mood_changes"`
}

// AdherenceReport is the medication-adherence model's response
type AdherenceReport struct {
	Summary      string              `json:"adherence_summary"`
	Rate         float64             `json:"adherence_rate"` // 0-100
	ConcernLevel domain.ConcernLevel `json:"concern_level"`
}

// PredictionGateway is the transport boundary to the external model
// service: one call per prediction type, request body {features:[...]}.
// Implementations return an error on unreachable service, timeout, or a
// malformed response; they never invent fallback values. The neutral
// fallback mapping lives in one place, the PredictionService.
type PredictionGateway interface {
	PredictFallRisk(ctx context.Context, features []domain.FallRiskFeatures) (*FallPrediction, error)
	PredictMood(ctx context.Context, features []domain.MoodFeatures) (*MoodPrediction, error)
	AnalyzeMedicationAdherence(ctx context.Context, features []domain.MedicationFeatures) (*AdherenceReport, error)
}

// PredictionService builds feature windows from a resident's history,
// calls the gateway, and maps every failure to a documented neutral
// value. Its methods never return an error: a prediction failure for
// one resident must never abort summary generation for others.
type PredictionService interface {
	// FallRiskProbability returns the model's next-7-day fall
	// probability, or 0.0 on missing data or gateway failure
	FallRiskProbability(ctx context.Context, residentID uuid.UUID) float64

	// MoodSummary returns the model's mood-change text, or a
	// documented unavailable/no-data message
	MoodSummary(ctx context.Context, residentID uuid.UUID) string

	// MedicationAdherence returns the adherence report, with concern
	// level no_data on an empty window, error on gateway failure, and
	// unknown on an empty response body
	MedicationAdherence(ctx context.Context, residentID uuid.UUID) AdherenceReport
}
