package services

import (
	"context"
	"log"
	"time"

	"github.com/carebridge/wellness-service/internal/core/analytics"
	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

// Neutral fallback values used when the model service cannot answer.
// This is the single place the fallback mapping is defined; call sites
// never invent their own defaults.
const (
	fallbackMoodNoData      = "No recent mood data available."
	fallbackMoodEmpty       = "No mood changes detected"
	fallbackMoodUnavailable = "Mood analysis unavailable"

	fallbackAdherenceNoData      = "No medication data available."
	fallbackAdherenceEmptyBody   = "Unable to analyze medication adherence."
	fallbackAdherenceUnavailable = "Medication adherence analysis unavailable."
)

// PredictionService builds per-day feature windows from a resident's
// recent history and queries the external model service through the
// gateway. Every failure path collapses to a documented neutral value
// so that summary generation keeps going.
type PredictionService struct {
	observationRepo ports.ObservationRepository
	residentRepo    ports.ResidentRepository
	gateway         ports.PredictionGateway
	now             ports.Clock
}

// NewPredictionService creates a prediction service. now may be nil,
// in which case time.Now is used.
func NewPredictionService(
	observationRepo ports.ObservationRepository,
	residentRepo ports.ResidentRepository,
	gateway ports.PredictionGateway,
	now ports.Clock,
) *PredictionService {
	if now == nil {
		now = time.Now
	}
	return &PredictionService{
		observationRepo: observationRepo,
		residentRepo:    residentRepo,
		gateway:         gateway,
		now:             now,
	}
}

// recentObservations returns the resident's observations inside the
// trailing 7-day feature window. Repository failures are treated like
// an empty window; predictions degrade, reads do not abort.
func (s *PredictionService) recentObservations(ctx context.Context, residentID uuid.UUID) []*domain.ShiftObservation {
	history, err := s.observationRepo.ListByResident(ctx, residentID)
	if err != nil {
		log.Printf("prediction: failed to load history for resident %s: %v", residentID, err)
		return nil
	}
	return analytics.FilterWindow(history, s.now(), analytics.ShortWindow)
}

// FallRiskProbability returns the model's next-7-day fall probability
// for the resident, or 0.0 when there is no recent data or the gateway
// call fails.
func (s *PredictionService) FallRiskProbability(ctx context.Context, residentID uuid.UUID) float64 {
	window := s.recentObservations(ctx, residentID)
	if len(window) == 0 {
		return 0.0
	}

	ageGroup := s.residentAgeGroup(ctx, residentID)
	features := make([]domain.FallRiskFeatures, 0, len(window))
	for _, o := range window {
		features = append(features, domain.FallRiskFeatureRow(o, ageGroup))
	}

	pred, err := s.gateway.PredictFallRisk(ctx, features)
	if err != nil {
		log.Printf("prediction: fall model call failed for resident %s: %v", residentID, err)
		return 0.0
	}
	return pred.Probability
}

// MoodSummary returns the model's mood-change text for the resident, or
// a documented placeholder when there is no data or the call fails.
func (s *PredictionService) MoodSummary(ctx context.Context, residentID uuid.UUID) string {
	window := s.recentObservations(ctx, residentID)
	if len(window) == 0 {
		return fallbackMoodNoData
	}

	features := make([]domain.MoodFeatures, 0, len(window))
	for _, o := range window {
		features = append(features, domain.MoodFeatureRow(o))
	}

	pred, err := s.gateway.PredictMood(ctx, features)
	if err != nil {
		log.Printf("prediction: mood model call failed for resident %s: %v", residentID, err)
		return fallbackMoodUnavailable
	}
	if pred.Summary == "" {
		return fallbackMoodEmpty
	}
	return pred.Summary
}

// MedicationAdherence returns the adherence report for the resident.
// Empty window => 100% adherence with concern no_data; gateway failure
// => concern error; empty response body => concern unknown.
func (s *PredictionService) MedicationAdherence(ctx context.Context, residentID uuid.UUID) ports.AdherenceReport {
	window := s.recentObservations(ctx, residentID)
	if len(window) == 0 {
		return ports.AdherenceReport{
			Summary:      fallbackAdherenceNoData,
			Rate:         100.0,
			ConcernLevel: domain.ConcernNoData,
		}
	}

	features := make([]domain.MedicationFeatures, 0, len(window))
	for _, o := range window {
		features = append(features, domain.MedicationFeatureRow(o))
	}

	report, err := s.gateway.AnalyzeMedicationAdherence(ctx, features)
	if err != nil {
		log.Printf("prediction: adherence model call failed for resident %s: %v", residentID, err)
		return ports.AdherenceReport{
			Summary:      fallbackAdherenceUnavailable,
			Rate:         0.0,
			ConcernLevel: domain.ConcernError,
		}
	}
	if report == nil {
		return ports.AdherenceReport{
			Summary:      fallbackAdherenceEmptyBody,
			Rate:         0.0,
			ConcernLevel: domain.ConcernUnknown,
		}
	}
	return *report
}

func (s *PredictionService) residentAgeGroup(ctx context.Context, residentID uuid.UUID) int {
	resident, err := s.residentRepo.GetByID(ctx, residentID)
	if err != nil {
		return domain.AgeGroup(nil)
	}
	resident.RecalculateAge(s.now())
	return domain.AgeGroup(resident.Age)
}

// Ensure PredictionService implements the interface
var _ ports.PredictionService = (*PredictionService)(nil)
