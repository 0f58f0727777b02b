package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/carebridge/wellness-service/internal/core/analytics"
	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// summaryConcurrency bounds the per-resident fan-out during dashboard
// recomputation. Each resident costs up to three model calls plus a
// history read, so unbounded fan-out would hammer the model service.
const summaryConcurrency = 8

// WellnessService implements the read-side aggregation behind the
// dashboard: resident summaries, enriched observation lists, and shift
// report history.
type WellnessService struct {
	residentRepo    ports.ResidentRepository
	observationRepo ports.ObservationRepository
	reportRepo      ports.ReportRepository
	predictions     ports.PredictionService
	now             ports.Clock
}

// NewWellnessService creates a new wellness service
func NewWellnessService(
	residentRepo ports.ResidentRepository,
	observationRepo ports.ObservationRepository,
	reportRepo ports.ReportRepository,
	predictions ports.PredictionService,
	now ports.Clock,
) *WellnessService {
	if now == nil {
		now = time.Now
	}
	return &WellnessService{
		residentRepo:    residentRepo,
		observationRepo: observationRepo,
		reportRepo:      reportRepo,
		predictions:     predictions,
		now:             now,
	}
}

// ResidentSummaries recomputes the dashboard rows for all residents.
// Rows are computed concurrently with a bounded fan-out and returned in
// the residents' listing order. Prediction failures degrade to neutral
// values inside the prediction service, so one resident's model outage
// never drops another resident's row.
func (s *WellnessService) ResidentSummaries(ctx context.Context) ([]*domain.ResidentSummary, error) {
	residents, err := s.residentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}

	summaries := make([]*domain.ResidentSummary, len(residents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)
	for i, resident := range residents {
		i, resident := i, resident
		g.Go(func() error {
			summaries[i] = s.buildSummary(gctx, resident)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// buildSummary computes one dashboard row. Repository failures on the
// history read degrade to an empty history; the row is always produced.
func (s *WellnessService) buildSummary(ctx context.Context, resident *domain.Resident) *domain.ResidentSummary {
	now := s.now()

	history, err := s.observationRepo.ListByResident(ctx, resident.ID)
	if err != nil {
		log.Printf("wellness: failed to load history for resident %s: %v", resident.ID, err)
		history = nil
	}
	latest := latestObservation(history)

	fallProb := s.predictions.FallRiskProbability(ctx, resident.ID)
	moodSummary := s.predictions.MoodSummary(ctx, resident.ID)
	adherence := s.predictions.MedicationAdherence(ctx, resident.ID)

	risk := analytics.ClassifyRisk(&fallProb, latest, now)
	attention := domain.AttentionNo
	if analytics.NeedsAttention(risk, fallProb, adherence.ConcernLevel) {
		attention = domain.AttentionYes
	}

	summary := &domain.ResidentSummary{
		ResidentID:   resident.ID,
		ResidentName: resident.Name,
		RoomNumber:   resident.RoomNumber,

		AttentionFlag: attention,
		RiskLevel:     risk,
		MoodChanges:   recentMoodChange(history, now),

		FallRiskProbability: fallProb,
		AIMoodPrediction:    moodSummary,

		MedicationAdherenceSummary: adherence.Summary,
		MedicationAdherenceRate:    adherence.Rate,
		MedicationConcernLevel:     adherence.ConcernLevel,
	}

	s.logSummary(summary)
	return summary
}

// ResidentObservations returns the resident's observations over the
// trailing days window (all history when days <= 0), enriched with
// rolling statistics anchored at each observation's own timestamp. The
// most recent entry additionally receives the live fall probability and
// the live missed-dose ratio. Fields already stamped at write time are
// never overwritten.
func (s *WellnessService) ResidentObservations(ctx context.Context, residentID uuid.UUID, days int) ([]*domain.ShiftObservation, error) {
	exists, err := s.residentRepo.Exists(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrResidentNotFound
	}

	history, err := s.observationRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load observation history: %w", err)
	}

	observations := history
	if days > 0 {
		window := time.Duration(days) * 24 * time.Hour
		observations = analytics.FilterWindow(history, s.now(), window)
	}
	if len(observations) == 0 {
		return observations, nil
	}

	latest := latestObservation(observations)
	for _, obs := range observations {
		s.enrichObservation(ctx, obs, history, obs == latest, residentID)
	}
	return observations, nil
}

// enrichObservation fills the rolling fields missing from an
// observation, anchored at its own timestamp. Only the newest entry
// receives live predictions; there is no archive of historical model
// output, so older entries keep a nil fall probability when it was not
// stamped at write time.
func (s *WellnessService) enrichObservation(ctx context.Context, obs *domain.ShiftObservation, history []*domain.ShiftObservation, isLatest bool, residentID uuid.UUID) {
	anchor := obs.Timestamp

	if obs.HR7dMean == nil {
		v := analytics.HeartRate7dMean(history, anchor)
		obs.HR7dMean = &v
	}
	if obs.SBP7dMean == nil {
		v := analytics.Systolic7dMean(history, anchor)
		obs.SBP7dMean = &v
	}
	if obs.HR7dDelta == nil {
		v := analytics.HeartRate7dDelta(history, anchor)
		obs.HR7dDelta = &v
	}
	if obs.SBP7dDelta == nil {
		v := analytics.Systolic7dDelta(history, anchor)
		obs.SBP7dDelta = &v
	}
	if obs.PriorFall90d == nil {
		v := analytics.FallCount90d(history, anchor)
		obs.PriorFall90d = &v
	}

	if isLatest {
		if obs.FallNext7d == nil {
			v := s.predictions.FallRiskProbability(ctx, residentID)
			obs.FallNext7d = &v
		}
		if obs.MissedDoseRatio7d == nil {
			adherence := s.predictions.MedicationAdherence(ctx, residentID)
			v := missedRatioFromAdherence(adherence.Rate)
			obs.MissedDoseRatio7d = &v
		}
		return
	}

	if obs.MissedDoseRatio7d == nil {
		v := analytics.MissedDoseRatio7d(history, anchor)
		obs.MissedDoseRatio7d = &v
	}
}

// ReportHistory returns the resident's shift reports, newest first
func (s *WellnessService) ReportHistory(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error) {
	exists, err := s.residentRepo.Exists(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrResidentNotFound
	}
	return s.reportRepo.ListByResident(ctx, residentID)
}

// latestObservation finds the most recent observation by timestamp.
// Repository order is descending already, but the scan keeps the choice
// independent of storage ordering.
func latestObservation(obs []*domain.ShiftObservation) *domain.ShiftObservation {
	var latest *domain.ShiftObservation
	for _, o := range obs {
		if latest == nil || o.Timestamp.After(latest.Timestamp) {
			latest = o
		}
	}
	return latest
}

// recentMoodChange reports whether any observation in the trailing
// 7-day window carries a mood change.
func recentMoodChange(history []*domain.ShiftObservation, now time.Time) bool {
	for _, o := range analytics.FilterWindow(history, now, analytics.ShortWindow) {
		if o.HasMoodChange() {
			return true
		}
	}
	return false
}

// missedRatioFromAdherence converts a 0-100 adherence rate into the
// 0.0-1.0 missed-dose ratio shown on observation lists.
func missedRatioFromAdherence(rate float64) float64 {
	ratio := 1.0 - rate/100.0
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// logSummary logs structured JSON for a computed dashboard row
func (s *WellnessService) logSummary(summary *domain.ResidentSummary) {
	logEntry := map[string]interface{}{
		"event":                 "summary_computed",
		"resident_id":           summary.ResidentID.String(),
		"risk_level":            string(summary.RiskLevel),
		"attention_flag":        summary.AttentionFlag,
		"fall_risk_probability": summary.FallRiskProbability,
		"medication_concern":    string(summary.MedicationConcernLevel),
	}
	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal summary log entry: %v", err)
		return
	}
	log.Printf("%s", string(jsonBytes))
}

// Ensure WellnessService implements the interface
var _ ports.WellnessService = (*WellnessService)(nil)
