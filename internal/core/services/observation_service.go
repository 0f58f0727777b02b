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
)

// CreateObservationRequest is imported from ports package
type CreateObservationRequest = ports.CreateObservationRequest

// ObservationService implements the write-time derivation pipeline for
// shift observations: enum validation, flag stamping, rolling-statistic
// computation, persistence, and attention alerting.
type ObservationService struct {
	observationRepo ports.ObservationRepository
	residentRepo    ports.ResidentRepository
	workerRepo      ports.WorkerRepository
	predictions     ports.PredictionService
	alertPublisher  ports.AlertPublisher
	now             ports.Clock
}

// NewObservationService creates a new observation service
func NewObservationService(
	observationRepo ports.ObservationRepository,
	residentRepo ports.ResidentRepository,
	workerRepo ports.WorkerRepository,
	predictions ports.PredictionService,
	alertPublisher ports.AlertPublisher,
	now ports.Clock,
) *ObservationService {
	if now == nil {
		now = time.Now
	}
	return &ObservationService{
		observationRepo: observationRepo,
		residentRepo:    residentRepo,
		workerRepo:      workerRepo,
		predictions:     predictions,
		alertPublisher:  alertPublisher,
		now:             now,
	}
}

// Create records a new shift observation. The observation is stamped
// with write-time derived flags and rolling statistics anchored at the
// recording time, then persisted. Observations carrying critical
// clinical flags publish an attention alert asynchronously.
func (s *ObservationService) Create(ctx context.Context, req CreateObservationRequest) (*domain.ShiftObservation, error) {
	if err := s.validateEnums(req); err != nil {
		return nil, err
	}

	exists, err := s.residentRepo.Exists(ctx, req.ResidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrResidentNotFound
	}

	workerExists, err := s.workerRepo.Exists(ctx, req.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check worker existence: %w", err)
	}
	if !workerExists {
		return nil, domain.ErrWorkerNotFound
	}

	now := s.now()
	obs := buildObservation(req)
	obs.ID = uuid.New()
	obs.Timestamp = now
	obs.CreatedAt = now
	obs.DeriveWriteTimeFlags()

	// History fetched before the insert: the new observation is not
	// part of its own prior windows.
	history, err := s.observationRepo.ListByResident(ctx, req.ResidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load observation history: %w", err)
	}
	s.stampRollingStats(ctx, obs, history, now)

	if err := s.observationRepo.Create(ctx, obs); err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	s.logObservation(obs, "created")

	if obs.HasCriticalFlags() {
		go func() {
			// Background context: the alert must not die with the request
			bgCtx := context.Background()
			if err := s.alertPublisher.PublishAttentionAlert(bgCtx, obs.ResidentID, obs); err != nil {
				log.Printf("Failed to publish attention alert for observation %s: %v", obs.ID, err)
			} else {
				s.logObservation(obs, "alert_published")
			}
		}()
	}

	return obs, nil
}

// stampRollingStats fills the rolling fields anchored at the recording
// time. The fall probability comes live from the model; everything else
// is computed locally from history.
func (s *ObservationService) stampRollingStats(ctx context.Context, obs *domain.ShiftObservation, history []*domain.ShiftObservation, anchor time.Time) {
	hrMean := analytics.HeartRate7dMean(history, anchor)
	sbpMean := analytics.Systolic7dMean(history, anchor)
	hrDelta := analytics.HeartRate7dDelta(history, anchor)
	sbpDelta := analytics.Systolic7dDelta(history, anchor)
	priorFalls := analytics.FallCount90d(history, anchor)
	missedRatio := analytics.MissedDoseRatio7d(history, anchor)
	fallNext := s.predictions.FallRiskProbability(ctx, obs.ResidentID)

	obs.HR7dMean = &hrMean
	obs.SBP7dMean = &sbpMean
	obs.HR7dDelta = &hrDelta
	obs.SBP7dDelta = &sbpDelta
	obs.PriorFall90d = &priorFalls
	obs.MissedDoseRatio7d = &missedRatio
	obs.FallNext7d = &fallNext
}

// Get retrieves a single observation
func (s *ObservationService) Get(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error) {
	return s.observationRepo.GetByID(ctx, obsID)
}

// List retrieves all observations
func (s *ObservationService) List(ctx context.Context) ([]*domain.ShiftObservation, error) {
	return s.observationRepo.List(ctx)
}

// ListByResident retrieves a resident's observations, newest first
func (s *ObservationService) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error) {
	exists, err := s.residentRepo.Exists(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check resident existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrResidentNotFound
	}
	return s.observationRepo.ListByResident(ctx, residentID)
}

// ListByWorker retrieves a worker's recorded observations, newest first
func (s *ObservationService) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error) {
	return s.observationRepo.ListByWorker(ctx, workerID)
}

// Update applies an edit to an existing observation. The time-of-day
// bucket, mood one-hot flags, vitals flags, and cognitive-impairment
// flag are re-derived from the edited fields; rolling statistics keep
// their original anchor and are left untouched.
func (s *ObservationService) Update(ctx context.Context, obsID uuid.UUID, req CreateObservationRequest) (*domain.ShiftObservation, error) {
	if err := s.validateEnums(req); err != nil {
		return nil, err
	}

	existing, err := s.observationRepo.GetByID(ctx, obsID)
	if err != nil {
		return nil, err
	}

	applyObservationUpdate(existing, req)
	existing.DeriveWriteTimeFlags()

	if err := s.observationRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update observation: %w", err)
	}

	s.logObservation(existing, "updated")
	return existing, nil
}

// Delete removes an observation
func (s *ObservationService) Delete(ctx context.Context, obsID uuid.UUID) error {
	if err := s.observationRepo.Delete(ctx, obsID); err != nil {
		return err
	}
	return nil
}

// validateEnums rejects unrecognized enum values before they reach
// storage. All enum fields are optional.
func (s *ObservationService) validateEnums(req CreateObservationRequest) error {
	if req.FallsEventType != nil && !domain.IsValidFallEventType(domain.FallEventType(*req.FallsEventType)) {
		return fmt.Errorf("invalid fall event type: %s", *req.FallsEventType)
	}
	if req.MoodBaseline != nil && !domain.IsValidMoodBaseline(domain.MoodBaseline(*req.MoodBaseline)) {
		return fmt.Errorf("invalid mood baseline: %s", *req.MoodBaseline)
	}
	if req.MedicationAction != nil && !domain.IsValidMedicationAction(domain.MedicationAction(*req.MedicationAction)) {
		return fmt.Errorf("invalid medication action: %s", *req.MedicationAction)
	}
	if req.MoodSeverity != nil && (*req.MoodSeverity < 1 || *req.MoodSeverity > 3) {
		return fmt.Errorf("mood severity must be between 1 and 3")
	}
	if req.PainScore != nil && (*req.PainScore < 0 || *req.PainScore > 10) {
		return fmt.Errorf("pain score must be between 0 and 10")
	}
	if req.MMSEScore != nil && (*req.MMSEScore < 0 || *req.MMSEScore > 30) {
		return fmt.Errorf("mmse score must be between 0 and 30")
	}
	return nil
}

// buildObservation maps a create request onto a fresh entity
func buildObservation(req CreateObservationRequest) *domain.ShiftObservation {
	obs := &domain.ShiftObservation{
		ResidentID: req.ResidentID,
		WorkerID:   req.WorkerID,
	}
	applyObservationUpdate(obs, req)
	return obs
}

// applyObservationUpdate copies the editable fields of a request onto
// an entity. Derived fields are not touched here; DeriveWriteTimeFlags
// recomputes them afterwards.
func applyObservationUpdate(obs *domain.ShiftObservation, req CreateObservationRequest) {
	obs.FallsHasEvent = req.FallsHasEvent
	obs.FallsEventType = (*domain.FallEventType)(req.FallsEventType)
	obs.FallsLocation = req.FallsLocation
	obs.FallsContributingFactors = req.FallsContributingFactors
	obs.FallsAssistiveDeviceUsed = req.FallsAssistiveDeviceUsed
	obs.FallsInjury = req.FallsInjury

	obs.MoodHasChange = req.MoodHasChange
	obs.MoodBaseline = (*domain.MoodBaseline)(req.MoodBaseline)
	obs.MoodTriggers = req.MoodTriggers
	obs.MoodOtherTrigger = req.MoodOtherTrigger
	obs.MoodSeverity = req.MoodSeverity
	obs.MoodNotes = req.MoodNotes

	obs.MedicationHasIssue = req.MedicationHasIssue
	obs.MedicationName = req.MedicationName
	obs.MedicationAction = (*domain.MedicationAction)(req.MedicationAction)
	obs.MedicationReason = req.MedicationReason
	obs.MedicationStaffAction = (*domain.MedicationStaffAction)(req.MedicationStaffAction)
	obs.PolypharmacyCount = req.PolypharmacyCount
	obs.HighRiskMedFlag = req.HighRiskMedFlag

	obs.Temperature = req.Temperature
	obs.HeartRate = req.HeartRate
	obs.RespiratoryRate = req.RespiratoryRate
	obs.BPSystolic = req.BPSystolic
	obs.BPDiastolic = req.BPDiastolic
	obs.OxygenSat = req.OxygenSat
	obs.PainScore = req.PainScore

	obs.MMSEScore = req.MMSEScore
	obs.CognitiveImpairmentFlag = req.CognitiveImpairmentFlag

	if req.MobilityLevel != nil {
		obs.MobilityLevel = domain.MobilityLevelFromString(*req.MobilityLevel)
	} else {
		obs.MobilityLevel = nil
	}
	obs.UseOfAid = req.UseOfAid
	obs.DizzinessFlag = req.DizzinessFlag
	obs.UnsteadyGaitFlag = req.UnsteadyGaitFlag
}

// logObservation logs structured JSON for observation events
func (s *ObservationService) logObservation(obs *domain.ShiftObservation, event string) {
	logEntry := map[string]interface{}{
		"event":          event,
		"observation_id": obs.ID.String(),
		"resident_id":    obs.ResidentID.String(),
		"worker_id":      obs.WorkerID.String(),
		"time_of_day":    string(obs.TimeOfDay),
		"timestamp":      obs.Timestamp.Format(time.RFC3339),
	}
	if obs.HasFallEvent() {
		logEntry["fall_event"] = true
		if obs.FallsEventType != nil {
			logEntry["fall_event_type"] = string(*obs.FallsEventType)
		}
	}
	if obs.HypotensionFlag || obs.TachycardiaFlag || obs.HypoxiaFlag || obs.FeverFlag {
		logEntry["clinical_flags"] = map[string]bool{
			"hypotension": obs.HypotensionFlag,
			"tachycardia": obs.TachycardiaFlag,
			"hypoxia":     obs.HypoxiaFlag,
			"fever":       obs.FeverFlag,
		}
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal observation log entry: %v", err)
		return
	}
	log.Printf("%s", string(jsonBytes))
}

// Ensure ObservationService implements the interface
var _ ports.ObservationService = (*ObservationService)(nil)
