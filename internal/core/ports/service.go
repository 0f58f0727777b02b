package ports

import (
	"context"
	"time"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/google/uuid"
)

// ResidentService defines the business logic interface for resident
// operations
type ResidentService interface {
	// Create creates a resident; a missing baseline MMSE defaults to 25
	Create(ctx context.Context, resident *domain.Resident) (*domain.Resident, error)

	// Get returns the resident with Age recomputed from DateOfBirth
	Get(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error)

	List(ctx context.Context) ([]*domain.Resident, error)

	Update(ctx context.Context, residentID uuid.UUID, updated *domain.Resident) (*domain.Resident, error)

	// Delete cascades: observations and shift reports go first
	Delete(ctx context.Context, residentID uuid.UUID) error
}

// CreateObservationRequest is the input for recording a shift
// observation. Mobility level is accepted as the descriptive string
// the entry form uses.
type CreateObservationRequest struct {
	ResidentID uuid.UUID `json:"resident_id"`
	WorkerID   uuid.UUID `json:"shift_worker_id"`

	FallsHasEvent            *bool   `json:"falls_has_event,omitempty"`
	FallsEventType           *string `json:"falls_event_type,omitempty"`
	FallsLocation            *string `json:"falls_location,omitempty"`
	FallsContributingFactors *string `json:"falls_contributing_factors,omitempty"`
	FallsAssistiveDeviceUsed *bool   `json:"falls_assistive_device_used,omitempty"`
	FallsInjury              *string `json:"falls_injury,omitempty"`

	MoodHasChange    *bool   `json:"mood_has_change,omitempty"`
	MoodBaseline     *string `json:"mood_baseline,omitempty"`
	MoodTriggers     *string `json:"mood_triggers,omitempty"`
	MoodOtherTrigger *string `json:"mood_other_trigger,omitempty"`
	MoodSeverity     *int    `json:"mood_severity,omitempty"`
	MoodNotes        *string `json:"mood_notes,omitempty"`

	MedicationHasIssue    *bool   `json:"medication_has_issue,omitempty"`
	MedicationName        *string `json:"medication_name,omitempty"`
	MedicationAction      *string `json:"medication_action,omitempty"`
	MedicationReason      *string `json:"medication_reason,omitempty"`
	MedicationStaffAction *string `json:"medication_staff_action,omitempty"`
	PolypharmacyCount     *int    `json:"polypharmacy_count,omitempty"`
	HighRiskMedFlag       *bool   `json:"high_risk_med_flag,omitempty"`

	Temperature     *float64 `json:"temperature,omitempty"`
	HeartRate       *int     `json:"heart_rate,omitempty"`
	RespiratoryRate *int     `json:"respiratory_rate,omitempty"`
	BPSystolic      *int     `json:"bp_systolic,omitempty"`
	BPDiastolic     *int     `json:"bp_diastolic,omitempty"`
	OxygenSat       *int     `json:"oxygen_sat,omitempty"`
	PainScore       *int     `json:"pain_score,omitempty"`

	MMSEScore               *int  `json:"mmse_score,omitempty"`
	CognitiveImpairmentFlag *bool `json:"cognitive_impairment_flag,omitempty"`

	MobilityLevel    *string `json:"mobility_level,omitempty"`
	UseOfAid         *bool   `json:"use_of_aid,omitempty"`
	DizzinessFlag    *bool   `json:"dizziness_flag,omitempty"`
	UnsteadyGaitFlag *bool   `json:"unsteady_gait_flag,omitempty"`
}

// ObservationService defines the business logic interface for shift
// observations
type ObservationService interface {
	// Create stamps derived flags and rolling statistics, persists the
	// observation, and publishes an attention alert when the derived
	// flags are critical
	Create(ctx context.Context, req CreateObservationRequest) (*domain.ShiftObservation, error)

	Get(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error)

	List(ctx context.Context) ([]*domain.ShiftObservation, error)

	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error)

	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error)

	// Update applies an edit and re-derives time-of-day, mood one-hot,
	// vitals, and cognitive flags from the edited fields
	Update(ctx context.Context, obsID uuid.UUID, req CreateObservationRequest) (*domain.ShiftObservation, error)

	Delete(ctx context.Context, obsID uuid.UUID) error
}

// WorkerService defines the business logic interface for shift workers
type WorkerService interface {
	Get(ctx context.Context, workerID uuid.UUID) (*domain.ShiftWorker, error)

	Update(ctx context.Context, workerID uuid.UUID, updated *domain.ShiftWorker) (*domain.ShiftWorker, error)

	// Login performs the demo credential check; unknown emails are
	// auto-provisioned as new workers
	Login(ctx context.Context, email, password string) (*domain.ShiftWorker, error)

	Register(ctx context.Context, worker *domain.ShiftWorker) (*domain.ShiftWorker, error)

	// SubmitReport files an unstructured shift report for a resident
	SubmitReport(ctx context.Context, workerID, residentID uuid.UUID, reportText string) (*domain.ShiftReport, error)
}

// WellnessService defines the read-side aggregation interface behind
// the dashboard
type WellnessService interface {
	// ResidentSummaries recomputes the dashboard rows for all
	// residents. One resident's prediction failure never aborts the
	// batch.
	ResidentSummaries(ctx context.Context) ([]*domain.ResidentSummary, error)

	// ResidentObservations returns the resident's observations over
	// the trailing days window (all history when days <= 0), enriched
	// with rolling statistics and, for the most recent entry only,
	// live model predictions
	ResidentObservations(ctx context.Context, residentID uuid.UUID, days int) ([]*domain.ShiftObservation, error)

	// ReportHistory returns the resident's shift reports, newest first
	ReportHistory(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftReport, error)
}

// Clock abstracts "now" so window math is testable. Services default to
// time.Now when nil.
type Clock func() time.Time
