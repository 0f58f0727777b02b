package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TimeOfDay buckets an observation's local clock hour into the shift
// context it was recorded in
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "Morning"   // [0,12)
	TimeOfDayAfternoon TimeOfDay = "Afternoon" // [12,17)
	TimeOfDayEvening   TimeOfDay = "Evening"   // [17,21)
	TimeOfDayNight     TimeOfDay = "Night"     // [21,24)
)

// FallEventType classifies a falls/stability event
type FallEventType string

const (
	FallNoFallInstability FallEventType = "No fall (instability)"
	FallAssisted          FallEventType = "Assisted fall"
	FallUnwitnessed       FallEventType = "Unwitnessed fall"
	FallWitnessed         FallEventType = "Witnessed fall"
)

// ValidFallEventTypes returns all valid fall event types
func ValidFallEventTypes() []FallEventType {
	return []FallEventType{
		FallNoFallInstability,
		FallAssisted,
		FallUnwitnessed,
		FallWitnessed,
	}
}

// IsValidFallEventType checks if a fall event type is valid
func IsValidFallEventType(t FallEventType) bool {
	for _, v := range ValidFallEventTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// MoodBaseline is the baseline-comparison mood category recorded by staff
type MoodBaseline string

const (
	MoodHappier   MoodBaseline = "Happier than usual"
	MoodSad       MoodBaseline = "Sad/tearful"
	MoodAgitated  MoodBaseline = "Agitated/irritable"
	MoodWithdrawn MoodBaseline = "Withdrawn/quiet"
	MoodConfused  MoodBaseline = "Confused/Wandering"
)

// ValidMoodBaselines returns all valid mood baseline categories
func ValidMoodBaselines() []MoodBaseline {
	return []MoodBaseline{
		MoodHappier,
		MoodSad,
		MoodAgitated,
		MoodWithdrawn,
		MoodConfused,
	}
}

// IsValidMoodBaseline checks if a mood baseline category is valid
func IsValidMoodBaseline(b MoodBaseline) bool {
	for _, v := range ValidMoodBaselines() {
		if v == b {
			return true
		}
	}
	return false
}

// MedicationAction describes what happened with a medication dose
type MedicationAction string

const (
	MedicationTaken          MedicationAction = "Taken"
	MedicationRefused        MedicationAction = "Refused"
	MedicationPartiallyTaken MedicationAction = "Partially taken"
	MedicationDelayed        MedicationAction = "Delayed"
)

// IsValidMedicationAction checks if a medication action is valid
func IsValidMedicationAction(a MedicationAction) bool {
	switch a {
	case MedicationTaken, MedicationRefused, MedicationPartiallyTaken, MedicationDelayed:
		return true
	}
	return false
}

// MedicationStaffAction describes how staff responded to a medication issue
type MedicationStaffAction string

const (
	StaffActionReoffered      MedicationStaffAction = "Reoffered"
	StaffActionReported       MedicationStaffAction = "Reported"
	StaffActionDocumentedOnly MedicationStaffAction = "Documented only"
)

// Mobility levels, ordinal: 0=Independent ... 4=Bedbound
const (
	MobilityIndependent = 0
	MobilitySupervision = 1
	MobilityPartial     = 2
	MobilityFull        = 3
	MobilityBedbound    = 4
)

// MobilityLevelFromString converts a descriptive mobility level to its
// ordinal value. Numeric strings are accepted as-is; anything else
// returns nil.
func MobilityLevelFromString(s string) *int {
	if s == "" {
		return nil
	}
	var level int
	switch s {
	case "Independent":
		level = MobilityIndependent
	case "Supervision required":
		level = MobilitySupervision
	case "Partial assistance":
		level = MobilityPartial
	case "Full assistance":
		level = MobilityFull
	case "Bedbound":
		level = MobilityBedbound
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		level = n
	}
	return &level
}

// MobilityLevelString converts an ordinal mobility level to the
// descriptive string the fall-risk model expects. A missing level
// defaults to "Independent".
func MobilityLevelString(level *int) string {
	if level == nil {
		return "Independent"
	}
	switch *level {
	case MobilityIndependent:
		return "Independent"
	case MobilitySupervision:
		return "Independent with aid"
	case MobilityPartial:
		return "Requires some assistance"
	case MobilityFull:
		return "Requires significant assistance"
	case MobilityBedbound:
		return "Bedbound"
	default:
		return "Independent"
	}
}

// ShiftObservation is an immutable-once-written fact about a resident at
// a point in time. Optional fields are pointers; nil means not recorded.
type ShiftObservation struct {
	ID         uuid.UUID `json:"id"`
	ResidentID uuid.UUID `json:"resident_id"`
	WorkerID   uuid.UUID `json:"shift_worker_id"`
	Timestamp  time.Time `json:"timestamp"`
	TimeOfDay  TimeOfDay `json:"time_of_day"` // derived from Timestamp, never trusted from input
	CreatedAt  time.Time `json:"created_at"`

	// Falls/stability
	FallsHasEvent            *bool          `json:"falls_has_event,omitempty"`
	FallsEventType           *FallEventType `json:"falls_event_type,omitempty"`
	FallsLocation            *string        `json:"falls_location,omitempty"`
	FallsContributingFactors *string        `json:"falls_contributing_factors,omitempty"`
	FallsAssistiveDeviceUsed *bool          `json:"falls_assistive_device_used,omitempty"`
	FallsInjury              *string        `json:"falls_injury,omitempty"`

	// Mood
	MoodHasChange    *bool         `json:"mood_has_change,omitempty"`
	MoodBaseline     *MoodBaseline `json:"mood_baseline,omitempty"`
	MoodTriggers     *string       `json:"mood_triggers,omitempty"` // comma-separated
	MoodOtherTrigger *string       `json:"mood_other_trigger,omitempty"`
	MoodSeverity     *int          `json:"mood_severity,omitempty"` // 1-3
	MoodNotes        *string       `json:"mood_notes,omitempty"`

	// Medication
	MedicationHasIssue    *bool                  `json:"medication_has_issue,omitempty"`
	MedicationName        *string                `json:"medication_name,omitempty"`
	MedicationAction      *MedicationAction      `json:"medication_action,omitempty"`
	MedicationReason      *string                `json:"medication_reason,omitempty"`
	MedicationStaffAction *MedicationStaffAction `json:"medication_staff_action,omitempty"`
	PolypharmacyCount     *int                   `json:"polypharmacy_count,omitempty"`
	HighRiskMedFlag       *bool                  `json:"high_risk_med_flag,omitempty"`

	// Vitals
	Temperature     *float64 `json:"temperature,omitempty"` // degrees C
	HeartRate       *int     `json:"heart_rate,omitempty"`  // bpm
	RespiratoryRate *int     `json:"respiratory_rate,omitempty"`
	BPSystolic      *int     `json:"bp_systolic,omitempty"`
	BPDiastolic     *int     `json:"bp_diastolic,omitempty"`
	OxygenSat       *int     `json:"oxygen_sat,omitempty"` // %
	PainScore       *int     `json:"pain_score,omitempty"` // 0-10

	// Cognitive
	MMSEScore               *int  `json:"mmse_score,omitempty"` // 0-30
	CognitiveImpairmentFlag *bool `json:"cognitive_impairment_flag,omitempty"`

	// Mobility
	MobilityLevel    *int  `json:"mobility_level,omitempty"` // 0-4
	UseOfAid         *bool `json:"use_of_aid,omitempty"`
	DizzinessFlag    *bool `json:"dizziness_flag,omitempty"`
	UnsteadyGaitFlag *bool `json:"unsteady_gait_flag,omitempty"`

	// Mood one-hot flags, derived from MoodBaseline at write time.
	// At most one is true per observation.
	HappyFlag      bool `json:"happy_flag"`
	DepressionFlag bool `json:"depression_flag"`
	AgitationFlag  bool `json:"agitation_flag"`
	WithdrawnFlag  bool `json:"withdrawn_flag"`
	ConfusionFlag  bool `json:"confusion_flag"`

	// Clinical flags derived from this observation's vitals at write time
	HypotensionFlag bool `json:"hypotension_flag"` // systolic <90 or diastolic <60
	TachycardiaFlag bool `json:"tachycardia_flag"` // heart rate >100
	HypoxiaFlag     bool `json:"hypoxia_flag"`     // oxygen sat <90
	FeverFlag       bool `json:"fever_flag"`       // temperature >37.5

	// Rolling statistics anchored at this observation's timestamp.
	// Populated at write time and on read-time enrichment; a populated
	// value is never overwritten.
	HR7dMean          *float64 `json:"hr_7d_mean,omitempty"`
	SBP7dMean         *float64 `json:"sbp_7d_mean,omitempty"`
	HR7dDelta         *float64 `json:"hr_7d_delta,omitempty"`
	SBP7dDelta        *float64 `json:"sbp_7d_delta,omitempty"`
	PriorFall90d      *int     `json:"prior_fall_90d,omitempty"`
	FallNext7d        *float64 `json:"fall_next_7d,omitempty"` // model output, authoritative only for the most recent observation
	MissedDoseRatio7d *float64 `json:"missed_dose_ratio_7d,omitempty"`
}

// HasFallEvent reports whether a fall event was recorded
func (o *ShiftObservation) HasFallEvent() bool {
	return o.FallsHasEvent != nil && *o.FallsHasEvent
}

// HasMoodChange reports whether a mood change was recorded
func (o *ShiftObservation) HasMoodChange() bool {
	return o.MoodHasChange != nil && *o.MoodHasChange
}

// HasMedicationIssue reports whether a medication issue was recorded
func (o *ShiftObservation) HasMedicationIssue() bool {
	return o.MedicationHasIssue != nil && *o.MedicationHasIssue
}

// MedicationWasRefused reports an outright refusal, the strongest
// adherence signal the adherence model consumes
func (o *ShiftObservation) MedicationWasRefused() bool {
	return o.HasMedicationIssue() && o.MedicationAction != nil && *o.MedicationAction == MedicationRefused
}
