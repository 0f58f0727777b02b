package domain

import "github.com/google/uuid"

// RiskLevel is the three-tier composite clinical classification
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ConcernLevel is the medication-concern classification returned by the
// adherence model. error/no_data/unknown are fallback values, not model
// output.
type ConcernLevel string

const (
	ConcernLow      ConcernLevel = "low"
	ConcernModerate ConcernLevel = "moderate"
	ConcernHigh     ConcernLevel = "high"
	ConcernCritical ConcernLevel = "critical"
	ConcernNoData   ConcernLevel = "no_data"
	ConcernError    ConcernLevel = "error"
	ConcernUnknown  ConcernLevel = "unknown"
)

// Attention flag values for the dashboard list view
const (
	AttentionYes = "Yes"
	AttentionNo  = "No"
)

// ResidentSummary is the derived dashboard row for a resident. It is
// recomputed on every request and never persisted.
type ResidentSummary struct {
	ResidentID   uuid.UUID `json:"resident_id"`
	ResidentName string    `json:"resident_name"`
	RoomNumber   string    `json:"room_number"`

	AttentionFlag string    `json:"attention_flag"` // "Yes" or "No"
	RiskLevel     RiskLevel `json:"risk_level"`
	MoodChanges   bool      `json:"mood_changes"` // any mood change in the last 7 days

	FallRiskProbability float64 `json:"fall_risk_probability"` // 0.0-1.0
	AIMoodPrediction    string  `json:"ai_mood_prediction"`

	MedicationAdherenceSummary string       `json:"medication_adherence_summary"`
	MedicationAdherenceRate    float64      `json:"medication_adherence_rate"` // 0-100
	MedicationConcernLevel     ConcernLevel `json:"medication_concern_level"`
}
