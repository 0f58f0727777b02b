package domain

// Per-day feature rows sent to the prediction service. Field names and
// clinical-neutral defaults match the model's training contract: a
// missing source field is substituted with its neutral default rather
// than propagated as null.

// Neutral defaults for missing feature inputs
const (
	DefaultFeatureMMSE         = 25
	DefaultFeaturePolypharmacy = 3
	DefaultFeatureSystolic     = 120
	DefaultFeatureOxygenSat    = 96
	DefaultFeatureMoodBaseline = "Normal"
)

// FallRiskFeatures is one observation's feature row for the fall model
type FallRiskFeatures struct {
	HasFallEvent            bool   `json:"has_fall_event"`
	MobilityLevel           string `json:"mobility_level"` // descriptive string, see MobilityLevelString
	UseOfAid                bool   `json:"use_of_aid"`
	DizzinessFlag           bool   `json:"dizziness_flag"`
	UnsteadyGaitFlag        bool   `json:"unsteady_gait_flag"`
	MMSEScore               int    `json:"mmse_score"`
	CognitiveImpairmentFlag bool   `json:"cognitive_impairment_flag"`
	ConfusionFlag           bool   `json:"confusion_flag"`
	PolypharmacyCount       int    `json:"polypharmacy_count"`
	HighRiskMedFlag         bool   `json:"high_risk_med_flag"`
	BPSystolic              int    `json:"bp_systolic"`
	OxygenSat               int    `json:"oxygen_sat"`
	AgitationFlag           bool   `json:"agitation_flag"`
	WithdrawnFlag           bool   `json:"withdrawn_flag"`
	AgeGroup                int    `json:"age_group"` // 0:<65 1:65-74 2:75-84 3:85+
}

// MoodFeatures is one observation's feature row for the mood model
type MoodFeatures struct {
	ConfusionFlag  bool   `json:"confusion_flag"`
	AgitationFlag  bool   `json:"agitation_flag"`
	DepressionFlag bool   `json:"depression_flag"`
	HappyFlag      bool   `json:"happy_flag"`
	WithdrawnFlag  bool   `json:"withdrawn_flag"`
	HasMoodChange  bool   `json:"has_mood_change"`
	MoodBaseline   string `json:"mood_baseline"`
	MoodSeverity   int    `json:"mood_severity"`
	MoodTriggers   string `json:"mood_triggers"`
}

// MedicationFeatures is one observation's feature row for the
// adherence model
type MedicationFeatures struct {
	MedicationRefused bool   `json:"medication_refused"`
	RefusalReason     string `json:"refusal_reason"`
	ObservationTime   string `json:"observation_time"` // time-of-day bucket
}

// FallRiskFeatureRow builds the fall-model feature row for one
// observation, substituting neutral defaults for missing fields.
func FallRiskFeatureRow(o *ShiftObservation, ageGroup int) FallRiskFeatures {
	f := FallRiskFeatures{
		HasFallEvent:            o.HasFallEvent(),
		MobilityLevel:           MobilityLevelString(o.MobilityLevel),
		UseOfAid:                boolValue(o.UseOfAid),
		DizzinessFlag:           boolValue(o.DizzinessFlag),
		UnsteadyGaitFlag:        boolValue(o.UnsteadyGaitFlag),
		MMSEScore:               intOr(o.MMSEScore, DefaultFeatureMMSE),
		CognitiveImpairmentFlag: boolValue(o.CognitiveImpairmentFlag),
		ConfusionFlag:           o.ConfusionFlag,
		PolypharmacyCount:       intOr(o.PolypharmacyCount, DefaultFeaturePolypharmacy),
		HighRiskMedFlag:         boolValue(o.HighRiskMedFlag),
		BPSystolic:              intOr(o.BPSystolic, DefaultFeatureSystolic),
		OxygenSat:               intOr(o.OxygenSat, DefaultFeatureOxygenSat),
		AgitationFlag:           o.AgitationFlag,
		WithdrawnFlag:           o.WithdrawnFlag,
		AgeGroup:                ageGroup,
	}
	return f
}

// MoodFeatureRow builds the mood-model feature row for one observation
func MoodFeatureRow(o *ShiftObservation) MoodFeatures {
	baseline := DefaultFeatureMoodBaseline
	if o.MoodBaseline != nil {
		baseline = string(*o.MoodBaseline)
	}
	return MoodFeatures{
		ConfusionFlag:  o.ConfusionFlag,
		AgitationFlag:  o.AgitationFlag,
		DepressionFlag: o.DepressionFlag,
		HappyFlag:      o.HappyFlag,
		WithdrawnFlag:  o.WithdrawnFlag,
		HasMoodChange:  o.HasMoodChange(),
		MoodBaseline:   baseline,
		MoodSeverity:   intOr(o.MoodSeverity, 0),
		MoodTriggers:   stringValue(o.MoodTriggers),
	}
}

// MedicationFeatureRow builds the adherence-model feature row for one
// observation
func MedicationFeatureRow(o *ShiftObservation) MedicationFeatures {
	return MedicationFeatures{
		MedicationRefused: o.MedicationWasRefused(),
		RefusalReason:     stringValue(o.MedicationReason),
		ObservationTime:   string(o.TimeOfDay),
	}
}

func boolValue(p *bool) bool {
	return p != nil && *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
