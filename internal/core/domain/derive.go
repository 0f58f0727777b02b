package domain

import "time"

// Clinical thresholds for write-time flag derivation
const (
	HypotensionSystolicBelow  = 90
	HypotensionDiastolicBelow = 60
	TachycardiaAbove          = 100
	HypoxiaBelow              = 90
	FeverAbove                = 37.5
	CognitiveImpairmentBelow  = 24 // MMSE
)

// TimeOfDayBucket derives the shift bucket from the hour component of a
// timestamp: [0,12) Morning, [12,17) Afternoon, [17,21) Evening,
// [21,24) Night.
func TimeOfDayBucket(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour < 12:
		return TimeOfDayMorning
	case hour < 17:
		return TimeOfDayAfternoon
	case hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// DeriveWriteTimeFlags stamps all write-time derived fields on an
// observation: the time-of-day bucket, the mood one-hot flags, the
// vitals clinical flags, and the cognitive-impairment flag. Missing
// inputs never trigger a flag; there are no error conditions.
// The function is idempotent and always recomputes from source fields.
func (o *ShiftObservation) DeriveWriteTimeFlags() {
	o.TimeOfDay = TimeOfDayBucket(o.Timestamp)
	o.deriveMoodFlags()
	o.deriveVitalsFlags()
	o.deriveCognitiveFlag()
}

// deriveMoodFlags maps MoodBaseline to its one-hot flag. Exactly one
// flag is set for a recognized category; an absent or unrecognized
// category clears all five.
func (o *ShiftObservation) deriveMoodFlags() {
	o.HappyFlag = false
	o.DepressionFlag = false
	o.AgitationFlag = false
	o.WithdrawnFlag = false
	o.ConfusionFlag = false

	if o.MoodBaseline == nil {
		return
	}
	switch *o.MoodBaseline {
	case MoodHappier:
		o.HappyFlag = true
	case MoodSad:
		o.DepressionFlag = true
	case MoodAgitated:
		o.AgitationFlag = true
	case MoodWithdrawn:
		o.WithdrawnFlag = true
	case MoodConfused:
		o.ConfusionFlag = true
	}
}

func (o *ShiftObservation) deriveVitalsFlags() {
	o.HypotensionFlag = (o.BPSystolic != nil && *o.BPSystolic < HypotensionSystolicBelow) ||
		(o.BPDiastolic != nil && *o.BPDiastolic < HypotensionDiastolicBelow)
	o.TachycardiaFlag = o.HeartRate != nil && *o.HeartRate > TachycardiaAbove
	o.HypoxiaFlag = o.OxygenSat != nil && *o.OxygenSat < HypoxiaBelow
	o.FeverFlag = o.Temperature != nil && *o.Temperature > FeverAbove
}

// deriveCognitiveFlag sets the cognitive-impairment flag from the MMSE
// score when the flag was not explicitly supplied. An explicit flag is
// an override and is kept as-is.
func (o *ShiftObservation) deriveCognitiveFlag() {
	if o.MMSEScore != nil && o.CognitiveImpairmentFlag == nil {
		impaired := *o.MMSEScore < CognitiveImpairmentBelow
		o.CognitiveImpairmentFlag = &impaired
	}
}

// HasCriticalFlags reports whether any write-time clinical flag or a
// fall event is present. Used to decide whether a newly written
// observation warrants an attention alert.
func (o *ShiftObservation) HasCriticalFlags() bool {
	return o.HypotensionFlag || o.TachycardiaFlag || o.HypoxiaFlag || o.FeverFlag || o.HasFallEvent()
}
