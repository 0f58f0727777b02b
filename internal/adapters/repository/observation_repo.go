package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

const observationColumns = `id, resident_id, shift_worker_id, timestamp, time_of_day, created_at,
	falls_has_event, falls_event_type, falls_location, falls_contributing_factors,
	falls_assistive_device_used, falls_injury,
	mood_has_change, mood_baseline, mood_triggers, mood_other_trigger, mood_severity, mood_notes,
	medication_has_issue, medication_name, medication_action, medication_reason,
	medication_staff_action, polypharmacy_count, high_risk_med_flag,
	temperature, heart_rate, respiratory_rate, bp_systolic, bp_diastolic, oxygen_sat, pain_score,
	mmse_score, cognitive_impairment_flag,
	mobility_level, use_of_aid, dizziness_flag, unsteady_gait_flag,
	happy_flag, depression_flag, agitation_flag, withdrawn_flag, confusion_flag,
	hypotension_flag, tachycardia_flag, hypoxia_flag, fever_flag,
	hr_7d_mean, sbp_7d_mean, hr_7d_delta, sbp_7d_delta, prior_fall_90d, fall_next_7d,
	missed_dose_ratio_7d`

// ObservationRepository implements shift-observation persistence on PostgreSQL
type ObservationRepository struct {
	postgresBase
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(db *sql.DB) *ObservationRepository {
	return &ObservationRepository{newPostgresBase(db, "observations-db")}
}

// observationArgs flattens an observation into the insert/update
// argument list, in observationColumns order. Nil pointers become NULL.
func observationArgs(o *domain.ShiftObservation) []interface{} {
	return []interface{}{
		o.ID, o.ResidentID, o.WorkerID, o.Timestamp, string(o.TimeOfDay), o.CreatedAt,
		o.FallsHasEvent, o.FallsEventType, o.FallsLocation, o.FallsContributingFactors,
		o.FallsAssistiveDeviceUsed, o.FallsInjury,
		o.MoodHasChange, o.MoodBaseline, o.MoodTriggers, o.MoodOtherTrigger, o.MoodSeverity, o.MoodNotes,
		o.MedicationHasIssue, o.MedicationName, o.MedicationAction, o.MedicationReason,
		o.MedicationStaffAction, o.PolypharmacyCount, o.HighRiskMedFlag,
		o.Temperature, o.HeartRate, o.RespiratoryRate, o.BPSystolic, o.BPDiastolic, o.OxygenSat, o.PainScore,
		o.MMSEScore, o.CognitiveImpairmentFlag,
		o.MobilityLevel, o.UseOfAid, o.DizzinessFlag, o.UnsteadyGaitFlag,
		o.HappyFlag, o.DepressionFlag, o.AgitationFlag, o.WithdrawnFlag, o.ConfusionFlag,
		o.HypotensionFlag, o.TachycardiaFlag, o.HypoxiaFlag, o.FeverFlag,
		o.HR7dMean, o.SBP7dMean, o.HR7dDelta, o.SBP7dDelta, o.PriorFall90d, o.FallNext7d,
		o.MissedDoseRatio7d,
	}
}

func placeholders(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func (r *ObservationRepository) Create(ctx context.Context, obs *domain.ShiftObservation) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			args := observationArgs(obs)
			query := `INSERT INTO shift_observations (` + observationColumns + `) VALUES (` + placeholders(len(args)) + `)`
			_, err := r.db.ExecContext(ctx, query, args...)
			return err
		})
	})
	return err
}

func (r *ObservationRepository) GetByID(ctx context.Context, obsID uuid.UUID) (*domain.ShiftObservation, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var obs *domain.ShiftObservation
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT ` + observationColumns + ` FROM shift_observations WHERE id = $1`
			rows, err := r.db.QueryContext(ctx, query, obsID)
			if err != nil {
				return err
			}
			defer rows.Close()

			if !rows.Next() {
				return sql.ErrNoRows
			}
			obs, err = scanObservation(rows)
			return err
		})
		if err != nil {
			return nil, err
		}
		return obs, nil
	})

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrObservationNotFound
		}
		return nil, err
	}

	return result.(*domain.ShiftObservation), nil
}

func (r *ObservationRepository) List(ctx context.Context) ([]*domain.ShiftObservation, error) {
	return r.list(ctx, `SELECT `+observationColumns+` FROM shift_observations ORDER BY timestamp DESC`)
}

func (r *ObservationRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*domain.ShiftObservation, error) {
	return r.list(ctx, `SELECT `+observationColumns+` FROM shift_observations WHERE resident_id = $1 ORDER BY timestamp DESC`, residentID)
}

func (r *ObservationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.ShiftObservation, error) {
	return r.list(ctx, `SELECT `+observationColumns+` FROM shift_observations WHERE shift_worker_id = $1 ORDER BY timestamp DESC`, workerID)
}

func (r *ObservationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.ShiftObservation, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var observations []*domain.ShiftObservation
		err := r.executeWithRetry(ctx, func() error {
			rows, queryErr := r.db.QueryContext(ctx, query, args...)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			observations = observations[:0]
			for rows.Next() {
				obs, err := scanObservation(rows)
				if err != nil {
					return err
				}
				observations = append(observations, obs)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return observations, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.ShiftObservation), nil
}

func (r *ObservationRepository) Update(ctx context.Context, obs *domain.ShiftObservation) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `UPDATE shift_observations SET
				time_of_day = $2,
				falls_has_event = $3, falls_event_type = $4, falls_location = $5,
				falls_contributing_factors = $6, falls_assistive_device_used = $7, falls_injury = $8,
				mood_has_change = $9, mood_baseline = $10, mood_triggers = $11,
				mood_other_trigger = $12, mood_severity = $13, mood_notes = $14,
				medication_has_issue = $15, medication_name = $16, medication_action = $17,
				medication_reason = $18, medication_staff_action = $19,
				polypharmacy_count = $20, high_risk_med_flag = $21,
				temperature = $22, heart_rate = $23, respiratory_rate = $24,
				bp_systolic = $25, bp_diastolic = $26, oxygen_sat = $27, pain_score = $28,
				mmse_score = $29, cognitive_impairment_flag = $30,
				mobility_level = $31, use_of_aid = $32, dizziness_flag = $33, unsteady_gait_flag = $34,
				happy_flag = $35, depression_flag = $36, agitation_flag = $37,
				withdrawn_flag = $38, confusion_flag = $39,
				hypotension_flag = $40, tachycardia_flag = $41, hypoxia_flag = $42, fever_flag = $43
				WHERE id = $1`
			result, err := r.db.ExecContext(ctx, query,
				obs.ID, string(obs.TimeOfDay),
				obs.FallsHasEvent, obs.FallsEventType, obs.FallsLocation,
				obs.FallsContributingFactors, obs.FallsAssistiveDeviceUsed, obs.FallsInjury,
				obs.MoodHasChange, obs.MoodBaseline, obs.MoodTriggers,
				obs.MoodOtherTrigger, obs.MoodSeverity, obs.MoodNotes,
				obs.MedicationHasIssue, obs.MedicationName, obs.MedicationAction,
				obs.MedicationReason, obs.MedicationStaffAction,
				obs.PolypharmacyCount, obs.HighRiskMedFlag,
				obs.Temperature, obs.HeartRate, obs.RespiratoryRate,
				obs.BPSystolic, obs.BPDiastolic, obs.OxygenSat, obs.PainScore,
				obs.MMSEScore, obs.CognitiveImpairmentFlag,
				obs.MobilityLevel, obs.UseOfAid, obs.DizzinessFlag, obs.UnsteadyGaitFlag,
				obs.HappyFlag, obs.DepressionFlag, obs.AgitationFlag,
				obs.WithdrawnFlag, obs.ConfusionFlag,
				obs.HypotensionFlag, obs.TachycardiaFlag, obs.HypoxiaFlag, obs.FeverFlag,
			)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return sql.ErrNoRows
			}
			return nil
		})
	})
	if isNoRows(err) {
		return domain.ErrObservationNotFound
	}
	return err
}

func (r *ObservationRepository) Delete(ctx context.Context, obsID uuid.UUID) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `DELETE FROM shift_observations WHERE id = $1`, obsID)
			if err != nil {
				return err
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if affected == 0 {
				return sql.ErrNoRows
			}
			return nil
		})
	})
	if isNoRows(err) {
		return domain.ErrObservationNotFound
	}
	return err
}

func (r *ObservationRepository) DeleteByResident(ctx context.Context, residentID uuid.UUID) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			_, err := r.db.ExecContext(ctx, `DELETE FROM shift_observations WHERE resident_id = $1`, residentID)
			return err
		})
	})
	return err
}

// scanObservation scans a full observation row
func scanObservation(rows *sql.Rows) (*domain.ShiftObservation, error) {
	var o domain.ShiftObservation
	var timeOfDay string

	var fallsHasEvent sql.NullBool
	var fallsEventType, fallsLocation, fallsContributing, fallsInjury sql.NullString
	var fallsAssistive sql.NullBool

	var moodHasChange sql.NullBool
	var moodBaseline, moodTriggers, moodOtherTrigger, moodNotes sql.NullString
	var moodSeverity sql.NullInt64

	var medHasIssue, highRiskMed sql.NullBool
	var medName, medAction, medReason, medStaffAction sql.NullString
	var polypharmacy sql.NullInt64

	var temperature sql.NullFloat64
	var heartRate, respiratoryRate, bpSystolic, bpDiastolic, oxygenSat, painScore sql.NullInt64

	var mmseScore sql.NullInt64
	var cognitiveFlag sql.NullBool

	var mobilityLevel sql.NullInt64
	var useOfAid, dizziness, unsteadyGait sql.NullBool

	var hr7dMean, sbp7dMean, hr7dDelta, sbp7dDelta, fallNext7d, missedDoseRatio sql.NullFloat64
	var priorFall90d sql.NullInt64

	err := rows.Scan(
		&o.ID, &o.ResidentID, &o.WorkerID, &o.Timestamp, &timeOfDay, &o.CreatedAt,
		&fallsHasEvent, &fallsEventType, &fallsLocation, &fallsContributing,
		&fallsAssistive, &fallsInjury,
		&moodHasChange, &moodBaseline, &moodTriggers, &moodOtherTrigger, &moodSeverity, &moodNotes,
		&medHasIssue, &medName, &medAction, &medReason,
		&medStaffAction, &polypharmacy, &highRiskMed,
		&temperature, &heartRate, &respiratoryRate, &bpSystolic, &bpDiastolic, &oxygenSat, &painScore,
		&mmseScore, &cognitiveFlag,
		&mobilityLevel, &useOfAid, &dizziness, &unsteadyGait,
		&o.HappyFlag, &o.DepressionFlag, &o.AgitationFlag, &o.WithdrawnFlag, &o.ConfusionFlag,
		&o.HypotensionFlag, &o.TachycardiaFlag, &o.HypoxiaFlag, &o.FeverFlag,
		&hr7dMean, &sbp7dMean, &hr7dDelta, &sbp7dDelta, &priorFall90d, &fallNext7d,
		&missedDoseRatio,
	)
	if err != nil {
		return nil, err
	}

	o.TimeOfDay = domain.TimeOfDay(timeOfDay)

	o.FallsHasEvent = nullBoolPtr(fallsHasEvent)
	if fallsEventType.Valid {
		t := domain.FallEventType(fallsEventType.String)
		o.FallsEventType = &t
	}
	o.FallsLocation = nullStringPtr(fallsLocation)
	o.FallsContributingFactors = nullStringPtr(fallsContributing)
	o.FallsAssistiveDeviceUsed = nullBoolPtr(fallsAssistive)
	o.FallsInjury = nullStringPtr(fallsInjury)

	o.MoodHasChange = nullBoolPtr(moodHasChange)
	if moodBaseline.Valid {
		b := domain.MoodBaseline(moodBaseline.String)
		o.MoodBaseline = &b
	}
	o.MoodTriggers = nullStringPtr(moodTriggers)
	o.MoodOtherTrigger = nullStringPtr(moodOtherTrigger)
	o.MoodSeverity = nullIntPtr(moodSeverity)
	o.MoodNotes = nullStringPtr(moodNotes)

	o.MedicationHasIssue = nullBoolPtr(medHasIssue)
	o.MedicationName = nullStringPtr(medName)
	if medAction.Valid {
		a := domain.MedicationAction(medAction.String)
		o.MedicationAction = &a
	}
	o.MedicationReason = nullStringPtr(medReason)
	if medStaffAction.Valid {
		a := domain.MedicationStaffAction(medStaffAction.String)
		o.MedicationStaffAction = &a
	}
	o.PolypharmacyCount = nullIntPtr(polypharmacy)
	o.HighRiskMedFlag = nullBoolPtr(highRiskMed)

	o.Temperature = nullFloatPtr(temperature)
	o.HeartRate = nullIntPtr(heartRate)
	o.RespiratoryRate = nullIntPtr(respiratoryRate)
	o.BPSystolic = nullIntPtr(bpSystolic)
	o.BPDiastolic = nullIntPtr(bpDiastolic)
	o.OxygenSat = nullIntPtr(oxygenSat)
	o.PainScore = nullIntPtr(painScore)

	o.MMSEScore = nullIntPtr(mmseScore)
	o.CognitiveImpairmentFlag = nullBoolPtr(cognitiveFlag)

	o.MobilityLevel = nullIntPtr(mobilityLevel)
	o.UseOfAid = nullBoolPtr(useOfAid)
	o.DizzinessFlag = nullBoolPtr(dizziness)
	o.UnsteadyGaitFlag = nullBoolPtr(unsteadyGait)

	o.HR7dMean = nullFloatPtr(hr7dMean)
	o.SBP7dMean = nullFloatPtr(sbp7dMean)
	o.HR7dDelta = nullFloatPtr(hr7dDelta)
	o.SBP7dDelta = nullFloatPtr(sbp7dDelta)
	o.PriorFall90d = nullIntPtr(priorFall90d)
	o.FallNext7d = nullFloatPtr(fallNext7d)
	o.MissedDoseRatio7d = nullFloatPtr(missedDoseRatio)

	return &o, nil
}

// Ensure ObservationRepository implements the interface
var _ ports.ObservationRepository = (*ObservationRepository)(nil)
