package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBaselineMMSE is stamped on new residents when intake does not
// provide a baseline cognitive score.
const DefaultBaselineMMSE = 25

// CareLevel describes the level of care a resident receives
type CareLevel string

const (
	CareLevelIndependent CareLevel = "independent"
	CareLevelAssisted    CareLevel = "assisted"
	CareLevelMemory      CareLevel = "memory"
)

// Resident represents a facility resident.
// Age is always recomputed from DateOfBirth at read time, never trusted
// from storage.
type Resident struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"` // "YYYY-MM-DD"
	Gender      string    `json:"gender"`
	RoomNumber  string    `json:"room_number"`
	RoomUnit    string    `json:"room_unit"`
	Age         *int      `json:"age,omitempty"` // derived, see RecalculateAge
	Diagnoses   string    `json:"diagnoses"`

	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`

	Residence  string    `json:"residence"`
	CareLevel  CareLevel `json:"care_level"`
	MoveInDate string    `json:"move_in_date"`

	BaselineMMSE *int `json:"baseline_mmse,omitempty"` // 0-30

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// RecalculateAge derives Age from DateOfBirth as of now.
// An unparseable or empty DateOfBirth leaves Age untouched.
func (r *Resident) RecalculateAge(now time.Time) {
	if r.DateOfBirth == "" {
		return
	}
	dob, err := time.Parse("2006-01-02", r.DateOfBirth)
	if err != nil {
		return
	}
	years := now.Year() - dob.Year()
	// Birthday not yet reached this year
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	r.Age = &years
}

// AgeGroup buckets a resident's age for the fall-risk model:
// 0: <65, 1: 65-74, 2: 75-84, 3: 85+. A missing age defaults to 2
// (the 75-84 bracket, the facility's median cohort).
func AgeGroup(age *int) int {
	if age == nil {
		return 2
	}
	switch {
	case *age < 65:
		return 0
	case *age < 75:
		return 1
	case *age < 85:
		return 2
	default:
		return 3
	}
}

// ShiftWorker represents a staff member recording observations and reports
type ShiftWorker struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Name            string    `json:"name"` // full name, kept for display
	Email           string    `json:"email"`
	Password        string    `json:"-"` // demo credential check only, never serialized
	Role            string    `json:"role"`
	Phone           string    `json:"phone"`
	Sex             string    `json:"sex"`
	ShiftPreference string    `json:"shift_preference"` // day, evening, night, flex
	AvatarURL       string    `json:"avatar_url"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShiftReport is an unstructured free-text report filed by a shift worker.
// Kept verbatim for later NLP ingestion.
type ShiftReport struct {
	ID         uuid.UUID `json:"id"`
	ResidentID uuid.UUID `json:"resident_id"`
	WorkerID   uuid.UUID `json:"shift_worker_id"`
	ReportTime time.Time `json:"report_time"`
	ReportText string    `json:"report_text"`
}
