package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// InitDatabase creates the database schema from scratch
// This is pilot-friendly: auto-creates tables on startup
// Set DROP_TABLES_ON_STARTUP=true environment variable to drop existing tables
func InitDatabase(db *sql.DB) error {
	if os.Getenv("DROP_TABLES_ON_STARTUP") == "true" {
		log.Println("Dropping existing tables (DROP_TABLES_ON_STARTUP=true)...")
		for _, table := range []string{"shift_reports", "shift_observations", "shift_workers", "residents"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE"); err != nil {
				log.Printf("Warning: Failed to drop %s table: %v", table, err)
			}
		}
	} else {
		log.Println("Skipping table drop (set DROP_TABLES_ON_STARTUP=true to drop tables on startup)")
	}

	log.Println("Creating residents table...")
	residentsSchema := `
	CREATE TABLE IF NOT EXISTS residents (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		date_of_birth TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		room_number TEXT NOT NULL DEFAULT '',
		room_unit TEXT NOT NULL DEFAULT '',
		diagnoses TEXT NOT NULL DEFAULT '',
		emergency_contact TEXT NOT NULL DEFAULT '',
		emergency_phone TEXT NOT NULL DEFAULT '',
		residence TEXT NOT NULL DEFAULT '',
		care_level TEXT NOT NULL DEFAULT '',
		move_in_date TEXT NOT NULL DEFAULT '',
		baseline_mmse INTEGER,
		created_at TIMESTAMP DEFAULT now(),
		last_updated TIMESTAMP DEFAULT now(),
		CONSTRAINT chk_baseline_mmse CHECK (baseline_mmse IS NULL OR (baseline_mmse >= 0 AND baseline_mmse <= 30))
	);`

	if _, err := db.Exec(residentsSchema); err != nil {
		return fmt.Errorf("failed to create residents table: %w", err)
	}

	log.Println("Creating shift_workers table...")
	workersSchema := `
	CREATE TABLE IF NOT EXISTS shift_workers (
		id UUID PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		shift_preference TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT now()
	);`

	if _, err := db.Exec(workersSchema); err != nil {
		return fmt.Errorf("failed to create shift_workers table: %w", err)
	}

	log.Println("Creating shift_observations table...")
	observationsSchema := `
	CREATE TABLE IF NOT EXISTS shift_observations (
		id UUID PRIMARY KEY,
		resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
		shift_worker_id UUID NOT NULL REFERENCES shift_workers(id),
		timestamp TIMESTAMP NOT NULL,
		time_of_day TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT now(),
		-- Falls/stability
		falls_has_event BOOLEAN,
		falls_event_type TEXT,
		falls_location TEXT,
		falls_contributing_factors TEXT,
		falls_assistive_device_used BOOLEAN,
		falls_injury TEXT,
		-- Mood
		mood_has_change BOOLEAN,
		mood_baseline TEXT,
		mood_triggers TEXT,
		mood_other_trigger TEXT,
		mood_severity INTEGER,
		mood_notes TEXT,
		-- Medication
		medication_has_issue BOOLEAN,
		medication_name TEXT,
		medication_action TEXT,
		medication_reason TEXT,
		medication_staff_action TEXT,
		polypharmacy_count INTEGER,
		high_risk_med_flag BOOLEAN,
		-- Vitals
		temperature NUMERIC,
		heart_rate INTEGER,
		respiratory_rate INTEGER,
		bp_systolic INTEGER,
		bp_diastolic INTEGER,
		oxygen_sat INTEGER,
		pain_score INTEGER,
		-- Cognitive
		mmse_score INTEGER,
		cognitive_impairment_flag BOOLEAN,
		-- Mobility
		mobility_level INTEGER,
		use_of_aid BOOLEAN,
		dizziness_flag BOOLEAN,
		unsteady_gait_flag BOOLEAN,
		-- Derived mood one-hot flags
		happy_flag BOOLEAN NOT NULL DEFAULT false,
		depression_flag BOOLEAN NOT NULL DEFAULT false,
		agitation_flag BOOLEAN NOT NULL DEFAULT false,
		withdrawn_flag BOOLEAN NOT NULL DEFAULT false,
		confusion_flag BOOLEAN NOT NULL DEFAULT false,
		-- Derived clinical flags
		hypotension_flag BOOLEAN NOT NULL DEFAULT false,
		tachycardia_flag BOOLEAN NOT NULL DEFAULT false,
		hypoxia_flag BOOLEAN NOT NULL DEFAULT false,
		fever_flag BOOLEAN NOT NULL DEFAULT false,
		-- Rolling statistics anchored at timestamp
		hr_7d_mean NUMERIC,
		sbp_7d_mean NUMERIC,
		hr_7d_delta NUMERIC,
		sbp_7d_delta NUMERIC,
		prior_fall_90d INTEGER,
		fall_next_7d NUMERIC,
		missed_dose_ratio_7d NUMERIC,
		CONSTRAINT chk_mood_severity CHECK (mood_severity IS NULL OR (mood_severity >= 1 AND mood_severity <= 3)),
		CONSTRAINT chk_pain_score CHECK (pain_score IS NULL OR (pain_score >= 0 AND pain_score <= 10)),
		CONSTRAINT chk_mmse_score CHECK (mmse_score IS NULL OR (mmse_score >= 0 AND mmse_score <= 30)),
		CONSTRAINT chk_mobility_level CHECK (mobility_level IS NULL OR (mobility_level >= 0 AND mobility_level <= 4))
	);`

	if _, err := db.Exec(observationsSchema); err != nil {
		return fmt.Errorf("failed to create shift_observations table: %w", err)
	}

	log.Println("Creating shift_reports table...")
	reportsSchema := `
	CREATE TABLE IF NOT EXISTS shift_reports (
		id UUID PRIMARY KEY,
		resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
		shift_worker_id UUID NOT NULL REFERENCES shift_workers(id),
		report_time TIMESTAMP NOT NULL,
		report_text TEXT NOT NULL
	);`

	if _, err := db.Exec(reportsSchema); err != nil {
		return fmt.Errorf("failed to create shift_reports table: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_observations_resident_id ON shift_observations(resident_id)",
		"CREATE INDEX IF NOT EXISTS idx_observations_worker_id ON shift_observations(shift_worker_id)",
		"CREATE INDEX IF NOT EXISTS idx_observations_timestamp ON shift_observations(timestamp)",
		"CREATE INDEX IF NOT EXISTS idx_observations_resident_timestamp ON shift_observations(resident_id, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_resident_id ON shift_reports(resident_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_report_time ON shift_reports(report_time)",
		"CREATE INDEX IF NOT EXISTS idx_workers_email ON shift_workers(email)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			log.Printf("Failed to open database connection (attempt %d/%d): %v", i+1, maxRetries, err)
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}

		// Test the connection
		if err = db.Ping(); err != nil {
			log.Printf("Failed to ping database (attempt %d/%d): %v", i+1, maxRetries, err)
			db.Close()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connection established successfully")
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
