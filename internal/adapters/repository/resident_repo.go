package repository

import (
	"context"
	"database/sql"

	"github.com/carebridge/wellness-service/internal/core/domain"
	"github.com/carebridge/wellness-service/internal/core/ports"
	"github.com/google/uuid"
)

const residentColumns = `id, name, date_of_birth, gender, room_number, room_unit, diagnoses,
	emergency_contact, emergency_phone, residence, care_level, move_in_date,
	baseline_mmse, created_at, last_updated`

// ResidentRepository implements resident persistence on PostgreSQL
type ResidentRepository struct {
	postgresBase
}

// NewResidentRepository creates a new resident repository
func NewResidentRepository(db *sql.DB) *ResidentRepository {
	return &ResidentRepository{newPostgresBase(db, "residents-db")}
}

func (r *ResidentRepository) Create(ctx context.Context, resident *domain.Resident) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `INSERT INTO residents (` + residentColumns + `)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
			_, err := r.db.ExecContext(ctx, query,
				resident.ID, resident.Name, resident.DateOfBirth, resident.Gender,
				resident.RoomNumber, resident.RoomUnit, resident.Diagnoses,
				resident.EmergencyContact, resident.EmergencyPhone,
				resident.Residence, string(resident.CareLevel), resident.MoveInDate,
				resident.BaselineMMSE, resident.CreatedAt, resident.LastUpdated,
			)
			return err
		})
	})
	return err
}

func (r *ResidentRepository) GetByID(ctx context.Context, residentID uuid.UUID) (*domain.Resident, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var resident domain.Resident
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT ` + residentColumns + ` FROM residents WHERE id = $1`
			row := r.db.QueryRowContext(ctx, query, residentID)
			return scanResident(row, &resident)
		})
		if err != nil {
			return nil, err
		}
		return &resident, nil
	})

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrResidentNotFound
		}
		return nil, err
	}

	return result.(*domain.Resident), nil
}

func (r *ResidentRepository) List(ctx context.Context) ([]*domain.Resident, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var residents []*domain.Resident
		err := r.executeWithRetry(ctx, func() error {
			query := `SELECT ` + residentColumns + ` FROM residents ORDER BY name ASC`
			rows, queryErr := r.db.QueryContext(ctx, query)
			if queryErr != nil {
				return queryErr
			}
			defer rows.Close()

			residents = residents[:0]
			for rows.Next() {
				var resident domain.Resident
				if err := scanResident(rows, &resident); err != nil {
					return err
				}
				residents = append(residents, &resident)
			}
			return rows.Err()
		})
		if err != nil {
			return nil, err
		}
		return residents, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]*domain.Resident), nil
}

func (r *ResidentRepository) Update(ctx context.Context, resident *domain.Resident) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			query := `UPDATE residents SET name = $2, date_of_birth = $3, gender = $4,
				room_number = $5, room_unit = $6, diagnoses = $7, emergency_contact = $8,
				emergency_phone = $9, residence = $10, care_level = $11, move_in_date = $12,
				baseline_mmse = $13, last_updated = $14
				WHERE id = $1`
			result, err := r.db.ExecContext(ctx, query,
				resident.ID, resident.Name, resident.DateOfBirth, resident.Gender,
				resident.RoomNumber, resident.RoomUnit, resident.Diagnoses,
				resident.EmergencyContact, resident.EmergencyPhone,
				resident.Residence, string(resident.CareLevel), resident.MoveInDate,
				resident.BaselineMMSE, resident.LastUpdated,
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
		return domain.ErrResidentNotFound
	}
	return err
}

func (r *ResidentRepository) Delete(ctx context.Context, residentID uuid.UUID) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.executeWithRetry(ctx, func() error {
			result, err := r.db.ExecContext(ctx, `DELETE FROM residents WHERE id = $1`, residentID)
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
		return domain.ErrResidentNotFound
	}
	return err
}

func (r *ResidentRepository) Exists(ctx context.Context, residentID uuid.UUID) (bool, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		var exists bool
		err := r.executeWithRetry(ctx, func() error {
			var count int
			query := `SELECT COUNT(*) FROM residents WHERE id = $1`
			err := r.db.QueryRowContext(ctx, query, residentID).Scan(&count)
			exists = count > 0
			return err
		})
		if err != nil {
			return nil, err
		}
		return exists, nil
	})

	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

// scanResident scans a resident row. baseline_mmse is the only nullable
// column; age is derived at read time and not stored.
func scanResident(row interface{ Scan(dest ...interface{}) error }, resident *domain.Resident) error {
	var careLevel string
	var baselineMMSE sql.NullInt64

	err := row.Scan(
		&resident.ID, &resident.Name, &resident.DateOfBirth, &resident.Gender,
		&resident.RoomNumber, &resident.RoomUnit, &resident.Diagnoses,
		&resident.EmergencyContact, &resident.EmergencyPhone,
		&resident.Residence, &careLevel, &resident.MoveInDate,
		&baselineMMSE, &resident.CreatedAt, &resident.LastUpdated,
	)
	if err != nil {
		return err
	}

	resident.CareLevel = domain.CareLevel(careLevel)
	resident.BaselineMMSE = nullIntPtr(baselineMMSE)
	return nil
}

// Ensure ResidentRepository implements the interface
var _ ports.ResidentRepository = (*ResidentRepository)(nil)
